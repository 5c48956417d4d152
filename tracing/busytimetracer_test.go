package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/schedsim/sim"
	"go.uber.org/mock/gomock"
)

var _ = Describe("BusyTimeTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		t          *BusyTimeTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		t = NewBusyTimeTracer(timeTeller, KindIs("slice"))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should ignore tasks of other kinds", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(2))
		t.StartTask(Task{ID: "1", Kind: "switch"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(4))
		t.EndTask(Task{ID: "1"})

		Expect(t.BusyTime()).To(Equal(sim.VTime(0)))
	})

	It("should sum disjoint tasks", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(0))
		t.StartTask(Task{ID: "1", Kind: "slice"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(2))
		t.EndTask(Task{ID: "1"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(5))
		t.StartTask(Task{ID: "2", Kind: "slice"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(8))
		t.EndTask(Task{ID: "2"})

		Expect(t.BusyTime()).To(Equal(sim.VTime(5)))
	})

	It("should count overlapping time once", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(1))
		t.StartTask(Task{ID: "1", Kind: "slice"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(2))
		t.StartTask(Task{ID: "2", Kind: "slice"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(3))
		t.EndTask(Task{ID: "1"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(4))
		t.EndTask(Task{ID: "2"})

		Expect(t.BusyTime()).To(Equal(sim.VTime(3)))
	})

	It("should close unfinished tasks on termination", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(3))
		t.StartTask(Task{ID: "1", Kind: "slice"})

		t.TerminateAllTasks(7)

		Expect(t.BusyTime()).To(Equal(sim.VTime(4)))
	})
})
