package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/schedsim/sim"
	"go.uber.org/mock/gomock"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		backend    *MockDataRecorder
		t          *DBTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		backend = NewMockDataRecorder(mockCtrl)

		backend.EXPECT().CreateTable(TraceTableName, gomock.Any())
		t = NewDBTracer(timeTeller, backend)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write a task when it ends", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(2))
		t.StartTask(Task{ID: "1", Kind: "slice", What: "P1", Where: "CPU"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(4))
		backend.EXPECT().InsertData(TraceTableName, taskTableEntry{
			ID:        "1",
			Kind:      "slice",
			What:      "P1",
			Location:  "CPU",
			StartTime: 2,
			EndTime:   4,
		})
		t.EndTask(Task{ID: "1"})
	})

	It("should ignore ending tasks that never started", func() {
		t.EndTask(Task{ID: "x"})
	})

	It("should panic on tasks without location", func() {
		Expect(func() {
			t.StartTask(Task{ID: "1", Kind: "slice", What: "P1"})
		}).To(Panic())
	})

	It("should write unfinished tasks on termination", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(1))
		t.StartTask(Task{ID: "1", Kind: "slice", What: "P1", Where: "CPU"})

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(9))
		backend.EXPECT().InsertData(TraceTableName, taskTableEntry{
			ID:        "1",
			Kind:      "slice",
			What:      "P1",
			Location:  "CPU",
			StartTime: 1,
			EndTime:   9,
		})
		backend.EXPECT().Flush()

		t.Terminate()
	})
})
