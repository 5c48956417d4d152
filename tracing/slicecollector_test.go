package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/schedsim/sim"
	"go.uber.org/mock/gomock"
)

type namedDomain struct {
	*sim.HookableBase
	name string
}

func (d namedDomain) Name() string {
	return d.name
}

var _ = Describe("SliceCollector", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		domain     namedDomain
		c          *SliceCollector
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		domain = namedDomain{HookableBase: sim.NewHookableBase(), name: "CPU"}
		c = NewSliceCollector(timeTeller, KindIs("slice"))
		CollectTrace(domain, c)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record tasks started and ended through the domain", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(4))
		StartTask("t2", "", domain, "slice", "P2", 2)

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(0))
		StartTask("t1", "", domain, "slice", "P1", 1)

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(2))
		EndTask("t1", domain)

		Expect(c.NumInflight()).To(Equal(1))

		timeTeller.EXPECT().CurrentTime().Return(sim.VTime(6))
		EndTask("t2", domain)

		tasks := c.Tasks()
		Expect(tasks).To(HaveLen(2))
		Expect(tasks[0].What).To(Equal("P1"))
		Expect(tasks[0].Where).To(Equal("CPU"))
		Expect(tasks[0].StartTime).To(Equal(sim.VTime(0)))
		Expect(tasks[0].EndTime).To(Equal(sim.VTime(2)))
		Expect(tasks[0].Detail).To(Equal(1))
		Expect(tasks[1].Duration()).To(Equal(sim.VTime(2)))
	})

	It("should skip filtered tasks", func() {
		StartTask("s1", "", domain, "switch", "P1", nil)
		EndTask("s1", domain)

		Expect(c.Tasks()).To(BeEmpty())
	})

	It("should panic if a required field is missing", func() {
		Expect(func() {
			StartTask("", "", domain, "slice", "P1", nil)
		}).To(Panic())
	})
})

var _ = Describe("Task API without hooks", func() {
	It("should not require any field", func() {
		domain := namedDomain{HookableBase: sim.NewHookableBase(), name: "CPU"}

		Expect(func() {
			StartTask("", "", domain, "", "", nil)
			EndTask("", domain)
		}).NotTo(Panic())
	})
})
