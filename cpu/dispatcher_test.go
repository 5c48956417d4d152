package cpu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/schedsim/sim"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Dispatcher", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockEventScheduler
		d        *Dispatcher
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEventScheduler(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("when loading", func() {
		BeforeEach(func() {
			d = MakeBuilder().
				WithEngine(engine).
				WithPolicy(FCFS()).
				Build("CPU")
		})

		It("should schedule arrivals by time and then by id", func() {
			var scheduled []*ArrivalEvent
			engine.EXPECT().Schedule(gomock.Any()).
				Do(func(e sim.Event) {
					scheduled = append(scheduled, e.(*ArrivalEvent))
				}).
				Times(3)

			err := d.Load([]Process{
				NewProcess(3, 4, 1),
				NewProcess(2, 0, 1),
				NewProcess(1, 0, 1),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(scheduled[0].PID).To(Equal(1))
			Expect(scheduled[1].PID).To(Equal(2))
			Expect(scheduled[2].PID).To(Equal(3))
			Expect(scheduled[2].Time()).To(Equal(sim.VTime(4)))
			Expect(scheduled[0].IsSecondary()).To(BeFalse())
		})

		It("should reject invalid processes", func() {
			err := d.Load([]Process{NewProcess(1, 0, 0)})

			Expect(err).To(MatchError(ErrInvalidInput))
		})

		It("should panic when loaded twice", func() {
			engine.EXPECT().Schedule(gomock.Any())
			Expect(d.Load([]Process{NewProcess(1, 0, 1)})).To(Succeed())

			Expect(func() {
				_ = d.Load([]Process{NewProcess(2, 0, 1)})
			}).To(Panic())
		})
	})

	Context("under FCFS", func() {
		BeforeEach(func() {
			d = MakeBuilder().
				WithEngine(engine).
				WithPolicy(FCFS()).
				Build("CPU")

			engine.EXPECT().Schedule(gomock.Any()).Times(2)
			Expect(d.Load([]Process{
				NewProcess(1, 0, 5),
				NewProcess(2, 1, 3),
			})).To(Succeed())
		})

		It("should dispatch on arrival to an idle CPU", func() {
			engine.EXPECT().Schedule(gomock.Any()).
				Do(func(e sim.Event) {
					c := e.(*CompletionEvent)
					Expect(c.PID).To(Equal(1))
					Expect(c.Time()).To(Equal(sim.VTime(5)))
					Expect(c.IsSecondary()).To(BeTrue())
				})

			Expect(d.Handle(NewArrivalEvent(0, d, 1))).To(Succeed())

			state := d.State()
			Expect(state.Running).To(Equal(1))
			Expect(d.Processes()[0].StartTime).To(Equal(sim.VTime(0)))
		})

		It("should queue arrivals while the CPU is busy", func() {
			engine.EXPECT().Schedule(gomock.Any())
			Expect(d.Handle(NewArrivalEvent(0, d, 1))).To(Succeed())
			Expect(d.Handle(NewArrivalEvent(1, d, 2))).To(Succeed())

			state := d.State()
			Expect(state.Running).To(Equal(1))
			Expect(state.ReadyQueue).To(Equal([]int{2}))
		})

		It("should dispatch the queue head on completion", func() {
			engine.EXPECT().Schedule(gomock.Any())
			Expect(d.Handle(NewArrivalEvent(0, d, 1))).To(Succeed())
			Expect(d.Handle(NewArrivalEvent(1, d, 2))).To(Succeed())

			engine.EXPECT().Schedule(gomock.Any()).
				Do(func(e sim.Event) {
					c := e.(*CompletionEvent)
					Expect(c.PID).To(Equal(2))
					Expect(c.Time()).To(Equal(sim.VTime(8)))
				})
			Expect(d.Handle(NewCompletionEvent(5, d, 1))).To(Succeed())

			p1 := d.Processes()[0]
			Expect(p1.EndTime).To(Equal(sim.VTime(5)))
			Expect(p1.Finished()).To(BeTrue())
			Expect(d.TotalExecutionTime()).To(Equal(sim.VTime(5)))
			Expect(d.State().Running).To(Equal(2))
		})

		It("should panic on completion of a process that is not running", func() {
			engine.EXPECT().Schedule(gomock.Any())
			Expect(d.Handle(NewArrivalEvent(0, d, 1))).To(Succeed())

			Expect(func() {
				_ = d.Handle(NewCompletionEvent(3, d, 2))
			}).To(Panic())
		})

		It("should panic on time slice events", func() {
			Expect(func() {
				_ = d.Handle(NewTimeSliceEvent(3, d, 1))
			}).To(Panic())
		})

		It("should report unfinished processes", func() {
			Expect(func() { d.MustBeFinished() }).To(Panic())
		})

		It("should return an error on unknown events", func() {
			err := d.Handle(sim.NewEventBase(0, d))

			Expect(err).To(HaveOccurred())
		})
	})

	Context("under Round Robin", func() {
		BeforeEach(func() {
			d = MakeBuilder().
				WithEngine(engine).
				WithPolicy(RoundRobin(2)).
				Build("CPU")

			engine.EXPECT().Schedule(gomock.Any()).Times(2)
			Expect(d.Load([]Process{
				NewProcess(1, 0, 3),
				NewProcess(2, 0, 1),
			})).To(Succeed())
		})

		It("should grant at most one quantum", func() {
			engine.EXPECT().Schedule(gomock.Any()).
				Do(func(e sim.Event) {
					ts := e.(*TimeSliceEvent)
					Expect(ts.PID).To(Equal(1))
					Expect(ts.Time()).To(Equal(sim.VTime(2)))
				})

			Expect(d.Handle(NewArrivalEvent(0, d, 1))).To(Succeed())
		})

		It("should rotate a preempted process to the tail", func() {
			engine.EXPECT().Schedule(gomock.Any())
			Expect(d.Handle(NewArrivalEvent(0, d, 1))).To(Succeed())
			Expect(d.Handle(NewArrivalEvent(0, d, 2))).To(Succeed())

			engine.EXPECT().Schedule(gomock.Any()).
				Do(func(e sim.Event) {
					ts := e.(*TimeSliceEvent)
					Expect(ts.PID).To(Equal(2))
					Expect(ts.Time()).To(Equal(sim.VTime(3)))
				})
			Expect(d.Handle(NewTimeSliceEvent(2, d, 1))).To(Succeed())

			state := d.State()
			Expect(state.Running).To(Equal(2))
			Expect(state.ReadyQueue).To(Equal([]int{1}))
			Expect(d.Processes()[0].RemainingTime).To(Equal(sim.VTime(1)))
		})

		It("should panic on expiry of a process that is not running", func() {
			engine.EXPECT().Schedule(gomock.Any())
			Expect(d.Handle(NewArrivalEvent(0, d, 1))).To(Succeed())

			Expect(func() {
				_ = d.Handle(NewTimeSliceEvent(2, d, 2))
			}).To(Panic())
		})

		It("should panic on completion events", func() {
			Expect(func() {
				_ = d.Handle(NewCompletionEvent(3, d, 1))
			}).To(Panic())
		})
	})

	It("should panic when built without an engine", func() {
		Expect(func() { MakeBuilder().Build("CPU") }).To(Panic())
	})

	It("should panic when built with an invalid policy", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(engine).
				WithPolicy(RoundRobin(0)).
				Build("CPU")
		}).To(Panic())
	})
})
