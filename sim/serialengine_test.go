package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type endRecorder struct {
	endTime VTime
	called  bool
}

func (r *endRecorder) Handle(now VTime) {
	r.endTime = now
	r.called = true
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	mockEvent := func(t VTime, h Handler, secondary bool) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().Handler().Return(h).AnyTimes()
		evt.EXPECT().IsSecondary().Return(secondary).AnyTimes()

		return evt
	}

	It("should schedule events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := mockEvent(4, handler1, false)
		evt2 := mockEvent(2, handler2, false)
		evt3 := mockEvent(3, handler1, false)
		evt4 := mockEvent(5, handler1, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2).Do(func(e Event) {
			engine.Schedule(evt3)
			engine.Schedule(evt4)
		})
		handleEvt3 := handler1.EXPECT().Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTime(5)))
	})

	It("should consider secondary events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		handler3 := NewMockHandler(mockCtrl)
		evt1 := mockEvent(2, handler1, true)
		evt2 := mockEvent(2, handler2, false)
		evt3 := mockEvent(2, handler3, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2)
		handleEvt3 := handler3.EXPECT().Handle(evt3).After(handleEvt2)
		handler1.EXPECT().
			Handle(evt1).
			After(handleEvt2).
			After(handleEvt3)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		Expect(engine.Run()).To(Succeed())
	})

	It("should run earlier secondary events before later primary events", func() {
		handler := NewMockHandler(mockCtrl)
		secondary := mockEvent(1, handler, true)
		primary := mockEvent(2, handler, false)

		handleSecondary := handler.EXPECT().Handle(secondary)
		handler.EXPECT().Handle(primary).After(handleSecondary)

		engine.Schedule(primary)
		engine.Schedule(secondary)

		Expect(engine.Run()).To(Succeed())
	})

	It("should panic when scheduling an event in the past", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(10, handler, false)
		evt2 := mockEvent(5, handler, false)

		handler.EXPECT().Handle(evt1).Do(func(e Event) {
			engine.Schedule(evt2)
		})

		engine.Schedule(evt1)

		Expect(func() { _ = engine.Run() }).To(Panic())
	})

	It("should stop at the first handler error", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(1, handler, false)
		evt2 := mockEvent(2, handler, false)
		handlerErr := errors.New("handler failed")

		handler.EXPECT().Handle(evt1).Return(handlerErr)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(MatchError(handlerErr))
		Expect(engine.queue.Len()).To(Equal(1))
	})

	It("should invoke hooks before and after each event", func() {
		handler := NewMockHandler(mockCtrl)
		hook := NewMockHook(mockCtrl)
		evt := mockEvent(1, handler, false)
		engine.AcceptHook(hook)

		before := hook.EXPECT().Func(HookCtx{
			Domain: engine,
			Pos:    HookPosBeforeEvent,
			Item:   evt,
		})
		handling := handler.EXPECT().Handle(evt).After(before)
		hook.EXPECT().Func(HookCtx{
			Domain: engine,
			Pos:    HookPosAfterEvent,
			Item:   evt,
		}).After(handling)

		engine.Schedule(evt)

		Expect(engine.Run()).To(Succeed())
	})

	It("should pause and continue", func() {
		Expect(engine.IsPaused()).To(BeFalse())

		engine.Pause()
		engine.Pause()
		Expect(engine.IsPaused()).To(BeTrue())

		engine.Continue()
		Expect(engine.IsPaused()).To(BeFalse())
	})

	It("should notify end handlers", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(7, handler, false)
		handler.EXPECT().Handle(evt)
		recorder := &endRecorder{}
		engine.RegisterEndHandler(recorder)

		engine.Schedule(evt)
		Expect(engine.Run()).To(Succeed())
		engine.Finished()

		Expect(recorder.called).To(BeTrue())
		Expect(recorder.endTime).To(Equal(VTime(7)))
	})
})
