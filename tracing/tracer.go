package tracing

// A Tracer can collect task traces
type Tracer interface {
	StartTask(task Task)
	EndTask(task Task)
}

// CollectTrace let the tracer to collect trace from a domain
func CollectTrace(domain NamedHookable, tracer Tracer) {
	h := NewHook(tracer)
	domain.AcceptHook(h)
}
