package retyped

// Hooks observe wrapped handler invocations. Both fields are optional. Hooks
// never recover from handler errors; whatever the handler returned still
// propagates to the runtime unchanged.
type Hooks struct {
	OnInvocationStart func(service, handler string)
	OnInvocationEnd   func(service, handler string, err error)
}

func (h Hooks) start(service, handler string) {
	if h.OnInvocationStart != nil {
		h.OnInvocationStart(service, handler)
	}
}

func (h Hooks) end(service, handler string, err error) {
	if h.OnInvocationEnd != nil {
		h.OnInvocationEnd(service, handler, err)
	}
}
