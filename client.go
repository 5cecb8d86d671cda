package retyped

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// CallOption adjusts a single call or send.
type CallOption func(*callOptions)

type callOptions struct {
	codec          Codec
	idempotencyKey string
	generateKey    bool
	delay          time.Duration
	headers        map[string]string
}

// WithIdempotencyKey deduplicates the invocation under the given key. It
// applies to sends and to ingress calls; an in-context request/response call
// is already deduplicated by the journal and ignores it.
func WithIdempotencyKey(key string) CallOption {
	return func(o *callOptions) { o.idempotencyKey = key }
}

// WithGeneratedIdempotencyKey deduplicates the call under a fresh ULID.
// Meant for ingress sends from plain Go code; inside a handler the journal
// already deduplicates, and a generated key would differ on replay.
func WithGeneratedIdempotencyKey() CallOption {
	return func(o *callOptions) { o.generateKey = true }
}

// WithDelay defers delivery of a send by d.
func WithDelay(d time.Duration) CallOption {
	return func(o *callOptions) { o.delay = d }
}

// WithHeaders attaches headers to an ingress call or send. In-context
// invocations travel over the journal, not HTTP, and ignore it.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *callOptions) { o.headers = headers }
}

// WithCallCodec overrides the configured codec for this call only. An
// explicit codec always wins; unset options keep falling back to the
// configured one.
func WithCallCodec(c Codec) CallOption {
	return func(o *callOptions) { o.codec = c }
}

func resolveCallOptions(fallback Codec, opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec == nil {
		o.codec = fallback
	}
	if o.generateKey && o.idempotencyKey == "" {
		o.idempotencyKey = ulid.Make().String()
	}
	return o
}

// The declaration value doubles as the client: Call and Send run inside a
// handler through the invocation's durable call port, CallFrom and SendFrom
// run from plain Go code through an Ingress. Signatures mirror the declared
// handler exactly, minus the context parameter.

func (h *ServiceHandler[I, O]) target() (*bindingCore, error) {
	if h.core == nil {
		return nil, ErrHandlerNotBound
	}
	return h.core, nil
}

// Call invokes the handler durably from inside another handler and awaits
// the typed result.
func (h *ServiceHandler[I, O]) Call(ctx HandlerContext, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ctx.callPort().call(callTarget{kind: core.kind, service: core.service, method: h.name}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// Send enqueues a one-way invocation from inside another handler.
func (h *ServiceHandler[I, O]) Send(ctx HandlerContext, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ctx.callPort().send(callTarget{kind: core.kind, service: core.service, method: h.name}, data, o)
}

// CallFrom invokes the handler through the ingress and awaits the typed
// result.
func (h *ServiceHandler[I, O]) CallFrom(ctx context.Context, ing *Ingress, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ing.call(ctx, callTarget{kind: core.kind, service: core.service, method: h.name}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// SendFrom enqueues a one-way invocation through the ingress.
func (h *ServiceHandler[I, O]) SendFrom(ctx context.Context, ing *Ingress, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ing.send(ctx, callTarget{kind: core.kind, service: core.service, method: h.name}, data, o)
}

func (h *ObjectHandler[I, O]) target() (*bindingCore, error) {
	if h.core == nil {
		return nil, ErrHandlerNotBound
	}
	return h.core, nil
}

// Call invokes the handler on the keyed object durably from inside another
// handler.
func (h *ObjectHandler[I, O]) Call(ctx HandlerContext, key string, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ctx.callPort().call(callTarget{kind: core.kind, service: core.service, key: key, method: h.name}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// Send enqueues a one-way invocation on the keyed object.
func (h *ObjectHandler[I, O]) Send(ctx HandlerContext, key string, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ctx.callPort().send(callTarget{kind: core.kind, service: core.service, key: key, method: h.name}, data, o)
}

// CallFrom invokes the handler on the keyed object through the ingress.
func (h *ObjectHandler[I, O]) CallFrom(ctx context.Context, ing *Ingress, key string, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ing.call(ctx, callTarget{kind: core.kind, service: core.service, key: key, method: h.name}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// SendFrom enqueues a one-way invocation on the keyed object through the
// ingress.
func (h *ObjectHandler[I, O]) SendFrom(ctx context.Context, ing *Ingress, key string, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ing.send(ctx, callTarget{kind: core.kind, service: core.service, key: key, method: h.name}, data, o)
}

func (h *ObjectSharedHandler[I, O]) target() (*bindingCore, error) {
	if h.core == nil {
		return nil, ErrHandlerNotBound
	}
	return h.core, nil
}

// Call invokes the shared handler on the keyed object durably from inside
// another handler.
func (h *ObjectSharedHandler[I, O]) Call(ctx HandlerContext, key string, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ctx.callPort().call(callTarget{kind: core.kind, service: core.service, key: key, method: h.name}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// Send enqueues a one-way invocation of the shared handler on the keyed
// object.
func (h *ObjectSharedHandler[I, O]) Send(ctx HandlerContext, key string, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ctx.callPort().send(callTarget{kind: core.kind, service: core.service, key: key, method: h.name}, data, o)
}

// CallFrom invokes the shared handler on the keyed object through the
// ingress.
func (h *ObjectSharedHandler[I, O]) CallFrom(ctx context.Context, ing *Ingress, key string, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ing.call(ctx, callTarget{kind: core.kind, service: core.service, key: key, method: h.name}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// SendFrom enqueues a one-way invocation of the shared handler through the
// ingress.
func (h *ObjectSharedHandler[I, O]) SendFrom(ctx context.Context, ing *Ingress, key string, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ing.send(ctx, callTarget{kind: core.kind, service: core.service, key: key, method: h.name}, data, o)
}

func (h *WorkflowRunHandler[I, O]) target() (*bindingCore, error) {
	if h.core == nil {
		return nil, ErrHandlerNotBound
	}
	return h.core, nil
}

// Call starts the workflow under the given id and awaits its result. If the
// workflow already ran, the recorded result is returned.
func (h *WorkflowRunHandler[I, O]) Call(ctx HandlerContext, workflowID string, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ctx.callPort().call(callTarget{kind: core.kind, service: core.service, key: workflowID, method: workflowRunName}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// Send submits the workflow under the given id without awaiting it.
func (h *WorkflowRunHandler[I, O]) Send(ctx HandlerContext, workflowID string, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ctx.callPort().send(callTarget{kind: core.kind, service: core.service, key: workflowID, method: workflowRunName}, data, o)
}

// CallFrom starts the workflow through the ingress and awaits its result.
func (h *WorkflowRunHandler[I, O]) CallFrom(ctx context.Context, ing *Ingress, workflowID string, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ing.call(ctx, callTarget{kind: core.kind, service: core.service, key: workflowID, method: workflowRunName}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// SendFrom submits the workflow through the ingress without awaiting it.
func (h *WorkflowRunHandler[I, O]) SendFrom(ctx context.Context, ing *Ingress, workflowID string, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ing.send(ctx, callTarget{kind: core.kind, service: core.service, key: workflowID, method: workflowRunName}, data, o)
}

func (h *WorkflowHandler[I, O]) target() (*bindingCore, error) {
	if h.core == nil {
		return nil, ErrHandlerNotBound
	}
	return h.core, nil
}

// Call invokes the shared workflow handler durably from inside another
// handler.
func (h *WorkflowHandler[I, O]) Call(ctx HandlerContext, workflowID string, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ctx.callPort().call(callTarget{kind: core.kind, service: core.service, key: workflowID, method: h.name}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// Send enqueues a one-way invocation of the shared workflow handler.
func (h *WorkflowHandler[I, O]) Send(ctx HandlerContext, workflowID string, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ctx.callPort().send(callTarget{kind: core.kind, service: core.service, key: workflowID, method: h.name}, data, o)
}

// CallFrom invokes the shared workflow handler through the ingress.
func (h *WorkflowHandler[I, O]) CallFrom(ctx context.Context, ing *Ingress, workflowID string, input I, opts ...CallOption) (O, error) {
	var zero O
	core, err := h.target()
	if err != nil {
		return zero, err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return zero, err
	}
	out, err := ing.call(ctx, callTarget{kind: core.kind, service: core.service, key: workflowID, method: h.name}, data, o)
	if err != nil {
		return zero, err
	}
	return unmarshalValue[O](o.codec, out)
}

// SendFrom enqueues a one-way invocation of the shared workflow handler
// through the ingress.
func (h *WorkflowHandler[I, O]) SendFrom(ctx context.Context, ing *Ingress, workflowID string, input I, opts ...CallOption) error {
	core, err := h.target()
	if err != nil {
		return err
	}
	o := resolveCallOptions(core.codec, opts)
	data, err := marshalValue(o.codec, input)
	if err != nil {
		return err
	}
	return ing.send(ctx, callTarget{kind: core.kind, service: core.service, key: workflowID, method: h.name}, data, o)
}
