package retyped

import (
	restate "github.com/restatedev/sdk-go"
)

// Typed declarations lower themselves to the monomorphic raw forms below
// when bound into a definition. The raw forms are what gets registered with
// the SDK; value (de)serialization happens around them with the bound codec.
type (
	rawServiceHandler        = func(restate.Context, []byte) ([]byte, error)
	rawObjectHandler         = func(restate.ObjectContext, []byte) ([]byte, error)
	rawObjectSharedHandler   = func(restate.ObjectSharedContext, []byte) ([]byte, error)
	rawWorkflowHandler       = func(restate.WorkflowContext, []byte) ([]byte, error)
	rawWorkflowSharedHandler = func(restate.WorkflowSharedContext, []byte) ([]byte, error)
)

// workflowRunName is the handler name every workflow run handler registers
// and is invoked under.
const workflowRunName = "Run"

// ServiceBinding is satisfied by *ServiceHandler declarations.
type ServiceBinding interface {
	handlerName() string
	bindService(d *ServiceDefinition) error
}

// ObjectBinding is satisfied by *ObjectHandler and *ObjectSharedHandler
// declarations; a definition accepts any mix of the two.
type ObjectBinding interface {
	handlerName() string
	bindObject(d *ObjectDefinition) error
}

// WorkflowBinding is satisfied by *WorkflowHandler declarations (the shared
// handlers of a workflow).
type WorkflowBinding interface {
	handlerName() string
	bindWorkflowShared(d *WorkflowDefinition) error
}

// WorkflowRunBinding is satisfied only by *WorkflowRunHandler, which keeps
// the run/shared split a compile-time property of Facade.Workflow.
type WorkflowRunBinding interface {
	bindWorkflowRun(d *WorkflowDefinition) error
}

// ServiceHandler declares one stateless handler. The declaration carries the
// input and output types for both sides: the runtime lowering and the typed
// client methods in client.go derive from the same instantiation.
type ServiceHandler[I, O any] struct {
	name string
	fn   func(*ServiceContext, I) (O, error)
	core *bindingCore
}

// NewServiceHandler declares a named service handler.
func NewServiceHandler[I, O any](name string, fn func(ctx *ServiceContext, input I) (O, error)) *ServiceHandler[I, O] {
	return &ServiceHandler[I, O]{name: name, fn: fn}
}

// Name returns the declared handler name.
func (h *ServiceHandler[I, O]) Name() string { return h.name }

func (h *ServiceHandler[I, O]) handlerName() string { return h.name }

func (h *ServiceHandler[I, O]) bindService(d *ServiceDefinition) error {
	if h.fn == nil {
		return ErrHandlerRequired
	}
	if h.core != nil {
		return ErrHandlerBound
	}
	h.core = d.core
	d.raw[h.name] = func(rctx restate.Context, input []byte) ([]byte, error) {
		return h.invoke(newServiceContext(rctx, d.core), input)
	}
	return nil
}

func (h *ServiceHandler[I, O]) invoke(ctx *ServiceContext, data []byte) ([]byte, error) {
	input, err := unmarshalValue[I](h.core.codec, data)
	if err != nil {
		return nil, err
	}
	h.core.hooks.start(h.core.service, h.name)
	out, err := h.fn(ctx, input)
	h.core.hooks.end(h.core.service, h.name, err)
	if err != nil {
		return nil, err
	}
	return marshalValue(h.core.codec, out)
}

// ObjectHandler declares one exclusive virtual-object handler.
type ObjectHandler[I, O any] struct {
	name string
	fn   func(*ObjectContext, I) (O, error)
	core *bindingCore
}

// NewObjectHandler declares a named exclusive object handler.
func NewObjectHandler[I, O any](name string, fn func(ctx *ObjectContext, input I) (O, error)) *ObjectHandler[I, O] {
	return &ObjectHandler[I, O]{name: name, fn: fn}
}

// Name returns the declared handler name.
func (h *ObjectHandler[I, O]) Name() string { return h.name }

func (h *ObjectHandler[I, O]) handlerName() string { return h.name }

func (h *ObjectHandler[I, O]) bindObject(d *ObjectDefinition) error {
	if h.fn == nil {
		return ErrHandlerRequired
	}
	if h.core != nil {
		return ErrHandlerBound
	}
	h.core = d.core
	d.exclusive[h.name] = func(rctx restate.ObjectContext, input []byte) ([]byte, error) {
		return h.invoke(newObjectContext(rctx, d.core), input)
	}
	return nil
}

func (h *ObjectHandler[I, O]) invoke(ctx *ObjectContext, data []byte) ([]byte, error) {
	input, err := unmarshalValue[I](h.core.codec, data)
	if err != nil {
		return nil, err
	}
	h.core.hooks.start(h.core.service, h.name)
	out, err := h.fn(ctx, input)
	h.core.hooks.end(h.core.service, h.name, err)
	if err != nil {
		return nil, err
	}
	return marshalValue(h.core.codec, out)
}

// ObjectSharedHandler declares one shared virtual-object handler. Shared
// handlers run concurrently with the exclusive ones and receive a read-only
// view of state.
type ObjectSharedHandler[I, O any] struct {
	name string
	fn   func(*ObjectSharedContext, I) (O, error)
	core *bindingCore
}

// NewObjectSharedHandler declares a named shared object handler.
func NewObjectSharedHandler[I, O any](name string, fn func(ctx *ObjectSharedContext, input I) (O, error)) *ObjectSharedHandler[I, O] {
	return &ObjectSharedHandler[I, O]{name: name, fn: fn}
}

// Name returns the declared handler name.
func (h *ObjectSharedHandler[I, O]) Name() string { return h.name }

func (h *ObjectSharedHandler[I, O]) handlerName() string { return h.name }

func (h *ObjectSharedHandler[I, O]) bindObject(d *ObjectDefinition) error {
	if h.fn == nil {
		return ErrHandlerRequired
	}
	if h.core != nil {
		return ErrHandlerBound
	}
	h.core = d.core
	d.shared[h.name] = func(rctx restate.ObjectSharedContext, input []byte) ([]byte, error) {
		return h.invoke(newObjectSharedContext(rctx, d.core), input)
	}
	return nil
}

func (h *ObjectSharedHandler[I, O]) invoke(ctx *ObjectSharedContext, data []byte) ([]byte, error) {
	input, err := unmarshalValue[I](h.core.codec, data)
	if err != nil {
		return nil, err
	}
	h.core.hooks.start(h.core.service, h.name)
	out, err := h.fn(ctx, input)
	h.core.hooks.end(h.core.service, h.name, err)
	if err != nil {
		return nil, err
	}
	return marshalValue(h.core.codec, out)
}

// WorkflowRunHandler declares a workflow's run handler. There is exactly one
// per workflow, it is always registered as "Run", and it executes at most
// once per workflow id.
type WorkflowRunHandler[I, O any] struct {
	fn   func(*WorkflowContext, I) (O, error)
	core *bindingCore
}

// NewWorkflowRunHandler declares a workflow run handler.
func NewWorkflowRunHandler[I, O any](fn func(ctx *WorkflowContext, input I) (O, error)) *WorkflowRunHandler[I, O] {
	return &WorkflowRunHandler[I, O]{fn: fn}
}

// Name returns the fixed run handler name.
func (h *WorkflowRunHandler[I, O]) Name() string { return workflowRunName }

func (h *WorkflowRunHandler[I, O]) bindWorkflowRun(d *WorkflowDefinition) error {
	if h.fn == nil {
		return ErrHandlerRequired
	}
	if h.core != nil {
		return ErrHandlerBound
	}
	h.core = d.core
	d.run = func(rctx restate.WorkflowContext, input []byte) ([]byte, error) {
		return h.invoke(newWorkflowContext(rctx, d.core), input)
	}
	return nil
}

func (h *WorkflowRunHandler[I, O]) invoke(ctx *WorkflowContext, data []byte) ([]byte, error) {
	input, err := unmarshalValue[I](h.core.codec, data)
	if err != nil {
		return nil, err
	}
	h.core.hooks.start(h.core.service, workflowRunName)
	out, err := h.fn(ctx, input)
	h.core.hooks.end(h.core.service, workflowRunName, err)
	if err != nil {
		return nil, err
	}
	return marshalValue(h.core.codec, out)
}

// WorkflowHandler declares a shared workflow handler, callable while the run
// handler is in flight and after it finished.
type WorkflowHandler[I, O any] struct {
	name string
	fn   func(*WorkflowSharedContext, I) (O, error)
	core *bindingCore
}

// NewWorkflowHandler declares a named shared workflow handler.
func NewWorkflowHandler[I, O any](name string, fn func(ctx *WorkflowSharedContext, input I) (O, error)) *WorkflowHandler[I, O] {
	return &WorkflowHandler[I, O]{name: name, fn: fn}
}

// Name returns the declared handler name.
func (h *WorkflowHandler[I, O]) Name() string { return h.name }

func (h *WorkflowHandler[I, O]) handlerName() string { return h.name }

func (h *WorkflowHandler[I, O]) bindWorkflowShared(d *WorkflowDefinition) error {
	if h.fn == nil {
		return ErrHandlerRequired
	}
	if h.core != nil {
		return ErrHandlerBound
	}
	h.core = d.core
	d.shared[h.name] = func(rctx restate.WorkflowSharedContext, input []byte) ([]byte, error) {
		return h.invoke(newWorkflowSharedContext(rctx, d.core), input)
	}
	return nil
}

func (h *WorkflowHandler[I, O]) invoke(ctx *WorkflowSharedContext, data []byte) ([]byte, error) {
	input, err := unmarshalValue[I](h.core.codec, data)
	if err != nil {
		return nil, err
	}
	h.core.hooks.start(h.core.service, h.name)
	out, err := h.fn(ctx, input)
	h.core.hooks.end(h.core.service, h.name, err)
	if err != nil {
		return nil, err
	}
	return marshalValue(h.core.codec, out)
}
