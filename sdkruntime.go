package retyped

import (
	"time"

	restate "github.com/restatedev/sdk-go"
)

// This file is the only place raw SDK contexts are touched. Everything moves
// as []byte here; the typed layer above already applied the codec, so every
// SDK primitive is parameterized with the pass-through payload bridge.

func newBaseContext(rctx restate.Context, core *bindingCore) baseContext {
	ports := sdkPorts{ctx: rctx, pc: passthroughFor(core.codec)}
	return baseContext{
		codec: core.codec,
		log:   rctx.Log(),
		steps: ports,
		calls: ports,
		raw:   rctx,
	}
}

func newServiceContext(rctx restate.Context, core *bindingCore) *ServiceContext {
	return &ServiceContext{baseContext: newBaseContext(rctx, core)}
}

func newObjectContext(rctx restate.ObjectContext, core *bindingCore) *ObjectContext {
	return &ObjectContext{
		baseContext: newBaseContext(rctx, core),
		key:         restate.Key(rctx),
		state:       sdkStateWriter{ctx: rctx, pc: passthroughFor(core.codec)},
	}
}

func newObjectSharedContext(rctx restate.ObjectSharedContext, core *bindingCore) *ObjectSharedContext {
	return &ObjectSharedContext{
		baseContext: newBaseContext(rctx, core),
		key:         restate.Key(rctx),
		state:       sdkStateReader{ctx: rctx, pc: passthroughFor(core.codec)},
	}
}

func newWorkflowContext(rctx restate.WorkflowContext, core *bindingCore) *WorkflowContext {
	return &WorkflowContext{
		baseContext: newBaseContext(rctx, core),
		key:         restate.Key(rctx),
		state:       sdkStateWriter{ctx: rctx, pc: passthroughFor(core.codec)},
	}
}

func newWorkflowSharedContext(rctx restate.WorkflowSharedContext, core *bindingCore) *WorkflowSharedContext {
	return &WorkflowSharedContext{
		baseContext: newBaseContext(rctx, core),
		key:         restate.Key(rctx),
		state:       sdkStateReader{ctx: rctx, pc: passthroughFor(core.codec)},
	}
}

// sdkPorts adapts durable steps and calls onto the SDK context.
type sdkPorts struct {
	ctx restate.Context
	pc  passthroughCodec
}

func (p sdkPorts) runStep(name string, fn func(StepContext) ([]byte, error)) ([]byte, error) {
	return restate.Run(p.ctx, func(rc restate.RunContext) ([]byte, error) {
		return fn(rc)
	}, restate.WithName(name), restate.WithPayloadCodec(p.pc))
}

func (p sdkPorts) sleep(d time.Duration) error {
	return restate.Sleep(p.ctx, d)
}

func (p sdkPorts) call(t callTarget, input []byte, o callOptions) ([]byte, error) {
	pc := passthroughCodec{contentType: o.codec.ContentType()}
	switch t.kind {
	case targetObject:
		return restate.Object[[]byte](p.ctx, t.service, t.key, t.method,
			restate.WithPayloadCodec(pc)).Request(input)
	case targetWorkflow:
		return restate.Workflow[[]byte](p.ctx, t.service, t.key, t.method,
			restate.WithPayloadCodec(pc)).Request(input)
	default:
		return restate.Service[[]byte](p.ctx, t.service, t.method,
			restate.WithPayloadCodec(pc)).Request(input)
	}
}

func (p sdkPorts) send(t callTarget, input []byte, o callOptions) error {
	pc := passthroughCodec{contentType: o.codec.ContentType()}
	var sendOpts []restate.SendOption
	if o.idempotencyKey != "" {
		sendOpts = append(sendOpts, restate.WithIdempotencyKey(o.idempotencyKey))
	}
	if o.delay > 0 {
		sendOpts = append(sendOpts, restate.WithDelay(o.delay))
	}
	switch t.kind {
	case targetObject:
		restate.ObjectSend(p.ctx, t.service, t.key, t.method,
			restate.WithPayloadCodec(pc)).Send(input, sendOpts...)
	case targetWorkflow:
		restate.WorkflowSend(p.ctx, t.service, t.key, t.method,
			restate.WithPayloadCodec(pc)).Send(input, sendOpts...)
	default:
		restate.ServiceSend(p.ctx, t.service, t.method,
			restate.WithPayloadCodec(pc)).Send(input, sendOpts...)
	}
	return nil
}

// sdkStateReader adapts read-only state access; any keyed SDK context
// satisfies ObjectSharedContext.
type sdkStateReader struct {
	ctx restate.ObjectSharedContext
	pc  passthroughCodec
}

func (s sdkStateReader) getState(key string) ([]byte, error) {
	return restate.Get[[]byte](s.ctx, key, restate.WithPayloadCodec(s.pc))
}

func (s sdkStateReader) stateKeys() ([]string, error) {
	return restate.Keys(s.ctx)
}

// sdkStateWriter adapts exclusive state access for object and workflow run
// handlers.
type sdkStateWriter struct {
	ctx restate.ObjectContext
	pc  passthroughCodec
}

func (s sdkStateWriter) getState(key string) ([]byte, error) {
	return restate.Get[[]byte](s.ctx, key, restate.WithPayloadCodec(s.pc))
}

func (s sdkStateWriter) stateKeys() ([]string, error) {
	return restate.Keys(s.ctx)
}

func (s sdkStateWriter) setState(key string, value []byte) {
	restate.Set(s.ctx, key, value, restate.WithPayloadCodec(s.pc))
}

func (s sdkStateWriter) clearState(key string) {
	restate.Clear(s.ctx, key)
}

func (s sdkStateWriter) clearAllState() {
	restate.ClearAll(s.ctx)
}
