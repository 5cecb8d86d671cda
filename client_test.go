package retyped

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetRequest struct {
	Name string `json:"name"`
}

func TestUnboundHandlerIsNotCallable(t *testing.T) {
	h := NewServiceHandler("Greet", func(_ *ServiceContext, in greetRequest) (string, error) {
		return in.Name, nil
	})

	rt := newFakeRuntime()
	_, err := h.Call(newTestServiceContext(JSON, rt), greetRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrHandlerNotBound)

	err = h.Send(newTestServiceContext(JSON, rt), greetRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrHandlerNotBound)
}

func TestServiceCallEncodesAndDecodes(t *testing.T) {
	f := newTestFacade(t)
	h := NewServiceHandler("Greet", func(_ *ServiceContext, in greetRequest) (string, error) {
		return "hello " + in.Name, nil
	})
	_, err := f.Service("Greeter", h)
	require.NoError(t, err)

	rt := newFakeRuntime()
	rt.response = []byte(`"hello Ada"`)

	out, err := h.Call(newTestServiceContext(JSON, rt), greetRequest{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "hello Ada", out)

	require.Len(t, rt.calls, 1)
	rec := rt.calls[0]
	assert.Equal(t, targetService, rec.target.kind)
	assert.Equal(t, "Greeter", rec.target.service)
	assert.Equal(t, "Greet", rec.target.method)
	assert.Empty(t, rec.target.key)
	assert.JSONEq(t, `{"name":"Ada"}`, string(rec.input))
}

func TestCallCarriesConfiguredCodec(t *testing.T) {
	f := newTestFacade(t)
	h := NewServiceHandler("Ping", func(*ServiceContext, Void) (Void, error) {
		return Void{}, nil
	})
	_, err := f.Service("Pinger", h)
	require.NoError(t, err)

	rt := newFakeRuntime()
	_, err = h.Call(newTestServiceContext(JSON, rt), Void{})
	require.NoError(t, err)

	require.Len(t, rt.calls, 1)
	assert.Equal(t, JSON, rt.calls[0].opts.codec)
}

func TestExplicitCallCodecWins(t *testing.T) {
	f := newTestFacade(t)
	h := NewServiceHandler("Raw", func(*ServiceContext, []byte) ([]byte, error) {
		return nil, nil
	})
	_, err := f.Service("RawSvc", h)
	require.NoError(t, err)

	rt := newFakeRuntime()
	_, err = h.Call(newTestServiceContext(JSON, rt), []byte{0xde, 0xad}, WithCallCodec(Binary))
	require.NoError(t, err)

	require.Len(t, rt.calls, 1)
	assert.Equal(t, Binary, rt.calls[0].opts.codec)
	assert.Equal(t, []byte{0xde, 0xad}, rt.calls[0].input)
}

func TestVoidInputStillCarriesOptions(t *testing.T) {
	f := newTestFacade(t)
	h := NewServiceHandler("Tick", func(*ServiceContext, Void) (Void, error) {
		return Void{}, nil
	})
	_, err := f.Service("Clock", h)
	require.NoError(t, err)

	rt := newFakeRuntime()
	err = h.Send(newTestServiceContext(JSON, rt), Void{},
		WithIdempotencyKey("tick-1"), WithDelay(time.Minute))
	require.NoError(t, err)

	require.Len(t, rt.sends, 1)
	rec := rt.sends[0]
	assert.Empty(t, rec.input)
	assert.Equal(t, "tick-1", rec.opts.idempotencyKey)
	assert.Equal(t, time.Minute, rec.opts.delay)
}

func TestObjectCallTargetsKey(t *testing.T) {
	f := newTestFacade(t)
	h := NewObjectHandler("Add", func(_ *ObjectContext, n int) (int, error) {
		return n, nil
	})
	_, err := f.Object("Counter", h)
	require.NoError(t, err)

	rt := newFakeRuntime()
	rt.response = []byte(`5`)

	out, err := h.Call(newTestServiceContext(JSON, rt), "my-counter", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, out)

	require.Len(t, rt.calls, 1)
	rec := rt.calls[0]
	assert.Equal(t, targetObject, rec.target.kind)
	assert.Equal(t, "Counter", rec.target.service)
	assert.Equal(t, "my-counter", rec.target.key)
	assert.Equal(t, "Add", rec.target.method)
}

func TestWorkflowClientTargetsRunHandler(t *testing.T) {
	f := newTestFacade(t)
	run := NewWorkflowRunHandler(func(_ *WorkflowContext, in greetRequest) (string, error) {
		return in.Name, nil
	})
	_, err := f.Workflow("Signup", run)
	require.NoError(t, err)

	rt := newFakeRuntime()
	err = run.Send(newTestServiceContext(JSON, rt), "user-42", greetRequest{Name: "Ada"})
	require.NoError(t, err)

	require.Len(t, rt.sends, 1)
	rec := rt.sends[0]
	assert.Equal(t, targetWorkflow, rec.target.kind)
	assert.Equal(t, "Signup", rec.target.service)
	assert.Equal(t, "user-42", rec.target.key)
	assert.Equal(t, "Run", rec.target.method)
}

func TestSharedObjectHandlerSendTargetsKey(t *testing.T) {
	f := newTestFacade(t)
	peek := NewObjectSharedHandler("Peek", func(_ *ObjectSharedContext, _ Void) (int, error) {
		return 0, nil
	})
	_, err := f.Object("Counter", peek)
	require.NoError(t, err)

	rt := newFakeRuntime()
	err = peek.Send(newTestServiceContext(JSON, rt), "my-counter", Void{}, WithDelay(time.Second))
	require.NoError(t, err)

	require.Len(t, rt.sends, 1)
	rec := rt.sends[0]
	assert.Equal(t, targetObject, rec.target.kind)
	assert.Equal(t, "Counter", rec.target.service)
	assert.Equal(t, "my-counter", rec.target.key)
	assert.Equal(t, "Peek", rec.target.method)
	assert.Equal(t, time.Second, rec.opts.delay)
}

func TestSharedWorkflowHandlerSendTargetsWorkflow(t *testing.T) {
	f := newTestFacade(t)
	run := NewWorkflowRunHandler(func(*WorkflowContext, Void) (Void, error) {
		return Void{}, nil
	})
	nudge := NewWorkflowHandler("Nudge", func(_ *WorkflowSharedContext, _ Void) (Void, error) {
		return Void{}, nil
	})
	_, err := f.Workflow("Signup", run, nudge)
	require.NoError(t, err)

	rt := newFakeRuntime()
	err = nudge.Send(newTestServiceContext(JSON, rt), "user-42", Void{})
	require.NoError(t, err)

	require.Len(t, rt.sends, 1)
	rec := rt.sends[0]
	assert.Equal(t, targetWorkflow, rec.target.kind)
	assert.Equal(t, "Signup", rec.target.service)
	assert.Equal(t, "user-42", rec.target.key)
	assert.Equal(t, "Nudge", rec.target.method)
}

func TestGeneratedIdempotencyKey(t *testing.T) {
	f := newTestFacade(t)
	h := NewServiceHandler("Tick", func(*ServiceContext, Void) (Void, error) {
		return Void{}, nil
	})
	_, err := f.Service("Clock", h)
	require.NoError(t, err)

	rt := newFakeRuntime()
	require.NoError(t, h.Send(newTestServiceContext(JSON, rt), Void{}, WithGeneratedIdempotencyKey()))
	require.NoError(t, h.Send(newTestServiceContext(JSON, rt), Void{}, WithGeneratedIdempotencyKey()))

	require.Len(t, rt.sends, 2)
	first := rt.sends[0].opts.idempotencyKey
	second := rt.sends[1].opts.idempotencyKey

	_, err = ulid.Parse(first)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	// An explicit key always beats the generated one.
	require.NoError(t, h.Send(newTestServiceContext(JSON, rt), Void{},
		WithGeneratedIdempotencyKey(), WithIdempotencyKey("fixed")))
	assert.Equal(t, "fixed", rt.sends[2].opts.idempotencyKey)
}
