package retyped

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The counter scenario exercises the whole wrapped path: declared handler,
// definition, codec lowering and keyed state, all against the in-memory
// runtime.
func TestCounterIncrement(t *testing.T) {
	f := newTestFacade(t)
	count := NewStateKey[int]("count")

	increment := NewObjectHandler("Increment", func(ctx *ObjectContext, _ Void) (int, error) {
		n, err := count.Get(ctx)
		if err != nil {
			return 0, err
		}
		n++
		if err := count.Set(ctx, n); err != nil {
			return 0, err
		}
		return n, nil
	})

	d, err := f.Object("Counter", increment)
	require.NoError(t, err)
	assert.Equal(t, []string{"Increment"}, d.HandlerNames())

	rt := newFakeRuntime()

	decode := func(data []byte) int {
		var n int
		require.NoError(t, JSON.Unmarshal(data, &n))
		return n
	}

	out, err := increment.invoke(newTestObjectContext(JSON, "my-counter", rt), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, decode(out))

	out, err = increment.invoke(newTestObjectContext(JSON, "my-counter", rt), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, decode(out))
}

func TestInvokeDecodesInputAndEncodesOutput(t *testing.T) {
	f := newTestFacade(t)

	greet := NewServiceHandler("Greet", func(_ *ServiceContext, in greetRequest) (string, error) {
		return "hello " + in.Name, nil
	})
	_, err := f.Service("Greeter", greet)
	require.NoError(t, err)

	rt := newFakeRuntime()
	out, err := greet.invoke(newTestServiceContext(JSON, rt), []byte(`{"name":"Ada"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `"hello Ada"`, string(out))
}

func TestInvokeRunsHooksAroundHandler(t *testing.T) {
	var events []string
	var lastErr error

	f, err := Configure(JSON, WithHooks(Hooks{
		OnInvocationStart: func(service, handler string) {
			events = append(events, "start "+service+"/"+handler)
		},
		OnInvocationEnd: func(service, handler string, err error) {
			events = append(events, "end "+service+"/"+handler)
			lastErr = err
		},
	}))
	require.NoError(t, err)

	boom := errors.New("boom")
	fail := NewServiceHandler("Fail", func(*ServiceContext, Void) (Void, error) {
		return Void{}, boom
	})
	_, err = f.Service("Flaky", fail)
	require.NoError(t, err)

	rt := newFakeRuntime()
	_, err = fail.invoke(newTestServiceContext(JSON, rt), nil)

	// The handler error still propagates unchanged.
	assert.Same(t, boom, err)
	assert.Equal(t, []string{"start Flaky/Fail", "end Flaky/Fail"}, events)
	assert.ErrorIs(t, lastErr, boom)
}

func TestWorkflowHandlersSeeSharedState(t *testing.T) {
	f := newTestFacade(t)
	status := NewStateKey[string]("status")

	run := NewWorkflowRunHandler(func(ctx *WorkflowContext, _ Void) (string, error) {
		if err := status.Set(ctx, "running"); err != nil {
			return "", err
		}
		return ctx.Key(), nil
	})
	getStatus := NewWorkflowHandler("Status", func(ctx *WorkflowSharedContext, _ Void) (string, error) {
		return status.Get(ctx)
	})

	_, err := f.Workflow("Signup", run, getStatus)
	require.NoError(t, err)

	rt := newFakeRuntime()
	out, err := run.invoke(newTestWorkflowContext(JSON, "user-1", rt), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"user-1"`, string(out))

	out, err = getStatus.invoke(newTestWorkflowSharedContext(JSON, "user-1", rt), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"running"`, string(out))
}
