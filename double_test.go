package retyped

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// fakeRuntime is an in-memory stand-in for the runtime ports. State lives in
// a map, steps are memoized by name the way the journal memoizes them, and
// calls/sends are recorded for inspection.
type fakeRuntime struct {
	state    map[string][]byte
	steps    map[string][]byte
	stepRuns map[string]int
	slept    []time.Duration

	calls    []recordedCall
	sends    []recordedCall
	response []byte
	callErr  error
}

type recordedCall struct {
	target callTarget
	input  []byte
	opts   callOptions
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		state:    make(map[string][]byte),
		steps:    make(map[string][]byte),
		stepRuns: make(map[string]int),
	}
}

func (r *fakeRuntime) getState(key string) ([]byte, error) { return r.state[key], nil }

func (r *fakeRuntime) stateKeys() ([]string, error) {
	keys := make([]string, 0, len(r.state))
	for k := range r.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *fakeRuntime) setState(key string, value []byte) { r.state[key] = value }
func (r *fakeRuntime) clearState(key string)             { delete(r.state, key) }
func (r *fakeRuntime) clearAllState()                    { clear(r.state) }

func (r *fakeRuntime) runStep(name string, fn func(StepContext) ([]byte, error)) ([]byte, error) {
	if data, ok := r.steps[name]; ok {
		return data, nil
	}
	r.stepRuns[name]++
	data, err := fn(testStepContext{Context: context.Background()})
	if err != nil {
		return nil, err
	}
	r.steps[name] = data
	return data, nil
}

func (r *fakeRuntime) sleep(d time.Duration) error {
	r.slept = append(r.slept, d)
	return nil
}

func (r *fakeRuntime) call(t callTarget, input []byte, o callOptions) ([]byte, error) {
	r.calls = append(r.calls, recordedCall{target: t, input: input, opts: o})
	if r.callErr != nil {
		return nil, r.callErr
	}
	return r.response, nil
}

func (r *fakeRuntime) send(t callTarget, input []byte, o callOptions) error {
	r.sends = append(r.sends, recordedCall{target: t, input: input, opts: o})
	return r.callErr
}

type testStepContext struct {
	context.Context
}

func (testStepContext) Log() *slog.Logger { return slog.Default() }

func testBase(codec Codec, r *fakeRuntime) baseContext {
	return baseContext{codec: codec, log: slog.Default(), steps: r, calls: r}
}

func newTestServiceContext(codec Codec, r *fakeRuntime) *ServiceContext {
	return &ServiceContext{baseContext: testBase(codec, r)}
}

func newTestObjectContext(codec Codec, key string, r *fakeRuntime) *ObjectContext {
	return &ObjectContext{baseContext: testBase(codec, r), key: key, state: r}
}

func newTestObjectSharedContext(codec Codec, key string, r *fakeRuntime) *ObjectSharedContext {
	return &ObjectSharedContext{baseContext: testBase(codec, r), key: key, state: r}
}

func newTestWorkflowContext(codec Codec, key string, r *fakeRuntime) *WorkflowContext {
	return &WorkflowContext{baseContext: testBase(codec, r), key: key, state: r}
}

func newTestWorkflowSharedContext(codec Codec, key string, r *fakeRuntime) *WorkflowSharedContext {
	return &WorkflowSharedContext{baseContext: testBase(codec, r), key: key, state: r}
}
