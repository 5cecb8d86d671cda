package retyped

import "time"

// The built contexts reach the runtime through the narrow ports below.
// Production adapters over the raw SDK contexts live in sdkruntime.go; tests
// substitute in-memory implementations.

type targetKind int

const (
	targetService targetKind = iota
	targetObject
	targetWorkflow
)

// callTarget names a remote handler.
type callTarget struct {
	kind    targetKind
	service string
	key     string
	method  string
}

// stateReadOps is the read half of durable state, available to every keyed
// context.
type stateReadOps interface {
	getState(key string) ([]byte, error)
	stateKeys() ([]string, error)
}

// stateWriteOps extends reads with mutation; only exclusive contexts hold
// one.
type stateWriteOps interface {
	stateReadOps
	setState(key string, value []byte)
	clearState(key string)
	clearAllState()
}

// stepOps runs journaled side effects and durable sleeps.
type stepOps interface {
	runStep(name string, fn func(StepContext) ([]byte, error)) ([]byte, error)
	sleep(d time.Duration) error
}

// callOps performs durable calls and one-way sends from inside a handler.
type callOps interface {
	call(target callTarget, input []byte, opts callOptions) ([]byte, error)
	send(target callTarget, input []byte, opts callOptions) error
}
