package retyped

import (
	"log/slog"

	restate "github.com/restatedev/sdk-go"
)

// Void marks a handler input or output that carries no payload.
type Void = restate.Void

// HandlerContext is the capability floor shared by every built context: a
// logger, durable steps and durable calls. Declaration clients accept any of
// the five context kinds through it.
type HandlerContext interface {
	// Log returns the invocation-scoped logger.
	Log() *slog.Logger

	// Raw exposes the underlying SDK context as an escape hatch for
	// primitives this layer does not wrap. Nil outside a real invocation.
	Raw() restate.Context

	defaultCodec() Codec
	stepPort() stepOps
	callPort() callOps
}

// StateReader is satisfied by the four keyed contexts and grants read access
// to the entity's durable state.
type StateReader interface {
	HandlerContext

	// Key returns the object key or workflow id of the running invocation.
	Key() string

	statePort() stateReadOps
}

// StateWriter is satisfied only by ObjectContext and WorkflowContext. Shared
// handlers cannot name a writer, so state mutation under a shared lock is a
// compile error rather than a runtime one.
type StateWriter interface {
	StateReader

	writePort() stateWriteOps
}

type baseContext struct {
	codec Codec
	log   *slog.Logger
	steps stepOps
	calls callOps
	raw   restate.Context
}

func (c *baseContext) Log() *slog.Logger    { return c.log }
func (c *baseContext) Raw() restate.Context { return c.raw }
func (c *baseContext) defaultCodec() Codec  { return c.codec }
func (c *baseContext) stepPort() stepOps    { return c.steps }
func (c *baseContext) callPort() callOps    { return c.calls }

// ServiceContext is passed to stateless service handlers.
type ServiceContext struct {
	baseContext
}

// ObjectContext is passed to exclusive virtual-object handlers. It holds the
// single-writer lock for its key, so state writes are permitted.
type ObjectContext struct {
	baseContext
	key   string
	state stateWriteOps
}

func (c *ObjectContext) Key() string              { return c.key }
func (c *ObjectContext) statePort() stateReadOps  { return c.state }
func (c *ObjectContext) writePort() stateWriteOps { return c.state }

// ObjectSharedContext is passed to shared virtual-object handlers, which run
// concurrently with the exclusive ones and may only read state.
type ObjectSharedContext struct {
	baseContext
	key   string
	state stateReadOps
}

func (c *ObjectSharedContext) Key() string             { return c.key }
func (c *ObjectSharedContext) statePort() stateReadOps { return c.state }

// WorkflowContext is passed to a workflow's run handler, which executes at
// most once per workflow id and owns the workflow's state.
type WorkflowContext struct {
	baseContext
	key   string
	state stateWriteOps
}

func (c *WorkflowContext) Key() string              { return c.key }
func (c *WorkflowContext) statePort() stateReadOps  { return c.state }
func (c *WorkflowContext) writePort() stateWriteOps { return c.state }

// WorkflowSharedContext is passed to every non-run workflow handler.
type WorkflowSharedContext struct {
	baseContext
	key   string
	state stateReadOps
}

func (c *WorkflowSharedContext) Key() string             { return c.key }
func (c *WorkflowSharedContext) statePort() stateReadOps { return c.state }

var (
	_ HandlerContext = (*ServiceContext)(nil)
	_ StateWriter    = (*ObjectContext)(nil)
	_ StateReader    = (*ObjectSharedContext)(nil)
	_ StateWriter    = (*WorkflowContext)(nil)
	_ StateReader    = (*WorkflowSharedContext)(nil)
)
