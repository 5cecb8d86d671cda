package retyped

import "errors"

var (
	// ErrCodecRequired is returned by Configure when no codec is supplied.
	ErrCodecRequired = errors.New("retyped: codec is required")

	// ErrNameRequired is returned when a definition is built with an empty name.
	ErrNameRequired = errors.New("retyped: definition name is required")

	// ErrHandlerRequired is returned when a nil handler is passed to a
	// definition builder.
	ErrHandlerRequired = errors.New("retyped: handler is required")

	// ErrRunHandlerRequired is returned when a workflow is built without a
	// run handler.
	ErrRunHandlerRequired = errors.New("retyped: workflow requires a run handler")

	// ErrDuplicateHandler is returned when two handlers in one definition
	// share a name.
	ErrDuplicateHandler = errors.New("retyped: duplicate handler name")

	// ErrHandlerBound is returned when a handler declaration is attached to
	// more than one definition.
	ErrHandlerBound = errors.New("retyped: handler already bound to a definition")

	// ErrHandlerNotBound is returned when a declaration is used as a client
	// before being attached to a definition.
	ErrHandlerNotBound = errors.New("retyped: handler is not bound to a definition")

	// ErrRawPayload is returned by the binary codec and the payload bridge
	// when a value is not raw bytes.
	ErrRawPayload = errors.New("retyped: value is not []byte")

	// ErrNotProtoMessage is returned by the proto codec for values that do
	// not implement proto.Message.
	ErrNotProtoMessage = errors.New("retyped: value is not a proto.Message")
)
