package retyped

// StateOption adjusts a single state access.
type StateOption func(*stateOptions)

type stateOptions struct {
	codec Codec
}

// WithStateCodec overrides the configured codec for one state access. Both
// sides of a key must agree on the codec for the stored bytes to round-trip.
func WithStateCodec(c Codec) StateOption {
	return func(o *stateOptions) { o.codec = c }
}

func resolveStateCodec(ctx HandlerContext, opts []StateOption) Codec {
	var o stateOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec != nil {
		return o.codec
	}
	return ctx.defaultCodec()
}

// GetState reads a state value. An absent key yields the zero value of T and
// a nil error.
func GetState[T any](ctx StateReader, key string, opts ...StateOption) (T, error) {
	var v T
	data, err := ctx.statePort().getState(key)
	if err != nil || data == nil {
		return v, err
	}
	err = resolveStateCodec(ctx, opts).Unmarshal(data, &v)
	return v, err
}

// SetState writes a state value under the exclusive lock. The only error
// produced here is a codec failure; the durable write itself is journaled by
// the runtime and commits with the invocation.
func SetState[T any](ctx StateWriter, key string, value T, opts ...StateOption) error {
	data, err := resolveStateCodec(ctx, opts).Marshal(value)
	if err != nil {
		return err
	}
	ctx.writePort().setState(key, data)
	return nil
}

// ClearState removes a single key.
func ClearState(ctx StateWriter, key string) {
	ctx.writePort().clearState(key)
}

// ClearAllState removes every key of the entity.
func ClearAllState(ctx StateWriter) {
	ctx.writePort().clearAllState()
}

// StateKeys lists the entity's populated state keys.
func StateKeys(ctx StateReader) ([]string, error) {
	return ctx.statePort().stateKeys()
}

// StateKey binds a state key name to its value type once, so every access
// site gets the type for free.
type StateKey[T any] struct {
	name string
}

// NewStateKey declares a typed state key.
func NewStateKey[T any](name string) StateKey[T] {
	return StateKey[T]{name: name}
}

// Name returns the key's name.
func (k StateKey[T]) Name() string { return k.name }

// Get reads the key; absent yields the zero value of T.
func (k StateKey[T]) Get(ctx StateReader, opts ...StateOption) (T, error) {
	return GetState[T](ctx, k.name, opts...)
}

// Set writes the key.
func (k StateKey[T]) Set(ctx StateWriter, value T, opts ...StateOption) error {
	return SetState(ctx, k.name, value, opts...)
}

// Clear removes the key.
func (k StateKey[T]) Clear(ctx StateWriter) {
	ClearState(ctx, k.name)
}
