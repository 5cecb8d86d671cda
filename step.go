package retyped

import (
	"context"
	"log/slog"
	"time"

	restate "github.com/restatedev/sdk-go"
)

// StepContext is the context visible inside a durable step closure. The
// closure runs exactly once per journal entry; on replay the recorded result
// is returned without re-executing it.
type StepContext interface {
	context.Context
	Log() *slog.Logger
}

// StepOption adjusts a single durable step.
type StepOption func(*stepOptions)

type stepOptions struct {
	codec          Codec
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// WithStepCodec overrides the configured codec for one step's journaled
// result.
func WithStepCodec(c Codec) StepOption {
	return func(o *stepOptions) { o.codec = c }
}

// WithStepRetry retries a failing step up to maxAttempts times, sleeping
// durably between attempts with exponential backoff. Terminal errors are
// never retried.
func WithStepRetry(maxAttempts int, initialBackoff, maxBackoff time.Duration) StepOption {
	return func(o *stepOptions) {
		o.maxAttempts = maxAttempts
		o.initialBackoff = initialBackoff
		o.maxBackoff = maxBackoff
	}
}

// RunStep journals a side effect under the given name and returns its
// decoded result. The name is forwarded verbatim to the runtime's run
// primitive.
func RunStep[T any](ctx HandlerContext, name string, fn func(StepContext) (T, error), opts ...StepOption) (T, error) {
	var zero T
	o := stepOptions{
		maxAttempts:    1,
		initialBackoff: 100 * time.Millisecond,
		maxBackoff:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	codec := o.codec
	if codec == nil {
		codec = ctx.defaultCodec()
	}

	raw := func(sc StepContext) ([]byte, error) {
		out, err := fn(sc)
		if err != nil {
			return nil, err
		}
		return marshalValue(codec, out)
	}

	for attempt := 0; ; attempt++ {
		data, err := ctx.stepPort().runStep(name, raw)
		if err == nil {
			return unmarshalValue[T](codec, data)
		}
		if attempt >= o.maxAttempts-1 || isTerminalError(err) {
			return zero, err
		}
		backoff := computeBackoff(o.initialBackoff, o.maxBackoff, attempt)
		ctx.Log().Warn("step failed, backing off",
			"step", name, "attempt", attempt+1, "backoff", backoff, "err", err)
		if serr := ctx.stepPort().sleep(backoff); serr != nil {
			return zero, serr
		}
	}
}

// isTerminalError reports whether err is a non-retryable runtime error.
func isTerminalError(err error) bool {
	return err != nil && restate.IsTerminalError(err)
}

func computeBackoff(initial, max time.Duration, attempt int) time.Duration {
	if initial <= 0 {
		initial = time.Second
	}
	if max <= 0 {
		max = 5 * time.Minute
	}
	backoff := initial * (1 << uint(attempt))
	if backoff > max {
		return max
	}
	return backoff
}
