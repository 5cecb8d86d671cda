package retyped

import (
	"context"
	"log/slog"
	"os"

	"github.com/restatedev/sdk-go/server"
)

const (
	// EnvIngressURL names the environment variable consulted for the
	// ingress base URL when WithBaseURL is not given.
	EnvIngressURL = "RESTATE_INGRESS_URL"

	defaultIngressURL = "http://127.0.0.1:8080"
)

// Facade holds the configured codec and builds definitions against it. It is
// an explicit value: construct one per wire format, no package-level state.
type Facade struct {
	codec   Codec
	baseURL string
	authKey string
	log     *slog.Logger
	hooks   Hooks
	defs    []Definition
}

// Option adjusts a Facade at Configure time.
type Option func(*Facade)

// WithBaseURL sets the ingress base URL for Clients. Defaults to
// $RESTATE_INGRESS_URL, then the local development URL.
func WithBaseURL(u string) Option {
	return func(f *Facade) { f.baseURL = u }
}

// WithAuthKey authenticates ingress clients with a bearer key.
func WithAuthKey(key string) Option {
	return func(f *Facade) { f.authKey = key }
}

// WithLogger sets the logger used by Serve and as the default handler
// logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(f *Facade) { f.log = log }
}

// WithHooks observes every wrapped handler invocation.
func WithHooks(h Hooks) Option {
	return func(f *Facade) { f.hooks = h }
}

// Configure builds a Facade around the given codec. The codec is injected
// into every registration, state access, durable step and remote call built
// through the returned value.
func Configure(codec Codec, opts ...Option) (*Facade, error) {
	if codec == nil {
		return nil, ErrCodecRequired
	}
	f := &Facade{codec: codec, log: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	if f.baseURL == "" {
		f.baseURL = os.Getenv(EnvIngressURL)
	}
	if f.baseURL == "" {
		f.baseURL = defaultIngressURL
	}
	return f, nil
}

// Codec returns the configured codec.
func (f *Facade) Codec() Codec { return f.codec }

// BaseURL returns the resolved ingress base URL.
func (f *Facade) BaseURL() string { return f.baseURL }

// Definitions lists every definition built through this facade, in build
// order.
func (f *Facade) Definitions() []Definition {
	out := make([]Definition, len(f.defs))
	copy(out, f.defs)
	return out
}

func (f *Facade) newCore(service string, kind targetKind) *bindingCore {
	return &bindingCore{
		service: service,
		kind:    kind,
		codec:   f.codec,
		hooks:   f.hooks,
	}
}

func (f *Facade) track(d Definition) {
	f.defs = append(f.defs, d)
}

// Serve binds every built definition into a Restate endpoint and serves it
// on addr until ctx is cancelled.
func (f *Facade) Serve(ctx context.Context, addr string) error {
	srv := server.NewRestate()
	for _, d := range f.defs {
		srv = srv.Bind(d.Bindable())
		f.log.Info("bound definition", "name", d.Name())
	}
	f.log.Info("serving restate endpoint", "addr", addr, "definitions", len(f.defs))
	return srv.Start(ctx, addr)
}

// Clients returns an ingress client for the configured base URL.
func (f *Facade) Clients() *Ingress {
	return f.ClientsAt(f.baseURL)
}

// ClientsAt returns an ingress client for a specific base URL, for talking
// to an environment other than the configured one.
func (f *Facade) ClientsAt(baseURL string) *Ingress {
	return newIngress(baseURL, f.authKey, f.codec)
}
