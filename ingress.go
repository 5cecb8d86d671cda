package retyped

import (
	"context"

	restate "github.com/restatedev/sdk-go"
	"github.com/restatedev/sdk-go/ingress"
)

// Ingress calls registered handlers from plain Go code over the Restate
// ingress HTTP API. Obtain one from Facade.Clients or Facade.ClientsAt and
// pass it to a declaration's CallFrom/SendFrom.
type Ingress struct {
	client *ingress.Client
}

func newIngress(baseURL, authKey string, codec Codec) *Ingress {
	opts := []restate.IngressClientOption{
		restate.WithPayloadCodec(passthroughFor(codec)),
	}
	if authKey != "" {
		opts = append(opts, restate.WithAuthKey(authKey))
	}
	return &Ingress{client: ingress.NewClient(baseURL, opts...)}
}

func (ing *Ingress) call(ctx context.Context, t callTarget, input []byte, o callOptions) ([]byte, error) {
	reqOpts := ingressRequestOptions(o)
	switch t.kind {
	case targetObject:
		return ingress.Object[[]byte, []byte](ing.client, t.service, t.key, t.method).
			Request(ctx, input, reqOpts...)
	case targetWorkflow:
		return ingress.Workflow[[]byte, []byte](ing.client, t.service, t.key, t.method).
			Request(ctx, input, reqOpts...)
	default:
		return ingress.Service[[]byte, []byte](ing.client, t.service, t.method).
			Request(ctx, input, reqOpts...)
	}
}

func (ing *Ingress) send(ctx context.Context, t callTarget, input []byte, o callOptions) error {
	sendOpts := ingressSendOptions(o)
	var err error
	switch t.kind {
	case targetObject:
		_, err = ingress.ObjectSend[[]byte](ing.client, t.service, t.key, t.method).
			Send(ctx, input, sendOpts...)
	case targetWorkflow:
		_, err = ingress.WorkflowSend[[]byte](ing.client, t.service, t.key, t.method).
			Send(ctx, input, sendOpts...)
	default:
		_, err = ingress.ServiceSend[[]byte](ing.client, t.service, t.method).
			Send(ctx, input, sendOpts...)
	}
	return err
}

func ingressRequestOptions(o callOptions) []restate.IngressRequestOption {
	var opts []restate.IngressRequestOption
	if o.idempotencyKey != "" {
		opts = append(opts, restate.WithIdempotencyKey(o.idempotencyKey))
	}
	if len(o.headers) > 0 {
		opts = append(opts, restate.WithHeaders(o.headers))
	}
	return opts
}

func ingressSendOptions(o callOptions) []restate.IngressSendOption {
	var opts []restate.IngressSendOption
	if o.idempotencyKey != "" {
		opts = append(opts, restate.WithIdempotencyKey(o.idempotencyKey))
	}
	if len(o.headers) > 0 {
		opts = append(opts, restate.WithHeaders(o.headers))
	}
	if o.delay > 0 {
		opts = append(opts, restate.WithDelay(o.delay))
	}
	return opts
}
