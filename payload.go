package retyped

import (
	"fmt"

	restate "github.com/restatedev/sdk-go"
	"github.com/restatedev/sdk-go/encoding"
)

// passthroughCodec is the payload bridge handed to the SDK. All SDK-facing
// handlers and clients in this package carry []byte payloads; domain values
// are (de)serialized here with the configured Codec. The bridge therefore
// moves bytes verbatim and only contributes the content type the real codec
// advertises.
type passthroughCodec struct {
	contentType string
}

var _ encoding.PayloadCodec = passthroughCodec{}

func passthroughFor(c Codec) passthroughCodec {
	return passthroughCodec{contentType: c.ContentType()}
}

func (p passthroughCodec) Marshal(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case *[]byte:
		return *b, nil
	case restate.Void:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrRawPayload, v)
}

func (p passthroughCodec) Unmarshal(data []byte, v any) error {
	switch out := v.(type) {
	case *[]byte:
		*out = data
		return nil
	case *restate.Void:
		return nil
	}
	return fmt.Errorf("%w: %T", ErrRawPayload, v)
}

func (p passthroughCodec) InputPayload(_ any) *encoding.InputPayload {
	return &encoding.InputPayload{ContentType: &p.contentType}
}

func (p passthroughCodec) OutputPayload(_ any) *encoding.OutputPayload {
	return &encoding.OutputPayload{ContentType: &p.contentType}
}
