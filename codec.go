package retyped

import (
	"fmt"
	"reflect"

	"github.com/bytedance/sonic"
	"google.golang.org/protobuf/proto"
)

// Codec turns domain values into wire bytes and back. One codec is chosen at
// Configure time and applied to every registration, state access, durable
// step and remote call built through the facade; individual call sites may
// override it with an option. Implementations must round-trip their own
// output and may not retain the byte slices they are given.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON encodes values as JSON with encoding/json-compatible semantics.
var JSON Codec = jsonCodec{}

// Proto encodes proto.Message values with the protobuf binary format.
var Proto Codec = protoCodec{}

// Binary passes []byte values through untouched.
var Binary Codec = binaryCodec{}

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return sonic.ConfigStd.Unmarshal(data, v)
}

type protoCodec struct{}

func (protoCodec) ContentType() string { return "application/proto" }

func (protoCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotProtoMessage, v)
	}
	return proto.Marshal(m)
}

func (protoCodec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}
	// Generic callers hand over **M where M is the concrete message struct;
	// allocate the message before decoding into it.
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: %T", ErrNotProtoMessage, v)
	}
	elem := rv.Elem()
	if elem.Kind() == reflect.Pointer && elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}
	m, ok := elem.Interface().(proto.Message)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotProtoMessage, v)
	}
	return proto.Unmarshal(data, m)
}

type binaryCodec struct{}

func (binaryCodec) ContentType() string { return "application/octet-stream" }

func (binaryCodec) Marshal(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case *[]byte:
		return *b, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrRawPayload, v)
}

func (binaryCodec) Unmarshal(data []byte, v any) error {
	p, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("%w: %T", ErrRawPayload, v)
	}
	*p = data
	return nil
}

// marshalValue encodes a handler input or output, mapping Void to an empty
// payload.
func marshalValue(c Codec, v any) ([]byte, error) {
	if _, ok := v.(Void); ok {
		return nil, nil
	}
	return c.Marshal(v)
}

// unmarshalValue decodes a payload into T, mapping empty payloads and Void
// targets to the zero value.
func unmarshalValue[T any](c Codec, data []byte) (T, error) {
	var v T
	if _, ok := any(v).(Void); ok {
		return v, nil
	}
	if len(data) == 0 {
		return v, nil
	}
	err := c.Unmarshal(data, &v)
	return v, err
}
