package nodeclient

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// message is implemented by every request and response exchanged with the
// node. Messages encode themselves with protowire.
type message interface {
	marshal() []byte
	unmarshal(b []byte) error
}

// codec replaces the default proto codec for calls made by this client so
// that no generated code is needed.
type codec struct{}

var _ encoding.Codec = codec{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, fmt.Errorf("cannot marshal %T", v)
	}
	return m.marshal(), nil
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(message)
	if !ok {
		return fmt.Errorf("cannot unmarshal into %T", v)
	}
	return m.unmarshal(data)
}

func (codec) Name() string {
	return "proto"
}
