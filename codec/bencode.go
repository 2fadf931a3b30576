package codec

import (
	"github.com/unkn0wn-root/bencode"
)

// Bencode is a Codec that serializes values with the typed bencode adapter.
// The zero value is ready to use. Decode requires the payload to be exactly
// one canonical value; trailing bytes are rejected.
type Bencode[V any] struct{}

var _ Codec[struct{}] = Bencode[struct{}]{}

func (Bencode[V]) Encode(v V) ([]byte, error) {
	return bencode.Marshal(v)
}

func (Bencode[V]) Decode(b []byte) (V, error) {
	var v V
	err := bencode.Unmarshal(b, &v)
	return v, err
}

// Value is a Codec for raw bencode value trees. Encode is total for any
// structurally valid tree; Decode enforces canonical form and full
// consumption of the payload.
type Value struct{}

var _ Codec[*bencode.Value] = Value{}

func (Value) Encode(v *bencode.Value) ([]byte, error) {
	return bencode.Encode(v), nil
}

func (Value) Decode(b []byte) (*bencode.Value, error) {
	return bencode.DecodeValue(b)
}
