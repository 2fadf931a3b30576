// Package codec provides pluggable typed serializers behind one generic
// interface. Bencode is the native codec; CBOR, Msgpack and JSON cover
// interop and export of decoded data, and LimitCodec guards any of them
// against oversized payloads from untrusted sources.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
