// Package etcd wraps the etcd v3 HTTP gateway's key-value range API for
// node records: put and get with the gateway's base64 wire encoding of
// keys and values.
package etcd

import (
	"encoding/base64"
)

// Codec is the transport encoding applied to keys and values on the wire.
// The gateway's wire format is JSON but keys and values are logically byte
// strings, so both sides of every request are encoded. Encode and Decode
// are exact inverses; Decode rejects input that is not validly encoded,
// which keeps corrupt data distinguishable from a missing key.
type Codec interface {
	// Encode encodes raw bytes into their wire representation.
	Encode(data []byte) string

	// Decode decodes a wire representation back into raw bytes.
	Decode(encoded string) ([]byte, error)
}

// Base64Codec implements Codec with standard base64, the encoding the
// etcd v3 gateway documents for its JSON transport.
type Base64Codec struct{}

// NewCodec returns the default wire codec.
func NewCodec() Codec {
	return &Base64Codec{}
}

// Encode implements Codec.
func (*Base64Codec) Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode implements Codec.
func (*Base64Codec) Decode(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}
