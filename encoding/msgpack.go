// Package encoding provides centralized msgpack serialization for pubcast.
// All msgpack operations go through this package so that inbound
// notifications and outbound payloads decode with the same settings.
//
// Thread Safety: Marshal and Unmarshal are safe for concurrent use.
//
// Type Preservation: when decoding into interface{}, msgpack strings decode
// as Go strings (not []byte). Notification data maps are decoded into
// map[string]any, and topic segments are rendered from those values, so
// string field values must survive a round trip as strings.
package encoding

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal encodes a value to msgpack format.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes msgpack data using loose interface decoding, so []byte
// values arriving in notification data maps come back as Go strings. Topic
// rendering treats strings and bytes identically, but subscribers comparing
// payload field values rely on the stable string form.
func Unmarshal(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)

	return dec.Decode(v)
}
