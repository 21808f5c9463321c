// Package api defines the wire contracts of the settlement Connect services:
// procedure names, request and response messages, and the JSON codec they
// travel in.
package api

import (
	"connectrpc.com/connect"
	gojson "github.com/goccy/go-json"
)

// jsonCodec serves plain Go structs as application/json. It registers under
// the name "json" so it replaces Connect's protobuf-only default.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return gojson.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return gojson.Unmarshal(data, msg)
}

// Codec returns the JSON codec shared by handlers and clients.
func Codec() connect.Codec {
	return jsonCodec{}
}
