// Package oraclerpc describes the rateoracle.v1.Oracle gRPC service. Messages
// travel as JSON, the same shapes the HTTP API accepts.
package oraclerpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const CodecName = "json"

func init() { encoding.RegisterCodec(Codec{}) }

type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (Codec) Name() string                       { return CodecName }
