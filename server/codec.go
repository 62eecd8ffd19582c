package server

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec 以encoding/json编解码普通结构体的connect编解码器
// 说明：注册名为"json"，替换connect默认的protojson实现，请求Content-Type为application/json
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
