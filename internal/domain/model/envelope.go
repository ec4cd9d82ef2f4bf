package model

import "encoding/json"

// Envelopeはバックエンド応答の共通形 {success, data, message}。
// dataの中身はエンドポイントごとに呼び出し側でデコードする。
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}
