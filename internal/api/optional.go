package api

import (
	"bytes"
	"encoding/json"
)

// Optional 記錄 JSON 欄位是否出現、是否為 null，用來區分「未送出」與「明確清空」
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some 建立一個已設定值的 Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null 建立一個明確為 null 的 Optional
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON 只有在欄位出現時才會被呼叫
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr 在有值時回傳指標，未設定或 null 時回傳 nil
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}
