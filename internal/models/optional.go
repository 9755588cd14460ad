package models

import "encoding/json"

// Optional is a tri-state JSON field for partial updates of nullable columns:
// absent (Set=false, leave the column alone), explicit null (Set=true,
// Value=nil, clear the column), or a value (Set=true, Value!=nil).
// Plain pointer fields cannot distinguish the first two cases.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked for keys present in the payload, so Set=true
// marks presence and a JSON null leaves Value nil.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON round-trips the wire form; an unset Optional encodes as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
