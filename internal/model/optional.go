package model

import (
	"encoding/json"
	"time"
)

// OptionalTime distinguishes an absent JSON field from an explicit null.
// Set is true whenever the key was present in the payload.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

func (o OptionalTime) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Or returns the patched value when set, current otherwise.
func (o OptionalTime) Or(current *time.Time) *time.Time {
	if o.Set {
		return o.Value
	}
	return current
}

func SomeTime(t time.Time) OptionalTime { return OptionalTime{Set: true, Value: &t} }

func NullTime() OptionalTime { return OptionalTime{Set: true} }
