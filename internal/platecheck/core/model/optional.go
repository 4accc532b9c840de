package model

import (
	"bytes"
	"encoding/json"
)

// Optional marks a value that a data source may not provide. The zero value
// is Absent, and Absent always encodes as JSON null so consumers can tell
// "no data" apart from a zero value.
type Optional[T any] struct {
	value   T
	present bool
}

// Present wraps v as a provided value.
func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Absent returns the explicit "no data" marker.
func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) IsPresent() bool { return o.present }

// OrElse returns the value when present and def otherwise.
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Present(v)
	return nil
}
