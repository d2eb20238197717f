// Package patch models partial-update request bodies. A Field remembers
// whether its key was present in the JSON document, so a write-set can be
// built from the supplied keys only.
package patch

import (
	"bytes"
	"encoding/json"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
)

type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.Value = zero
		f.Null = true
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

// Has reports a present, non-null value.
func (f Field[T]) Has() bool {
	return f.Set && !f.Null
}

func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Put writes f into changes under column when the key was supplied. A null
// stores NULL.
func Put[T any](changes domain.Changes, column string, f Field[T]) {
	if !f.Set {
		return
	}
	if f.Null {
		changes[column] = nil
		return
	}
	changes[column] = f.Value
}

// PutMapped is Put with a conversion applied to non-null values.
func PutMapped[T any](changes domain.Changes, column string, f Field[T], conv func(T) any) {
	if !f.Set {
		return
	}
	if f.Null {
		changes[column] = nil
		return
	}
	changes[column] = conv(f.Value)
}
