// Package driver declares the external collaborator interfaces the
// accessor emitter consumes: a row cursor and a parameterized command
// (spec.md §6). No concrete driver lives here; see pgxadapter for one.
package driver

import "reflect"

// Cursor is a row cursor exposing per-ordinal schema and typed readers.
// Concrete implementations populate TypedGetter once per cursor type
// (not per row) and reuse it across every row in the result set.
type Cursor interface {
	// FieldCount returns the number of columns in the current result set.
	FieldCount() int
	// Name returns the column name at ordinal.
	Name(ordinal int) string
	// FieldType returns the column's source value type at ordinal.
	FieldType(ordinal int) reflect.Type
	// IsNull reports whether the value at ordinal is SQL NULL for the
	// current row.
	IsNull(ordinal int) bool
	// Value returns the untyped value at ordinal for the current row
	// (the "getValue" fallback accessor of spec.md §4.4.1 step 4).
	Value(ordinal int) (any, error)
	// TypedGetter returns a typed reader for sourceType if the cursor
	// implementation has one, and whether it exists at all. This is the
	// idiomatic-Go substitute for "presence of get<SourceType>(ordinal)
	// discovered by name" (spec.md §6): a concrete Cursor registers its
	// typed readers once, and the emitter asks for one by reflect.Type
	// rather than synthesizing a method name.
	TypedGetter(sourceType reflect.Type) (getter func(ordinal int) (any, error), ok bool)
}
