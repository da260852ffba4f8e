// Package schema is the Type & Property Cache: canonical, memoized
// metadata about a record type, its attributes, their mapped column
// names, and any attached handlers (spec.md §3, §4.1).
package schema

import "reflect"

// RecordTypeInfo is canonical metadata about a record type T. Built on
// first demand per type, then immutable and shared process-wide.
// RecordTypeInfo exclusively owns its Attributes slice.
type RecordTypeInfo struct {
	Type       reflect.Type
	Name       string
	TableName  string
	Attributes []*AttributeInfo
	// byName indexes Attributes by canonical (Go) name.
	byName map[string]*AttributeInfo
	// byColumn indexes Attributes by lowercased mapped column name, the
	// lookup spec.md §4.1 invariants require ("Column-name matching...
	// is case-insensitive").
	byColumn map[string]*AttributeInfo
}

// AttributeByName returns the attribute with the given Go field name.
func (r *RecordTypeInfo) AttributeByName(name string) (*AttributeInfo, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// AttributeByColumn returns the attribute whose mapped column name
// matches columnName case-insensitively.
func (r *RecordTypeInfo) AttributeByColumn(columnName string) (*AttributeInfo, bool) {
	a, ok := r.byColumn[lowerASCII(columnName)]
	return a, ok
}

// AttributeInfo describes one mapped attribute of a record type. Built
// alongside the owning RecordTypeInfo; immutable thereafter.
type AttributeInfo struct {
	// Name is the Go struct field name.
	Name string
	// MappedName is the unquoted, as-declared column name (tag value or
	// derived from Name); matching elsewhere lowercases it on demand.
	MappedName string
	// Type is the field's declared Go type.
	Type reflect.Type
	// Underlying is Type with one layer of nullable-of-value-type
	// unwrapped (pointer or sql.Null* elem type); equal to Type when the
	// attribute isn't nullable-of-value-type.
	Underlying reflect.Type
	// IsNullableValue reports whether Type is a nullable wrapper around
	// a value type (pointer-to-value or sql.Null*), so the emitter knows
	// to apply the nullable constructor/empty-form rules of spec.md
	// §4.4.1 steps 6-7.
	IsNullableValue bool
	// Index is the reflect.StructField.Index path (supports embedding).
	Index []int
	// Offset is the field's byte offset within the struct, for
	// allocation-free unsafe-pointer field access.
	Offset uintptr
	// Readable/Writable mirror spec.md §3; both true for ordinary
	// exported struct fields.
	Readable bool
	Writable bool
	// Null/NotNull record the tag-level `null`/`not_null` options as
	// parsed. The plan package does not read them: its nullability comes
	// from Type and from the DbField list it is given.
	Null, NotNull bool
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
