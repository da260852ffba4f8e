// Package plan is the Accessor Emitter: a staged builder that compiles
// row-cursor, dynamic-dictionary, and command-parameter accessors once
// per (record type, shape) and hands back a plain closure invoked per
// row or per record thereafter.
package plan

import (
	"reflect"

	"github.com/latticedb/rowmap/driver"
)

// ReaderFieldDef is a snapshot of one column a row cursor exposes,
// taken once at build time (spec.md §4.4.1 step 1). Name is lowercased
// so attribute matching can be a plain map lookup. Resolve is the
// snapshotted cursor's TypedGetter, carried forward so the Compile*
// builders can ask for a destination-attribute-typed accessor (spec.md
// §4.4.1 step 4's Strict-policy fallback) without needing the live
// cursor themselves; it is the same function value on every element of
// one snapshot.
type ReaderFieldDef struct {
	Name       string
	Ordinal    int
	SourceType reflect.Type
	Resolve    func(t reflect.Type) (func(ordinal int) (any, error), bool)
}

// SnapshotReaderFields builds the []ReaderFieldDef cur's current schema
// exposes. Callers typically call this once per distinct row shape and
// pass the result to the Compile* builders below; the returned slice
// owns no reference to cur beyond its TypedGetter method value.
func SnapshotReaderFields(cur driver.Cursor) []ReaderFieldDef {
	count := cur.FieldCount()
	defs := make([]ReaderFieldDef, count)
	for i := 0; i < count; i++ {
		defs[i] = ReaderFieldDef{
			Name:       lowerASCII(cur.Name(i)),
			Ordinal:    i,
			SourceType: cur.FieldType(i),
			Resolve:    cur.TypedGetter,
		}
	}
	return defs
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
