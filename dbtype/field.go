// Package dbtype describes database columns and parameters and resolves
// Go value types to database parameter types.
package dbtype

import (
	"reflect"
	"strings"
)

// DbField describes one database column or parameter, supplied by the
// caller. Treated as immutable input by everything that consumes it.
type DbField struct {
	// Name is the unquoted column/parameter name.
	Name string
	// Type is the declared Go value type carried by this field, when
	// known ahead of time (nil if the caller has no opinion).
	Type     reflect.Type
	Nullable bool
	// Size, Precision and Scale are optional; zero means "unset".
	// Precision and Scale are applied together whenever either of them
	// is non-zero.
	Size      int
	Precision int
	Scale     int
	// VendorType is the raw driver-reported type string (e.g. "image",
	// "uuid", "jsonb"). Matched case-insensitively.
	VendorType string
}

// UnquotedName strips common SQL identifier quoting characters from a
// raw column name. DbField.Name is expected to already be unquoted;
// this helper exists for callers constructing DbField values from raw
// driver metadata.
func UnquotedName(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "\"`[]")
	return raw
}

// IsVendorType reports whether VendorType matches name case-insensitively.
func (f DbField) IsVendorType(name string) bool {
	return strings.EqualFold(f.VendorType, name)
}
