package handler

import (
	"fmt"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/schema"
)

// AttributeSelector names the attribute an attribute-level registration
// or lookup applies to. Go has no lambda member-expression trees, so
// unlike the source ORM's attribute-selector expression, this is a
// small closed sum type: either a bare name or a field descriptor
// resolved against the record type's mapped column names.
type AttributeSelector struct {
	name  string
	field *dbtype.DbField
}

// ByName selects an attribute by its canonical (Go struct field) name.
func ByName(name string) AttributeSelector {
	return AttributeSelector{name: name}
}

// ByField selects an attribute by the column it maps to, matched
// case-insensitively against the record type's mapped attribute names.
func ByField(field dbtype.DbField) AttributeSelector {
	return AttributeSelector{field: &field}
}

// resolve returns the canonical attribute name this selector names on
// info, or an error if it names no attribute of info.
func (s AttributeSelector) resolve(info *schema.RecordTypeInfo) (string, error) {
	if s.field != nil {
		attr, ok := info.AttributeByColumn(dbtype.UnquotedName(s.field.Name))
		if !ok {
			return "", fmt.Errorf("handler: %s: no attribute maps to field %q", info.Name, s.field.Name)
		}
		return attr.Name, nil
	}

	if _, ok := info.AttributeByName(s.name); !ok {
		return "", fmt.Errorf("handler: %s: no attribute named %q", info.Name, s.name)
	}
	return s.name, nil
}
