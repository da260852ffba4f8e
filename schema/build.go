package schema

import (
	"reflect"
	"strings"
)

// TagKey is the struct tag key this package reads column mapping from.
const TagKey = "db"

// TableNamer lets a record type override the naming strategy's
// pluralized default table name.
type TableNamer interface {
	TableName() string
}

var tableNamerType = reflect.TypeOf((*TableNamer)(nil)).Elem()

// resolveTableName returns t's mapped table name, consulting TableNamer
// on t or *t before falling back to the naming strategy's default.
func resolveTableName(t reflect.Type, naming NamingStrategy) string {
	if reflect.PointerTo(t).Implements(tableNamerType) {
		if name := reflect.New(t).Interface().(TableNamer).TableName(); name != "" {
			return name
		}
	} else if t.Implements(tableNamerType) {
		if name := reflect.New(t).Elem().Interface().(TableNamer).TableName(); name != "" {
			return name
		}
	}
	return naming.TableName(t.Name())
}

// buildRecordTypeInfo walks t's exported fields (including embedded
// structs, flattened recursively) and produces its
// RecordTypeInfo. t must be a struct type, or a pointer to one.
func buildRecordTypeInfo(t reflect.Type, naming NamingStrategy, tags *TagParser) (*RecordTypeInfo, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, newNotStructError(t.String())
	}

	info := &RecordTypeInfo{
		Type:      t,
		Name:      t.Name(),
		TableName: resolveTableName(t, naming),
		byName:    make(map[string]*AttributeInfo),
		byColumn:  make(map[string]*AttributeInfo),
	}

	if err := collectFields(t, nil, naming, tags, info); err != nil {
		return nil, err
	}

	return info, nil
}

// collectFields recurses into anonymous (embedded) struct fields,
// accumulating attributes into info with the index path prefixed by
// parentIndex so reflect.Value.FieldByIndex can locate them later.
func collectFields(t reflect.Type, parentIndex []int, naming NamingStrategy, tags *TagParser, info *RecordTypeInfo) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.PkgPath != "" && !field.Anonymous {
			continue // unexported, not embedded: not addressable
		}

		index := append(append([]int{}, parentIndex...), i)

		if field.Anonymous {
			embedded := field.Type
			for embedded.Kind() == reflect.Ptr {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct && !isNullableWrapper(embedded) {
				if err := collectFields(embedded, index, naming, tags, info); err != nil {
					return err
				}
				continue
			}
		}

		if field.PkgPath != "" {
			continue
		}

		tagValue := field.Tag.Get(TagKey)
		parsed := tags.ParseTag(field.Name, tagValue)
		if parsed.IsSkipped() {
			continue
		}

		underlying, isNullableValue := unwrapNullable(field.Type)

		attr := &AttributeInfo{
			Name:            field.Name,
			MappedName:      strings.Trim(strings.TrimSpace(parsed.ColumnName), "\"`[]"),
			Type:            field.Type,
			Underlying:      underlying,
			IsNullableValue: isNullableValue,
			Index:           index,
			Offset:          field.Offset,
			Readable:        true,
			Writable:        true,
			Null:            parsed.Null,
			NotNull:         parsed.NotNull,
		}

		columnKey := lowerASCII(attr.MappedName)
		if existing, dup := info.byColumn[columnKey]; dup {
			return newDuplicateColumnError(t.Name(), attr.MappedName, existing.Name, attr.Name)
		}

		info.Attributes = append(info.Attributes, attr)
		info.byName[attr.Name] = attr
		info.byColumn[columnKey] = attr
	}

	return nil
}

// unwrapNullable reports whether typ is a nullable wrapper around a
// value type, per spec.md §4.4.1 steps 6-7: either any pointer type
// (unwrapped to its element type), or a database/sql Null* style struct
// as recognized by isNullableWrapper. It
// returns the wrapped value type, or typ unchanged when it is not a
// nullable wrapper.
func unwrapNullable(typ reflect.Type) (underlying reflect.Type, isNullableValue bool) {
	if typ.Kind() == reflect.Ptr {
		return typ.Elem(), true
	}
	if isNullableWrapper(typ) {
		return typ.Field(0).Type, true
	}
	return typ, false
}

// isNullableWrapper reports whether typ has the database/sql Null*
// shape: a struct type whose name starts with "Null", with exactly two
// fields, the second named "Valid" of type bool.
func isNullableWrapper(typ reflect.Type) bool {
	if typ.Kind() != reflect.Struct || typ.NumField() != 2 {
		return false
	}
	if !strings.HasPrefix(typ.Name(), "Null") {
		return false
	}
	last := typ.Field(1)
	return last.Name == "Valid" && last.Type.Kind() == reflect.Bool
}
