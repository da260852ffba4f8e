package plan

import (
	"reflect"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/schema"
)

// CompileValueToAttr builds a (record, value) -> error writer, per
// spec.md §4.4.6: a general-purpose setter, used outside the command
// flow, that casts value to field's declared type and assigns it to
// the attribute field maps to.
func CompileValueToAttr(field dbtype.DbField) (func(record any, value any) error, error) {
	columnKey := dbtype.UnquotedName(field.Name)
	destType := field.Type

	return func(record any, value any) error {
		recordVal := reflect.ValueOf(record)
		for recordVal.Kind() == reflect.Ptr {
			recordVal = recordVal.Elem()
		}

		info, err := schema.Resolve(recordVal.Type())
		if err != nil {
			return err
		}
		attr, ok := info.AttributeByColumn(columnKey)
		if !ok {
			return &NoMatchedFieldsError{
				RecordType: info.Name,
				Reason:     "no attribute maps to field " + columnKey,
			}
		}

		target := destType
		if target == nil {
			target = attr.Type
		}

		converted, err := directCast(reflect.TypeOf(value), target)(value)
		if err != nil {
			return &ConversionError{Attribute: attr.Name, Cause: err}
		}

		field := recordVal.FieldByIndex(attr.Index)
		if field.Type() != target && attr.IsNullableValue && field.Kind() == reflect.Ptr {
			converted, err = directCast(target, attr.Underlying)(converted)
			if err != nil {
				return &ConversionError{Attribute: attr.Name, Cause: err}
			}
			ptr := reflect.New(attr.Underlying)
			ptr.Elem().Set(reflect.ValueOf(converted))
			field.Set(ptr)
			return nil
		}

		field.Set(reflect.ValueOf(converted))
		return nil
	}, nil
}
