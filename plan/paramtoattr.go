package plan

import (
	"fmt"
	"reflect"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/driver"
	"github.com/latticedb/rowmap/schema"
)

// CompileParamToAttr builds a (record, command) -> error writer, per
// spec.md §4.4.5: it reads the parameter named field's unquoted name
// (suffixed per the batch-slot rule when index > 0) from cmd's
// parameter collection, casts its value to the attribute's underlying
// type, and assigns it to the corresponding attribute of record. Used
// to propagate identity columns and other output parameters back into
// records after execution.
//
// record is typed any because the writer is invoked against whatever
// concrete record type the caller's batch holds; the attribute is
// resolved per call via schema.Resolve, itself memoized.
func CompileParamToAttr(field dbtype.DbField, index int) (func(record any, cmd driver.Command) error, error) {
	paramName := batchParamName(dbtype.UnquotedName(field.Name), index)
	columnKey := dbtype.UnquotedName(field.Name)

	return func(record any, cmd driver.Command) error {
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

		param, ok := cmd.Parameters().Get(paramName)
		if !ok {
			return fmt.Errorf("plan: parameter %q not found in command", paramName)
		}

		converted, err := directCast(reflect.TypeOf(param.Value()), attr.Underlying)(param.Value())
		if err != nil {
			return &ConversionError{Attribute: attr.Name, Cause: err}
		}

		target := recordVal.FieldByIndex(attr.Index)
		if attr.IsNullableValue && target.Kind() == reflect.Ptr {
			ptr := reflect.New(attr.Underlying)
			ptr.Elem().Set(reflect.ValueOf(converted))
			target.Set(ptr)
			return nil
		}

		target.Set(reflect.ValueOf(converted))
		return nil
	}, nil
}
