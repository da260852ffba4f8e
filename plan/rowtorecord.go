package plan

import (
	"reflect"
	"strings"

	"github.com/latticedb/rowmap/convpolicy"
	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/driver"
	"github.com/latticedb/rowmap/internal/fingerprint"
	"github.com/latticedb/rowmap/schema"
)

// BuildRowToRecord builds the Program for CompileRowToRecord[T], per
// spec.md §4.4.1. Exported separately from Compile* so the Accessor
// Cache can store and reuse the Program across cursors of the same
// shape without re-wrapping it in a fresh closure each time.
func BuildRowToRecord(recordType reflect.Type, schemaFields []ReaderFieldDef, dbFields []dbtype.DbField) (Program, error) {
	info, err := schema.Resolve(recordType)
	if err != nil {
		return nil, err
	}

	readerByName := make(map[string]ReaderFieldDef, len(schemaFields))
	for _, f := range schemaFields {
		readerByName[f.Name] = f
	}

	dbFieldByColumn := make(map[string]dbtype.DbField, len(dbFields))
	for _, f := range dbFields {
		dbFieldByColumn[strings.ToLower(dbtype.UnquotedName(f.Name))] = f
	}

	policy := convpolicy.Current()

	var prog Program
	for _, attr := range info.Attributes {
		if !attr.Writable {
			continue
		}
		reader, ok := readerByName[strings.ToLower(attr.MappedName)]
		if !ok {
			continue
		}

		op, err := buildAttrReadOp(recordType, attr, reader, dbFieldByColumn, policy)
		if err != nil {
			return nil, err
		}
		op.Code = opAssignField
		op.FieldIndex = attr.Index
		prog = append(prog, op)
	}

	if len(prog) == 0 {
		return nil, &NoMatchedFieldsError{
			RecordType: info.Name,
			Reason:     "no attribute matched any column",
		}
	}

	return prog, nil
}

// buildAttrReadOp implements spec.md §4.4.1 steps 4-7 for one matched
// attribute/column pair.
func buildAttrReadOp(recordType reflect.Type, attr *schema.AttributeInfo, reader ReaderFieldDef, dbFieldByColumn map[string]dbtype.DbField, policy convpolicy.Policy) (Op, error) {
	op := Op{Ordinal: reader.Ordinal, ColumnName: attr.MappedName}

	dbField, known := dbFieldByColumn[strings.ToLower(attr.MappedName)]
	nullable := !known || dbField.Nullable
	op.Nullable = nullable

	op.NullDefault = reflect.Zero(attr.Type).Interface()
	op.ValueIsReference = attr.Type.Kind() == reflect.Ptr

	// A registered Handler (spec.md §4.2) fully replaces the standard
	// type-resolution/conversion/wrap steps below: it receives the raw
	// column value and returns the attribute value directly.
	if h, ok := resolveHandler(recordType, attr); ok {
		op.Handler = h
		op.AttrInfo = attr
		return op, nil
	}

	convertType := reader.SourceType

	// Step 4: prefer the typed accessor for the column's reported
	// source type; otherwise, under Strict, try the attribute's own
	// declared type, except float32 (known-unreliable type-named
	// accessors, preserved verbatim per Design Notes).
	if getter, ok := reader.Resolve(reader.SourceType); ok {
		op.ReadTyped = getter
	} else if policy == convpolicy.Strict && attr.Underlying.Kind() != reflect.Float32 {
		if getter, ok := reader.Resolve(attr.Underlying); ok {
			op.ReadTyped = getter
			convertType = attr.Underlying
		}
	}

	forcedConversion := op.ReadTyped == nil
	if forcedConversion {
		convertType = reflect.TypeOf((*any)(nil)).Elem()
	}

	// Step 5: conversion is required whenever convertType != the
	// attribute's underlying type, or the fallback accessor was chosen.
	if forcedConversion || convertType != attr.Underlying {
		if forcedConversion {
			op.Convert = func(value any) (any, error) {
				return directCast(reflect.TypeOf(value), attr.Underlying)(value)
			}
		} else {
			op.Convert = BuildConverter(policy, convertType, attr.Underlying)
		}
	}

	// Step 6: null guard default (the nullable's empty form) was already
	// set above, before the Handler short-circuit, since both paths need
	// it: reflect.Zero(attr.Type) is a nil pointer or a zeroed Null*
	// struct either way already represents "empty".

	// Step 7: wrap in the nullable constructor — either a pointer to the
	// unwrapped value, or a database/sql Null*-style struct (two fields,
	// the value and a trailing bool "Valid").
	if attr.IsNullableValue && attr.Type.Kind() == reflect.Ptr {
		elemType := attr.Type.Elem()
		op.WrapNullable = func(value any) any {
			v := reflect.New(elemType)
			if value != nil {
				v.Elem().Set(reflect.ValueOf(value))
			}
			return v.Interface()
		}
	} else if attr.IsNullableValue && attr.Type.Kind() == reflect.Struct {
		wrapperType := attr.Type
		op.WrapNullable = func(value any) any {
			w := reflect.New(wrapperType).Elem()
			if value != nil {
				w.Field(0).Set(reflect.ValueOf(value))
			}
			w.Field(1).SetBool(value != nil)
			return w.Interface()
		}
	}

	return op, nil
}

// CompileRowToRecord builds a Program for T's writable attributes
// against schemaFields and dbFields, then returns a closure that
// interprets it once per invocation. The closure allocates a fresh T
// per call; it does not reuse or mutate any shared state.
func CompileRowToRecord[T any](schemaFields []ReaderFieldDef, dbFields []dbtype.DbField) (func(driver.Cursor) (T, error), error) {
	recordType := reflect.TypeOf((*T)(nil)).Elem()

	shape := fingerprint.Mix64(ShapeOf(schemaFields), FieldShapeOf(dbFields))
	prog, err := Default.GetOrBuild(recordType, shape, func() (Program, error) {
		return BuildRowToRecord(recordType, schemaFields, dbFields)
	})
	if err != nil {
		return nil, err
	}

	return func(cur driver.Cursor) (T, error) {
		var zero T
		dst := reflect.New(recordType).Elem()
		if err := RunIntoStruct(prog, cur, dst); err != nil {
			return zero, err
		}
		return dst.Interface().(T), nil
	}, nil
}
