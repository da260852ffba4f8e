package plan

import (
	"fmt"
	"reflect"

	"github.com/latticedb/rowmap/driver"
	"github.com/latticedb/rowmap/handler"
	"github.com/latticedb/rowmap/schema"
)

// opCode names one step of a compiled plan, the data-driven substitute
// for the source's JIT-compiled expression tree (Design Notes §9). A
// Program is built once per (record type, shape) and its Ops are
// executed once per row or per record thereafter. The Run* functions
// below walk the Ops in order; what each Op does is decided by which of
// its fields are populated, not by a switch on Code.
type opCode uint8

const (
	opReadTyped opCode = iota
	opReadValue
	opIsNullGuard
	opConvert
	opWrapNullable
	opAssignField
	opDictSet
	opClearParams
	opNewParam
	opSetParamValue
	opSetParamType
	opSetParamSize
	opSetParamPrecisionScale
	opSetParamDirection
	opAppendParam
	opDynamicFieldLookup
	opGuidFromString
)

// Op is one compiled instruction. Only the fields relevant to Code are
// populated; the rest stay at their zero value. A single Op type
// serves every Compile* builder so Program is one cacheable shape
// regardless of which accessor produced it.
type Op struct {
	Code opCode

	// Reader fields (opReadTyped, opReadValue, opIsNullGuard, opConvert,
	// opWrapNullable, opAssignField, opDictSet).
	Ordinal          int
	ReadTyped        func(ordinal int) (any, error)
	Nullable         bool
	ValueIsReference bool
	NullDefault      any
	Convert          ConvertFunc
	WrapNullable     func(any) any
	FieldIndex       []int
	ColumnName       string

	// Handler overrides the normal conversion pipeline (Convert and
	// WrapNullable on the read side, Convert on the write side) when
	// non-nil. Set at build time from the Handler Registry (see
	// resolveHandler in handlerwire.go); plan never re-checks the
	// registry after a Program is built (spec.md §3 ownership note).
	Handler handler.Handler
	// AttrInfo is the attribute Handler was resolved for, passed through
	// to TransformIn/TransformOut unchanged.
	AttrInfo *schema.AttributeInfo

	// Parameter fields (opNewParam .. opAppendParam, opDynamicFieldLookup,
	// opGuidFromString).
	ParamName         string
	DbTypeCode        int
	HasDbType         bool
	Size              int
	HasSize           bool
	Precision, Scale  int
	HasPrecisionScale bool
	Direction         driver.ParameterDirection
	ValueFieldIndex   []int  // compile-time bound attribute, when known statically
	AttributeName     string // runtime lookup name, when the record is dynamic
	SkipValue         bool   // true for output parameters (§4.4.4): no value assignment
	BatchSlot         int    // which record in the batch this op reads from (§4.4.4 only)
}

// Program is a compiled plan: an ordered instruction list executed
// once per invocation of the accessor that owns it.
type Program []Op

// RunIntoStruct executes a row-reading Program against one row from
// cur, assigning each op's result into the corresponding field of dst
// (an addressable, settable struct value). Handles opReadTyped,
// opReadValue, opIsNullGuard, opConvert, opWrapNullable, opAssignField.
func RunIntoStruct(prog Program, cur driver.Cursor, dst reflect.Value) error {
	for i := range prog {
		op := &prog[i]
		value, err := op.readColumn(cur)
		if err != nil {
			return err
		}
		field := dst.FieldByIndex(op.FieldIndex)
		if value == nil {
			field.Set(reflect.Zero(field.Type()))
			continue
		}
		field.Set(reflect.ValueOf(value))
	}
	return nil
}

// RunIntoMap executes a row-reading Program against one row from cur,
// collecting results into a fresh map keyed by each column's name as
// cur reports it (original casing). Handles the same reader opcodes as
// RunIntoStruct but terminates each op with opDictSet instead of
// opAssignField.
func RunIntoMap(prog Program, cur driver.Cursor) (map[string]any, error) {
	out := make(map[string]any, len(prog))
	for i := range prog {
		op := &prog[i]
		value, err := op.readColumn(cur)
		if err != nil {
			return nil, err
		}
		out[cur.Name(op.Ordinal)] = value
	}
	return out, nil
}

// readColumn runs the opReadTyped/opReadValue -> opIsNullGuard ->
// opConvert -> opWrapNullable pipeline for one op against one row. Each
// stage is skipped when the op doesn't carry the corresponding field,
// so this single method serves both RunIntoStruct and RunIntoMap.
func (op *Op) readColumn(cur driver.Cursor) (any, error) {
	if op.Nullable && cur.IsNull(op.Ordinal) {
		if op.ValueIsReference {
			return nil, nil
		}
		return op.NullDefault, nil
	}

	var raw any
	var err error
	if op.ReadTyped != nil {
		raw, err = op.ReadTyped(op.Ordinal)
	} else {
		raw, err = cur.Value(op.Ordinal)
	}
	if err != nil {
		return nil, fmt.Errorf("plan: reading column %d: %w", op.Ordinal, err)
	}

	if op.Handler != nil {
		raw, err = op.Handler.TransformIn(raw, op.AttrInfo)
		if err != nil {
			return nil, &ConversionError{Attribute: op.ColumnName, Cause: err}
		}
		return raw, nil
	}

	if op.Convert != nil {
		raw, err = op.Convert(raw)
		if err != nil {
			return nil, &ConversionError{Attribute: op.ColumnName, Cause: err}
		}
	}

	if op.WrapNullable != nil {
		raw = op.WrapNullable(raw)
	}

	return raw, nil
}

// fieldValue resolves one parameter's source value from a record
// (statically bound by ValueFieldIndex, or looked up by AttributeName
// when the record is dynamic), applying Convert when present.
func (op *Op) fieldValue(recordVal reflect.Value, dynamicLookup func(name string) (any, error)) (any, error) {
	var raw any
	var err error

	if op.ValueFieldIndex != nil {
		raw = recordVal.FieldByIndex(op.ValueFieldIndex).Interface()
	} else {
		raw, err = dynamicLookup(op.AttributeName)
		if err != nil {
			return nil, err
		}
	}

	if op.Handler != nil {
		raw, err = op.Handler.TransformOut(raw, op.AttrInfo)
		if err != nil {
			return nil, &ConversionError{Attribute: op.ParamName, Cause: err}
		}
		return raw, nil
	}

	if op.Convert != nil {
		raw, err = op.Convert(raw)
		if err != nil {
			return nil, &ConversionError{Attribute: op.ParamName, Cause: err}
		}
	}

	return raw, nil
}

// RunParams executes a parameter-building Program once against one
// record and cmd. dynamicLookup resolves an attribute by name for
// dynamic (non-statically-typed) records; pass nil when every op in
// prog is statically bound (ValueFieldIndex set).
func RunParams(prog Program, recordVal reflect.Value, cmd driver.Command, dynamicLookup func(name string) (any, error)) error {
	for i := range prog {
		op := &prog[i]

		if op.Code == opClearParams {
			cmd.Parameters().Clear()
			continue
		}
		if err := RunSingleParam(op, recordVal, cmd, dynamicLookup); err != nil {
			return err
		}
	}
	return nil
}

// RunSingleParam builds and appends the one parameter op describes,
// reading its value (unless SkipValue) from recordVal or, for a
// dynamic record, from dynamicLookup. Shared by RunParams (one record,
// whole Program) and the batched emitter (one record per batch slot,
// one op at a time).
func RunSingleParam(op *Op, recordVal reflect.Value, cmd driver.Command, dynamicLookup func(name string) (any, error)) error {
	param := cmd.CreateParameter()
	param.SetName(op.ParamName)

	if !op.SkipValue {
		value, err := op.fieldValue(recordVal, dynamicLookup)
		if err != nil {
			return err
		}
		if value == nil && !op.Nullable {
			return fmt.Errorf("plan: parameter %q: nil value for non-nullable attribute", op.ParamName)
		}
		param.SetValue(value)
	}

	if op.HasDbType {
		param.SetDbType(op.DbTypeCode)
	}
	param.SetDirection(op.Direction)
	if op.HasSize {
		param.SetSize(op.Size)
	}
	if op.HasPrecisionScale {
		param.SetPrecisionScale(op.Precision, op.Scale)
	}

	cmd.Parameters().Add(param)
	return nil
}
