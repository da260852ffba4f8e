package plan

import (
	"reflect"
	"strconv"

	"github.com/latticedb/rowmap/convpolicy"
	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/driver"
	"github.com/latticedb/rowmap/schema"
)

// buildParamOp builds one parameter-setting Op for field, shared by
// CompileRecordToParams and CompileBatchToParams (spec.md §4.4.3,
// §4.4.4 — the batched emitter applies this per input/output field per
// batch slot, varying only the parameter name suffix and, for output
// fields, skipValue/direction).
func buildParamOp(recordType reflect.Type, attr *schema.AttributeInfo, field dbtype.DbField, paramName string, mapper dbtype.TypeMapper, policy convpolicy.Policy, dynamic bool, direction driver.ParameterDirection, skipValue bool) Op {
	op := Op{
		Code:      opNewParam,
		ParamName: paramName,
		Direction: direction,
		SkipValue: skipValue,
	}

	if dynamic {
		op.AttributeName = field.Name // the unadorned attribute name; paramName may carry a batch-slot suffix
		op.Nullable = true
	} else if attr != nil {
		op.ValueFieldIndex = attr.Index
		op.Nullable = attr.IsNullableValue || attr.Type.Kind() == reflect.Ptr

		if h, ok := resolveHandler(recordType, attr); ok {
			op.Handler = h
			op.AttrInfo = attr
		}
	}

	effectiveType := field.Type
	if attr != nil {
		if policy == convpolicy.Automatic && field.Type != nil && hasKnownCoercion(attr.Underlying, field.Type) {
			effectiveType = attr.Underlying
		} else if effectiveType == nil {
			effectiveType = attr.Underlying
		}

		if op.Handler == nil && !skipValue && policy == convpolicy.Automatic &&
			attr.Underlying.Kind() == reflect.String && field.Type == guidType {
			op.Convert = stringToGuid
		}
	}

	if code, ok := resolveDbType(mapper, effectiveType); ok && code != dbtype.DbTypeFixedInterval {
		op.DbTypeCode = int(code)
		op.HasDbType = true
	}

	if !field.IsVendorType("image") && field.Size != 0 {
		op.Size = field.Size
		op.HasSize = true
	}
	if field.Precision != 0 || field.Scale != 0 {
		op.Precision, op.Scale = field.Precision, field.Scale
		op.HasPrecisionScale = true
	}

	return op
}

// batchParamName implements spec.md §8's suffix rule: unquotedName at
// slot 0, unquotedName + "_" + i at slot i > 0. Load-bearing for the SQL
// templating layer that consumes these parameter names; preserve
// verbatim (Design Notes §9).
func batchParamName(name string, slot int) string {
	if slot == 0 {
		return name
	}
	return name + "_" + strconv.Itoa(slot)
}
