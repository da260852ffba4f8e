package plan

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/latticedb/rowmap/convpolicy"
	"github.com/latticedb/rowmap/dbtype"
)

// ConvertFunc converts a value read from one type's representation
// into destType's representation. Built once per (policy, source,
// dest) triple at plan-build time and invoked once per row/record
// thereafter.
type ConvertFunc func(value any) (any, error)

var (
	timeType = reflect.TypeOf(time.Time{})
	guidType = reflect.TypeOf(dbtype.Guid{})
)

// BuildConverter returns the conversion function for a read of
// sourceType that must produce destType, under policy. policy is
// sampled once here, at build time, per Design Notes §9 ("store it as
// an atomic and sample it once at plan-build time") — the returned
// function is not re-evaluated against a later policy change.
func BuildConverter(policy convpolicy.Policy, sourceType, destType reflect.Type) ConvertFunc {
	if sourceType == destType {
		return func(value any) (any, error) {
			if value == nil {
				return reflect.Zero(destType).Interface(), nil
			}
			return value, nil
		}
	}

	if policy == convpolicy.Automatic {
		if conv, ok := automaticConversion(sourceType, destType); ok {
			return conv
		}
	}

	return directCast(sourceType, destType)
}

// automaticConversion returns the known widening/narrowing coercion for
// (sourceType, destType), per spec.md §4.4.1 step 5: string<->Guid,
// DateTime<->string, double<->long/int/short, float<->long/short.
// decimal<->float is not wired: this port has no native decimal type
// (see DESIGN.md), so the decimal side of that coercion has no
// representation to convert from or to.
func automaticConversion(sourceType, destType reflect.Type) (ConvertFunc, bool) {
	switch {
	case sourceType.Kind() == reflect.String && destType == guidType:
		return stringToGuid, true
	case sourceType == guidType && destType.Kind() == reflect.String:
		return guidToString, true
	case sourceType == timeType && destType.Kind() == reflect.String:
		return timeToString, true
	case sourceType.Kind() == reflect.String && destType == timeType:
		return stringToTime, true
	}

	if isNumericKind(sourceType.Kind()) && isNumericKind(destType.Kind()) {
		return numericWiden(sourceType, destType), true
	}

	return nil, false
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// numericWiden performs a reflect.Value.Convert between two numeric
// kinds. This covers double<->long/int/short and float<->long/short
// uniformly, since Go's numeric conversions are exactly the widening/
// narrowing rule spec.md §4.4.1 asks for.
func numericWiden(sourceType, destType reflect.Type) ConvertFunc {
	return func(value any) (any, error) {
		if value == nil {
			return reflect.Zero(destType).Interface(), nil
		}
		v := reflect.ValueOf(value)
		if !v.Type().ConvertibleTo(destType) {
			return nil, fmt.Errorf("plan: cannot convert %s to %s", v.Type(), destType)
		}
		return v.Convert(destType).Interface(), nil
	}
}

func stringToGuid(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("plan: stringToGuid: expected string, got %T", value)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("plan: stringToGuid: %w", err)
	}
	return dbtype.Guid(id), nil
}

func guidToString(value any) (any, error) {
	g, ok := value.(dbtype.Guid)
	if !ok {
		return nil, fmt.Errorf("plan: guidToString: expected dbtype.Guid, got %T", value)
	}
	return uuid.UUID(g).String(), nil
}

func timeToString(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("plan: timeToString: expected time.Time, got %T", value)
	}
	return t.Format(time.RFC3339Nano), nil
}

func stringToTime(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("plan: stringToTime: expected string, got %T", value)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("plan: stringToTime: %w", err)
	}
	return t, nil
}

// hasKnownCoercion reports whether a and b are related by one of the
// known Automatic-policy coercions, in either direction. Used to decide
// the "effective type" for DbType resolution per spec.md §4.4.3.
func hasKnownCoercion(a, b reflect.Type) bool {
	if _, ok := automaticConversion(a, b); ok {
		return true
	}
	_, ok := automaticConversion(b, a)
	return ok
}

// directCast performs the Strict-policy direct cast from sourceType to
// destType, with no known coercions applied.
func directCast(sourceType, destType reflect.Type) ConvertFunc {
	return func(value any) (any, error) {
		if value == nil {
			return reflect.Zero(destType).Interface(), nil
		}
		v := reflect.ValueOf(value)
		if !v.Type().ConvertibleTo(destType) {
			return nil, fmt.Errorf("plan: cannot cast %s to %s", v.Type(), destType)
		}
		return v.Convert(destType).Interface(), nil
	}
}
