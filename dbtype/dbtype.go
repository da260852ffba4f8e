package dbtype

import (
	"reflect"
	"time"
)

// DbType enumerates the database parameter type codes the resolver can
// produce. Kept deliberately small: one code per primitive family the
// emitter needs to distinguish, not a full vendor type catalogue.
type DbType int

const (
	DbTypeUnknown DbType = iota
	DbTypeBool
	DbTypeInt8
	DbTypeInt16
	DbTypeInt32
	DbTypeInt64
	DbTypeUint8
	DbTypeUint16
	DbTypeUint32
	DbTypeUint64
	DbTypeFloat32
	DbTypeFloat64
	DbTypeString
	DbTypeBytes
	DbTypeTime
	DbTypeDuration
	DbTypeGuid
	// DbTypeFixedInterval is deliberately never set on an emitted
	// parameter (see plan package, §4.4.3 step 7): the driver is left
	// to infer it.
	DbTypeFixedInterval
)

var goKindToDbType = map[reflect.Kind]DbType{
	reflect.Bool:    DbTypeBool,
	reflect.Int8:    DbTypeInt8,
	reflect.Int16:   DbTypeInt16,
	reflect.Int32:   DbTypeInt32,
	reflect.Int:     DbTypeInt64,
	reflect.Int64:   DbTypeInt64,
	reflect.Uint8:   DbTypeUint8,
	reflect.Uint16:  DbTypeUint16,
	reflect.Uint32:  DbTypeUint32,
	reflect.Uint:    DbTypeUint64,
	reflect.Uint64:  DbTypeUint64,
	reflect.Float32: DbTypeFloat32,
	reflect.Float64: DbTypeFloat64,
	reflect.String:  DbTypeString,
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	bytesType    = reflect.TypeOf([]byte(nil))
	guidType     = reflect.TypeOf(Guid{})
)

// Guid is a RFC-4122 UUID value. It is a distinct named type (rather
// than a raw [16]byte or google/uuid.UUID alias) so the resolver and the
// Automatic-policy string<->Guid coercion in the plan package can match
// on it unambiguously regardless of which UUID library a record type
// happens to import.
type Guid [16]byte

// Resolver maps a runtime value type to a DbType. The mapping is
// deterministic and static, per spec.md §4.3.
type Resolver interface {
	Resolve(t reflect.Type) (DbType, bool)
}

// DefaultResolver implements Resolver using the static table below.
type DefaultResolver struct{}

// Resolve implements Resolver. Unwraps one level of pointer before
// matching, since nullable-of-value-type attributes are modeled as
// pointers or named nullable wrappers upstream (schema package resolves
// the underlying type before calling this).
func (DefaultResolver) Resolve(t reflect.Type) (DbType, bool) {
	if t == nil {
		return DbTypeUnknown, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case timeType:
		return DbTypeTime, true
	case durationType:
		return DbTypeDuration, true
	case bytesType:
		return DbTypeBytes, true
	case guidType:
		return DbTypeGuid, true
	}

	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return DbTypeBytes, true
	}

	if code, ok := goKindToDbType[t.Kind()]; ok {
		return code, true
	}

	return DbTypeUnknown, false
}

// ResolveDBType resolves using DefaultResolver. Most callers that don't
// need a pluggable resolver use this directly.
func ResolveDBType(t reflect.Type) (DbType, bool) {
	return DefaultResolver{}.Resolve(t)
}
