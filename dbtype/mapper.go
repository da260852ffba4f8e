package dbtype

import "reflect"

// TypeMapper is consulted before the Resolver when choosing a parameter
// DbType for an attribute/field, per spec.md §4.4.3: "First consult the
// per-type TypeMapper annotation on the underlying attribute/field type.
// If absent, delegate to the resolver."
type TypeMapper interface {
	DbType(t reflect.Type) (DbType, bool)
}

// TypeMapperProvider lets a record type declare its own TypeMapper,
// consulted before the global Resolver for every attribute of that type.
type TypeMapperProvider interface {
	DbTypeMapper() TypeMapper
}

// MapFunc adapts a plain function to TypeMapper.
type MapFunc func(t reflect.Type) (DbType, bool)

// DbType implements TypeMapper.
func (f MapFunc) DbType(t reflect.Type) (DbType, bool) { return f(t) }
