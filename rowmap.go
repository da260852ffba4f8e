// Package rowmap is the public façade of the reflective compilation
// core: it re-exports the type aliases most callers need and carries
// the deprecated handler-registry alias kept for backward compatibility.
// The real work lives in schema, dbtype, handler, convpolicy, driver and
// plan; this package just wires names together, grounded on the
// teacher's sqlorm.go thin re-export pattern.
package rowmap

import (
	"reflect"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/handler"
	"github.com/latticedb/rowmap/schema"
)

type RecordTypeInfo = schema.RecordTypeInfo
type AttributeInfo = schema.AttributeInfo
type DbField = dbtype.DbField
type Handler = handler.Handler
type AttributeSelector = handler.AttributeSelector

// ByName builds an AttributeSelector addressing an attribute by its Go
// field name.
func ByName(name string) AttributeSelector { return handler.ByName(name) }

// ByField builds an AttributeSelector addressing an attribute by the
// DbField it matches.
func ByField(field DbField) AttributeSelector { return handler.ByField(field) }

// RegisterHandler registers h for targetType's own conversions.
//
// Deprecated: use handler.Register.
func RegisterHandler(targetType reflect.Type, h Handler, force bool) error {
	return handler.Register(targetType, h, force)
}

// RegisterAttributeHandler registers h for one attribute of recordType.
//
// Deprecated: use handler.RegisterAttribute.
func RegisterAttributeHandler(recordType reflect.Type, selector AttributeSelector, h Handler, force bool) error {
	return handler.RegisterAttribute(recordType, selector, h, force)
}

// LookupHandler returns targetType's registered Handler, if any.
//
// Deprecated: use handler.Lookup.
func LookupHandler(targetType reflect.Type) (Handler, bool) {
	return handler.Lookup(targetType)
}

// LookupAttributeHandler returns the registered Handler for one
// attribute of recordType, if any.
//
// Deprecated: use handler.LookupAttribute.
func LookupAttributeHandler(recordType reflect.Type, attributeName string) (Handler, bool) {
	return handler.LookupAttribute(recordType, attributeName)
}

// RemoveHandler removes a type-level handler, or one attribute-level
// handler when attributeName is given.
//
// Deprecated: use handler.Remove.
func RemoveHandler(recordType reflect.Type, attributeName ...string) {
	handler.Remove(recordType, attributeName...)
}

// ClearHandlers empties the default Handler Registry.
//
// Deprecated: use handler.Clear.
func ClearHandlers() {
	handler.Clear()
}
