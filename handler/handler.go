// Package handler is the Handler Registry: a bidirectional mapping
// from record type (or a specific attribute of a record type) to a
// user-supplied Handler, a pair of transforms applied when marshaling
// a value into or out of a record attribute.
package handler

import "github.com/latticedb/rowmap/schema"

// Handler is a pair of pure transforms attached to a record type or one
// of its attributes. TransformIn converts a column value read from a
// row into the attribute value stored on the record. TransformOut
// converts an attribute value into the value written to a command
// parameter.
type Handler interface {
	TransformIn(columnValue any, attr *schema.AttributeInfo) (any, error)
	TransformOut(attributeValue any, attr *schema.AttributeInfo) (any, error)
}

// Funcs adapts a pair of plain functions to the Handler interface,
// the common case when a handler doesn't need to carry its own state.
// Either function may be nil if only one direction is handled; a nil
// function passes the value through unchanged.
type Funcs struct {
	In  func(columnValue any, attr *schema.AttributeInfo) (any, error)
	Out func(attributeValue any, attr *schema.AttributeInfo) (any, error)
}

func (f Funcs) TransformIn(columnValue any, attr *schema.AttributeInfo) (any, error) {
	if f.In == nil {
		return columnValue, nil
	}
	return f.In(columnValue, attr)
}

func (f Funcs) TransformOut(attributeValue any, attr *schema.AttributeInfo) (any, error) {
	if f.Out == nil {
		return attributeValue, nil
	}
	return f.Out(attributeValue, attr)
}
