package plan

import (
	"reflect"

	"github.com/latticedb/rowmap/handler"
	"github.com/latticedb/rowmap/schema"
)

// resolveHandler looks up attr's Handler Registry entry: attribute-level
// first, falling back to a type-level handler registered for attr's
// underlying Go type, per spec.md §4.2. Consulted once per attribute at
// Program build time; a Handler found here fully replaces the standard
// conversion pipeline for that attribute (buildAttrReadOp, buildParamOp).
func resolveHandler(recordType reflect.Type, attr *schema.AttributeInfo) (handler.Handler, bool) {
	if h, ok := handler.LookupAttribute(recordType, attr.Name); ok {
		return h, true
	}
	return handler.Lookup(attr.Underlying)
}
