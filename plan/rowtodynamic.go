package plan

import (
	"reflect"

	"github.com/latticedb/rowmap/driver"
)

// dynamicMapType is the cache key stand-in for CompileRowToDynamic,
// which has no record type of its own.
var dynamicMapType = reflect.TypeOf(map[string]any{})

// BuildRowToDynamic builds the Program for CompileRowToDynamic, per
// spec.md §4.4.2: every column becomes a dictionary key, cased exactly
// as the cursor reported it (unlike the lowercased matching §4.4.1
// performs internally).
func BuildRowToDynamic(schemaFields []ReaderFieldDef) (Program, error) {
	if len(schemaFields) == 0 {
		return nil, &NoMatchedFieldsError{
			RecordType: "dynamic",
			Reason:     "cursor exposes zero columns",
		}
	}

	prog := make(Program, len(schemaFields))
	for i, reader := range schemaFields {
		op := Op{Code: opDictSet, Ordinal: reader.Ordinal, ColumnName: reader.Name}

		// Either branch of spec.md §4.4.2's null-handling rule collapses
		// to "null in, nil out": a nullable value-type column emits null
		// directly, and a reference-type column's default is nil anyway.
		op.Nullable = true
		op.NullDefault = nil

		if getter, ok := reader.Resolve(reader.SourceType); ok {
			op.ReadTyped = getter
		}

		prog[i] = op
	}

	return prog, nil
}

// CompileRowToDynamic builds a Program from schemaFields and returns a
// closure producing a map[string]any per invocation.
func CompileRowToDynamic(schemaFields []ReaderFieldDef) (func(driver.Cursor) (map[string]any, error), error) {
	prog, err := Default.GetOrBuild(dynamicMapType, ShapeOf(schemaFields), func() (Program, error) {
		return BuildRowToDynamic(schemaFields)
	})
	if err != nil {
		return nil, err
	}

	return func(cur driver.Cursor) (map[string]any, error) {
		return RunIntoMap(prog, cur)
	}, nil
}
