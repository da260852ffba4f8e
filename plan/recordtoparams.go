package plan

import (
	"reflect"
	"strings"

	"github.com/latticedb/rowmap/convpolicy"
	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/driver"
	"github.com/latticedb/rowmap/schema"
)

// BuildRecordToParams builds the Program for CompileRecordToParams[T],
// per spec.md §4.4.3. recordType's Kind() of Map selects the dynamic
// (runtime attribute lookup) path; any other kind is resolved
// statically against schema.Resolve.
func BuildRecordToParams(recordType reflect.Type, fields []dbtype.DbField) (Program, error) {
	dynamic := recordType.Kind() == reflect.Map

	var info *schema.RecordTypeInfo
	var err error
	if !dynamic {
		info, err = schema.Resolve(recordType)
		if err != nil {
			return nil, err
		}
	}

	mapper, _ := typeMapperFor(recordType)
	policy := convpolicy.Current()

	prog := Program{{Code: opClearParams}}

	for _, field := range fields {
		name := dbtype.UnquotedName(field.Name)

		var attr *schema.AttributeInfo
		if !dynamic {
			a, ok := info.AttributeByColumn(strings.ToLower(name))
			if !ok {
				return nil, &NoMatchedFieldsError{
					RecordType: info.Name,
					Reason:     "field " + name + " matches no attribute",
				}
			}
			attr = a
		}

		op := buildParamOp(recordType, attr, field, name, mapper, policy, dynamic, driver.DirectionInput, false)
		prog = append(prog, op)
	}

	return prog, nil
}

// typeMapperFor returns recordType's TypeMapper, if it (or a pointer to
// it) implements dbtype.TypeMapperProvider.
func typeMapperFor(recordType reflect.Type) (dbtype.TypeMapper, bool) {
	providerType := reflect.TypeOf((*dbtype.TypeMapperProvider)(nil)).Elem()
	if recordType.Kind() == reflect.Map {
		return nil, false
	}
	if reflect.PointerTo(recordType).Implements(providerType) {
		return reflect.New(recordType).Interface().(dbtype.TypeMapperProvider).DbTypeMapper(), true
	}
	if recordType.Implements(providerType) {
		return reflect.New(recordType).Elem().Interface().(dbtype.TypeMapperProvider).DbTypeMapper(), true
	}
	return nil, false
}

// resolveDbType consults mapper first, falling back to the default
// resolver, per spec.md §4.4.3's DbType resolution rule.
func resolveDbType(mapper dbtype.TypeMapper, t reflect.Type) (dbtype.DbType, bool) {
	if t == nil {
		return dbtype.DbTypeUnknown, false
	}
	if mapper != nil {
		if code, ok := mapper.DbType(t); ok {
			return code, true
		}
	}
	return dbtype.ResolveDBType(t)
}

// CompileRecordToParams builds a Program for fields against T, then
// returns a closure that populates cmd's parameter collection from one
// record per invocation.
func CompileRecordToParams[T any](fields []dbtype.DbField) (func(T, driver.Command) error, error) {
	recordType := reflect.TypeOf((*T)(nil)).Elem()

	prog, err := Default.GetOrBuild(recordType, FieldShapeOf(fields), func() (Program, error) {
		return BuildRecordToParams(recordType, fields)
	})
	if err != nil {
		return nil, err
	}

	dynamic := recordType.Kind() == reflect.Map

	return func(record T, cmd driver.Command) error {
		recordVal := reflect.ValueOf(record)
		var lookup func(name string) (any, error)
		if dynamic {
			lookup = func(name string) (any, error) {
				v := recordVal.MapIndex(reflect.ValueOf(name))
				if !v.IsValid() {
					return nil, nil
				}
				return v.Interface(), nil
			}
		}
		return RunParams(prog, recordVal, cmd, lookup)
	}, nil
}
