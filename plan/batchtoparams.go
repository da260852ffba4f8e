package plan

import (
	"reflect"
	"strings"

	"github.com/latticedb/rowmap/convpolicy"
	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/driver"
	"github.com/latticedb/rowmap/internal/fingerprint"
	"github.com/latticedb/rowmap/schema"
)

// BuildBatchToParams builds the Program for CompileBatchToParams[T],
// per spec.md §4.4.4: for each of the batchSize slots, every input
// field emits the same as §4.4.3 (suffixed per the batch-slot naming
// rule); after all input slots, every output field is emitted for each
// slot the same way but with no value assignment and Direction = Output.
func BuildBatchToParams(recordType reflect.Type, in, out []dbtype.DbField, batchSize int) (Program, error) {
	if batchSize < 1 {
		batchSize = 1
	}

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

	resolveAttr := func(field dbtype.DbField) (*schema.AttributeInfo, error) {
		if dynamic {
			return nil, nil
		}
		name := dbtype.UnquotedName(field.Name)
		attr, ok := info.AttributeByColumn(strings.ToLower(name))
		if !ok {
			return nil, &NoMatchedFieldsError{
				RecordType: info.Name,
				Reason:     "field " + name + " matches no attribute",
			}
		}
		return attr, nil
	}

	inAttrs := make([]*schema.AttributeInfo, len(in))
	for i, field := range in {
		a, err := resolveAttr(field)
		if err != nil {
			return nil, err
		}
		inAttrs[i] = a
	}
	outAttrs := make([]*schema.AttributeInfo, len(out))
	for i, field := range out {
		a, err := resolveAttr(field)
		if err != nil {
			return nil, err
		}
		outAttrs[i] = a
	}

	prog := Program{{Code: opClearParams}}

	// All input slots first, then all output slots (spec.md §8 boundary
	// scenario #5): for B=3, in={A,B}, out={Id}, the emitted order is
	// A, B, A_1, B_1, A_2, B_2, Id, Id_1, Id_2.
	for slot := 0; slot < batchSize; slot++ {
		for i, field := range in {
			name := batchParamName(dbtype.UnquotedName(field.Name), slot)
			op := buildParamOp(recordType, inAttrs[i], field, name, mapper, policy, dynamic, driver.DirectionInput, false)
			op.BatchSlot = slot
			prog = append(prog, op)
		}
	}
	for slot := 0; slot < batchSize; slot++ {
		for i, field := range out {
			name := batchParamName(dbtype.UnquotedName(field.Name), slot)
			op := buildParamOp(recordType, outAttrs[i], field, name, mapper, policy, dynamic, driver.DirectionOutput, true)
			op.BatchSlot = slot
			prog = append(prog, op)
		}
	}

	return prog, nil
}

// CompileBatchToParams builds a Program for in/out against T and
// batchSize, then returns a closure that populates cmd's parameter
// collection from an ordered list of exactly batchSize records.
func CompileBatchToParams[T any](in, out []dbtype.DbField, batchSize int) (func([]T, driver.Command) error, error) {
	recordType := reflect.TypeOf((*T)(nil)).Elem()

	shape := fingerprint.Mix64(FieldShapeOf(in), fingerprint.Mix64(FieldShapeOf(out), uint64(batchSize)))
	prog, err := Default.GetOrBuild(recordType, shape, func() (Program, error) {
		return BuildBatchToParams(recordType, in, out, batchSize)
	})
	if err != nil {
		return nil, err
	}

	dynamic := recordType.Kind() == reflect.Map

	return func(records []T, cmd driver.Command) error {
		cmd.Parameters().Clear()

		for i := range prog {
			op := &prog[i]
			if op.Code == opClearParams {
				continue
			}

			var recordVal reflect.Value
			var lookup func(name string) (any, error)

			if op.BatchSlot < len(records) {
				recordVal = reflect.ValueOf(records[op.BatchSlot])
				if dynamic {
					rv := recordVal
					lookup = func(name string) (any, error) {
						v := rv.MapIndex(reflect.ValueOf(name))
						if !v.IsValid() {
							return nil, nil
						}
						return v.Interface(), nil
					}
				}
			}

			if err := RunSingleParam(op, recordVal, cmd, lookup); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
