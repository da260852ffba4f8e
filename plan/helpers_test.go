package plan_test

import (
	"fmt"
	"reflect"

	"github.com/latticedb/rowmap/driver"
)

// fakeCursor is a minimal driver.Cursor over an in-memory row set, for
// exercising the row-reading Compile* builders without a real database.
type fakeCursor struct {
	names      []string
	rows       [][]any
	idx        int
	knownTypes map[reflect.Type]bool
}

func newFakeCursor(names []string, rows [][]any, knownTypes ...reflect.Type) *fakeCursor {
	kt := make(map[reflect.Type]bool, len(knownTypes))
	for _, t := range knownTypes {
		kt[t] = true
	}
	return &fakeCursor{names: names, rows: rows, idx: -1, knownTypes: kt}
}

func (c *fakeCursor) Next() bool {
	c.idx++
	return c.idx < len(c.rows)
}

func (c *fakeCursor) FieldCount() int { return len(c.names) }
func (c *fakeCursor) Name(ordinal int) string { return c.names[ordinal] }

func (c *fakeCursor) FieldType(ordinal int) reflect.Type {
	v := c.rows[c.idx][ordinal]
	if v == nil {
		return reflect.TypeOf((*any)(nil)).Elem()
	}
	return reflect.TypeOf(v)
}

func (c *fakeCursor) IsNull(ordinal int) bool {
	return c.rows[c.idx][ordinal] == nil
}

func (c *fakeCursor) Value(ordinal int) (any, error) {
	return c.rows[c.idx][ordinal], nil
}

func (c *fakeCursor) TypedGetter(sourceType reflect.Type) (func(ordinal int) (any, error), bool) {
	if !c.knownTypes[sourceType] {
		return nil, false
	}
	return func(ordinal int) (any, error) {
		v := c.rows[c.idx][ordinal]
		if v == nil {
			return nil, nil
		}
		if reflect.TypeOf(v) != sourceType {
			return nil, fmt.Errorf("fakeCursor: column %d is %T, not %s", ordinal, v, sourceType)
		}
		return v, nil
	}, true
}

// fakeParam is a minimal driver.Parameter.
type fakeParam struct {
	name      string
	value     any
	dbType    int
	size      int
	precision int
	scale     int
	direction driver.ParameterDirection
}

func (p *fakeParam) Name() string { return p.name }
func (p *fakeParam) Value() any   { return p.value }
func (p *fakeParam) SetName(name string)                        { p.name = name }
func (p *fakeParam) SetValue(value any)                          { p.value = value }
func (p *fakeParam) SetDbType(code int)                          { p.dbType = code }
func (p *fakeParam) SetDirection(dir driver.ParameterDirection)  { p.direction = dir }
func (p *fakeParam) SetSize(size int)                            { p.size = size }
func (p *fakeParam) SetPrecisionScale(precision, scale int) {
	p.precision = precision
	p.scale = scale
}

// fakeParamCollection is a minimal driver.ParameterCollection, ordered
// and indexed by name like a real command's parameter list.
type fakeParamCollection struct {
	order  []*fakeParam
	byName map[string]*fakeParam
}

func newFakeParamCollection() *fakeParamCollection {
	return &fakeParamCollection{byName: make(map[string]*fakeParam)}
}

func (c *fakeParamCollection) Add(p driver.Parameter) {
	fp := p.(*fakeParam)
	c.order = append(c.order, fp)
	c.byName[fp.name] = fp
}

func (c *fakeParamCollection) Clear() {
	c.order = nil
	c.byName = make(map[string]*fakeParam)
}

func (c *fakeParamCollection) Get(name string) (driver.Parameter, bool) {
	p, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return p, true
}

// fakeCommand is a minimal driver.Command.
type fakeCommand struct {
	params *fakeParamCollection
}

func newFakeCommand() *fakeCommand {
	return &fakeCommand{params: newFakeParamCollection()}
}

func (c *fakeCommand) Parameters() driver.ParameterCollection { return c.params }
func (c *fakeCommand) CreateParameter() driver.Parameter       { return &fakeParam{} }
