package handler_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/driver"
	"github.com/latticedb/rowmap/handler"
	"github.com/latticedb/rowmap/plan"
)

// handlerTicket reuses the Status enum and statusHandler defined in
// example_enum_test.go, but here it is read and written through the
// Accessor Emitter rather than called directly, proving a handler
// registered in the process-wide Default registry actually reaches a
// compiled accessor.
type handlerTicket struct {
	ID     int64  `db:"id"`
	Status Status `db:"status"`
}

type planFakeCursor struct {
	names []string
	row   []any
}

func (c *planFakeCursor) Next() bool                   { return false }
func (c *planFakeCursor) FieldCount() int              { return len(c.names) }
func (c *planFakeCursor) Name(ordinal int) string      { return c.names[ordinal] }
func (c *planFakeCursor) FieldType(ordinal int) reflect.Type {
	return reflect.TypeOf(c.row[ordinal])
}
func (c *planFakeCursor) IsNull(ordinal int) bool { return c.row[ordinal] == nil }
func (c *planFakeCursor) Value(ordinal int) (any, error) {
	return c.row[ordinal], nil
}
func (c *planFakeCursor) TypedGetter(reflect.Type) (func(ordinal int) (any, error), bool) {
	return nil, false
}

type planFakeParam struct {
	name      string
	value     any
	direction driver.ParameterDirection
}

func (p *planFakeParam) Name() string { return p.name }
func (p *planFakeParam) Value() any   { return p.value }
func (p *planFakeParam) SetName(name string)                       { p.name = name }
func (p *planFakeParam) SetValue(value any)                        { p.value = value }
func (p *planFakeParam) SetDbType(int)                              {}
func (p *planFakeParam) SetDirection(dir driver.ParameterDirection) { p.direction = dir }
func (p *planFakeParam) SetSize(int)                                {}
func (p *planFakeParam) SetPrecisionScale(int, int)                  {}

type planFakeParamCollection struct {
	byName map[string]*planFakeParam
}

func newPlanFakeParamCollection() *planFakeParamCollection {
	return &planFakeParamCollection{byName: make(map[string]*planFakeParam)}
}

func (c *planFakeParamCollection) Add(p driver.Parameter) {
	fp := p.(*planFakeParam)
	c.byName[fp.name] = fp
}
func (c *planFakeParamCollection) Clear() { c.byName = make(map[string]*planFakeParam) }
func (c *planFakeParamCollection) Get(name string) (driver.Parameter, bool) {
	p, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return p, true
}

type planFakeCommand struct {
	params *planFakeParamCollection
}

func newPlanFakeCommand() *planFakeCommand {
	return &planFakeCommand{params: newPlanFakeParamCollection()}
}

func (c *planFakeCommand) Parameters() driver.ParameterCollection { return c.params }
func (c *planFakeCommand) CreateParameter() driver.Parameter      { return &planFakeParam{} }

func TestCompiledAccessorsUseRegisteredHandler(t *testing.T) {
	defer handler.Clear()
	require.NoError(t, handler.Register(typeOf[Status](), statusHandler{}, false))

	cur := &planFakeCursor{names: []string{"id", "status"}, row: []any{int64(1), int64(1)}}
	read, err := plan.CompileRowToRecord[handlerTicket](plan.SnapshotReaderFields(cur), nil)
	require.NoError(t, err)

	rec, err := read(cur)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, rec.Status, "compiled read accessor must run the registered handler's TransformIn")

	write, err := plan.CompileRecordToParams[handlerTicket]([]dbtype.DbField{{Name: "id"}, {Name: "status"}})
	require.NoError(t, err)

	cmd := newPlanFakeCommand()
	require.NoError(t, write(handlerTicket{ID: 2, Status: StatusClosed}, cmd))

	statusParam, ok := cmd.params.Get("status")
	require.True(t, ok)
	assert.Equal(t, int64(2), statusParam.Value(), "compiled write accessor must run the registered handler's TransformOut")
}
