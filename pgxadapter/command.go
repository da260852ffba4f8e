package pgxadapter

import (
	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/driver"
)

// Parameter adapts one bound value to driver.Parameter. pgx has no
// parameter-object concept of its own (it takes a positional []any), so
// this just accumulates the fields the emitter sets and Command.Args
// flattens them back to a positional slice in Add order.
type Parameter struct {
	name      string
	value     any
	dbType    int
	hasSize   bool
	size      int
	precision int
	scale     int
	direction driver.ParameterDirection
}

func (p *Parameter) Name() string  { return p.name }
func (p *Parameter) Value() any    { return p.value }
func (p *Parameter) SetName(name string)                  { p.name = name }
func (p *Parameter) SetValue(value any)                    { p.value = value }
func (p *Parameter) SetDbType(code int)                    { p.dbType = code }
func (p *Parameter) SetDirection(dir driver.ParameterDirection) { p.direction = dir }
func (p *Parameter) SetSize(size int) {
	p.hasSize = true
	p.size = size
}
func (p *Parameter) SetPrecisionScale(precision, scale int) {
	p.precision = precision
	p.scale = scale
}

// DbType returns the resolved database type code as a dbtype.DbType.
func (p *Parameter) DbType() dbtype.DbType { return dbtype.DbType(p.dbType) }

// ParameterCollection is an ordered, by-name-indexed list of Parameters,
// matching spec.md §6's "add, clear, indexer by name" contract.
type ParameterCollection struct {
	order []*Parameter
	byName map[string]*Parameter
}

func newParameterCollection() *ParameterCollection {
	return &ParameterCollection{byName: make(map[string]*Parameter)}
}

func (c *ParameterCollection) Add(p driver.Parameter) {
	pp, ok := p.(*Parameter)
	if !ok {
		pp = &Parameter{name: p.Name(), value: p.Value()}
	}
	c.order = append(c.order, pp)
	c.byName[pp.name] = pp
}

func (c *ParameterCollection) Clear() {
	c.order = c.order[:0]
	for k := range c.byName {
		delete(c.byName, k)
	}
}

func (c *ParameterCollection) Get(name string) (driver.Parameter, bool) {
	p, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return p, true
}

// Ordered returns the parameters in Add order, for callers building a
// positional argument list (pgx takes args by position, not by name).
func (c *ParameterCollection) Ordered() []*Parameter {
	return c.order
}

// Command adapts a pgx-bound invocation to driver.Command.
type Command struct {
	params *ParameterCollection
}

// NewCommand creates an empty Command.
func NewCommand() *Command {
	return &Command{params: newParameterCollection()}
}

func (c *Command) Parameters() driver.ParameterCollection { return c.params }

func (c *Command) CreateParameter() driver.Parameter { return &Parameter{} }

// Args flattens the command's parameters, in Add order, to the
// positional slice pgx.Conn/Pool.Exec/Query expects. Output-direction
// parameters (read back by CompileParamToAttr after execution, not
// meant to be sent as SQL arguments) are skipped.
func (c *Command) Args() []any {
	args := make([]any, 0, len(c.params.order))
	for _, p := range c.params.order {
		if p.direction == driver.DirectionOutput {
			continue
		}
		args = append(args, p.value)
	}
	return args
}
