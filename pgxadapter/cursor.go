// Package pgxadapter implements driver.Cursor and driver.Command over
// jackc/pgx/v5, the teacher's primary driver dependency (database/pgx.go),
// as a worked example of wiring a concrete driver to the reflective core.
package pgxadapter

import (
	"errors"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/latticedb/rowmap/driver"
)

// ErrNoCurrentRow is returned by Value and by the typed getters before
// the first Next call or after Next has returned false (IsNull reports
// true in that state).
var ErrNoCurrentRow = errors.New("pgxadapter: no current row")

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Cursor adapts pgx.Rows to driver.Cursor. Grounded on the teacher's
// PgxRows (database/pgx.go), generalized from database/sql.Rows-style
// column/Scan access to the typed-getter registration table driver.Cursor
// requires.
type Cursor struct {
	rows    pgx.Rows
	fds     []pgconn.FieldDescription
	current []any
	getters map[reflect.Type]func(ordinal int) (any, error)
}

// NewCursor wraps rows. The typed-getter table is built once per Cursor,
// not per row, matching spec.md §6's "registers readers once" contract.
func NewCursor(rows pgx.Rows) *Cursor {
	c := &Cursor{rows: rows}
	c.getters = c.buildTypedGetters()
	return c
}

// Next advances to the next row, snapshotting its values for the
// duration of this row (pgx.Rows.Values() is only valid between calls
// to Next).
func (c *Cursor) Next() bool {
	if !c.rows.Next() {
		c.current = nil
		return false
	}
	values, err := c.rows.Values()
	if err != nil {
		c.current = nil
		return false
	}
	c.current = values
	return true
}

// Close releases the underlying pgx.Rows.
func (c *Cursor) Close() { c.rows.Close() }

// Err returns the error, if any, that stopped iteration.
func (c *Cursor) Err() error { return c.rows.Err() }

func (c *Cursor) fieldDescriptions() []pgconn.FieldDescription {
	if c.fds == nil {
		c.fds = c.rows.FieldDescriptions()
	}
	return c.fds
}

func (c *Cursor) FieldCount() int { return len(c.fieldDescriptions()) }

func (c *Cursor) Name(ordinal int) string {
	return string(c.fieldDescriptions()[ordinal].Name)
}

// FieldType reports the current row's Go value type at ordinal. pgx
// decodes directly to Go-native types, so the current row's dynamic
// type is a truthful source type; a null value (typed nil) falls back
// to the empty interface type, matching pgx's own untyped-nil Values().
func (c *Cursor) FieldType(ordinal int) reflect.Type {
	if c.current != nil && ordinal < len(c.current) && c.current[ordinal] != nil {
		return reflect.TypeOf(c.current[ordinal])
	}
	return anyType
}

func (c *Cursor) IsNull(ordinal int) bool {
	return c.current == nil || ordinal >= len(c.current) || c.current[ordinal] == nil
}

func (c *Cursor) Value(ordinal int) (any, error) {
	if c.current == nil {
		return nil, ErrNoCurrentRow
	}
	return c.current[ordinal], nil
}

func (c *Cursor) TypedGetter(sourceType reflect.Type) (func(ordinal int) (any, error), bool) {
	getter, ok := c.getters[sourceType]
	return getter, ok
}

// buildTypedGetters registers one reader per Go type pgx commonly
// decodes to. Each reader type-asserts the already-fetched row value;
// a mismatch (the column turned out to be a different concrete type
// than requested) returns a nil value and a typeMismatchError, which a
// compiled accessor surfaces as a column read error.
func (c *Cursor) buildTypedGetters() map[reflect.Type]func(int) (any, error) {
	assert := func(t reflect.Type) func(int) (any, error) {
		return func(ordinal int) (any, error) {
			if c.current == nil || ordinal >= len(c.current) {
				return nil, ErrNoCurrentRow
			}
			v := c.current[ordinal]
			if v == nil {
				return nil, nil
			}
			rv := reflect.ValueOf(v)
			if !rv.Type().AssignableTo(t) {
				return nil, errNotAssignable(rv.Type(), t)
			}
			return v, nil
		}
	}

	return map[reflect.Type]func(int) (any, error){
		reflect.TypeOf(""):          assert(reflect.TypeOf("")),
		reflect.TypeOf(int64(0)):    assert(reflect.TypeOf(int64(0))),
		reflect.TypeOf(int32(0)):    assert(reflect.TypeOf(int32(0))),
		reflect.TypeOf(int16(0)):    assert(reflect.TypeOf(int16(0))),
		reflect.TypeOf(float64(0)):  assert(reflect.TypeOf(float64(0))),
		reflect.TypeOf(float32(0)):  assert(reflect.TypeOf(float32(0))),
		reflect.TypeOf(false):       assert(reflect.TypeOf(false)),
		reflect.TypeOf(time.Time{}): assert(reflect.TypeOf(time.Time{})),
		reflect.TypeOf([]byte(nil)): assert(reflect.TypeOf([]byte(nil))),
	}
}

func errNotAssignable(from, to reflect.Type) error {
	return &typeMismatchError{from: from, to: to}
}

type typeMismatchError struct {
	from, to reflect.Type
}

func (e *typeMismatchError) Error() string {
	return "pgxadapter: column value of type " + e.from.String() + " is not assignable to " + e.to.String()
}
