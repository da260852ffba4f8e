package plan_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/plan"
)

type valueTarget struct {
	ID       int64   `db:"id"`
	Nickname *string `db:"nickname"`
}

func TestCompileValueToAttrDirectAssignment(t *testing.T) {
	write, err := plan.CompileValueToAttr(dbtype.DbField{Name: "id", Type: reflect.TypeOf(int64(0))})
	require.NoError(t, err)

	rec := &valueTarget{}
	require.NoError(t, write(rec, int64(7)))
	assert.Equal(t, int64(7), rec.ID)
}

func TestCompileValueToAttrNoDeclaredTypeFallsBackToAttribute(t *testing.T) {
	write, err := plan.CompileValueToAttr(dbtype.DbField{Name: "id"})
	require.NoError(t, err)

	rec := &valueTarget{}
	require.NoError(t, write(rec, int64(3)))
	assert.Equal(t, int64(3), rec.ID)
}

func TestCompileValueToAttrWrapsNullablePointer(t *testing.T) {
	write, err := plan.CompileValueToAttr(dbtype.DbField{Name: "nickname", Type: reflect.TypeOf("")})
	require.NoError(t, err)

	rec := &valueTarget{}
	require.NoError(t, write(rec, "Ada"))
	require.NotNil(t, rec.Nickname)
	assert.Equal(t, "Ada", *rec.Nickname)
}

func TestCompileValueToAttrUnmappedColumnFails(t *testing.T) {
	write, err := plan.CompileValueToAttr(dbtype.DbField{Name: "nonexistent"})
	require.NoError(t, err)

	rec := &valueTarget{}
	err = write(rec, "x")
	assert.Error(t, err)
}
