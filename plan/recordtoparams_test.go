package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/plan"
)

type paramsRecord struct {
	ID    int64    `db:"id"`
	Name  string   `db:"name"`
	Score *float64 `db:"score"`
}

func TestCompileRecordToParamsCountMatchesFields(t *testing.T) {
	fields := []dbtype.DbField{{Name: "id"}, {Name: "name"}, {Name: "score", Nullable: true}}

	apply, err := plan.CompileRecordToParams[paramsRecord](fields)
	require.NoError(t, err)

	cmd := newFakeCommand()
	require.NoError(t, apply(paramsRecord{ID: 1, Name: "Ada"}, cmd))

	assert.Len(t, cmd.params.order, len(fields))

	idParam, ok := cmd.params.Get("id")
	require.True(t, ok)
	assert.Equal(t, int64(1), idParam.Value())

	scoreParam, ok := cmd.params.Get("score")
	require.True(t, ok)
	assert.Nil(t, scoreParam.Value())
}

func TestCompileRecordToParamsClearsPriorParameters(t *testing.T) {
	fields := []dbtype.DbField{{Name: "id"}}
	apply, err := plan.CompileRecordToParams[paramsRecord](fields)
	require.NoError(t, err)

	cmd := newFakeCommand()
	cmd.params.Add(&fakeParam{name: "leftover", value: "x"})

	require.NoError(t, apply(paramsRecord{ID: 9}, cmd))

	_, leftoverStillThere := cmd.params.Get("leftover")
	assert.False(t, leftoverStillThere, "opClearParams must wipe prior parameters before emitting new ones")
}

type nonNullableAnyRecord struct {
	ID   int64 `db:"id"`
	Data any   `db:"data"`
}

func TestCompileRecordToParamsNilNonNullableFails(t *testing.T) {
	// Data is a plain `any` field: not a pointer and not a Null* wrapper,
	// so its attribute is not flagged nullable, but its zero value is a
	// literal nil interface.
	fields := []dbtype.DbField{{Name: "id"}, {Name: "data"}}
	apply, err := plan.CompileRecordToParams[nonNullableAnyRecord](fields)
	require.NoError(t, err)

	cmd := newFakeCommand()
	err = apply(nonNullableAnyRecord{ID: 1}, cmd)
	assert.Error(t, err)
}

func TestCompileRecordToParamsZeroMatchFails(t *testing.T) {
	fields := []dbtype.DbField{{Name: "nonexistent_column"}}
	_, err := plan.CompileRecordToParams[paramsRecord](fields)
	require.Error(t, err)
	assert.ErrorIs(t, err, plan.ErrNoMatchedFields)
}

func TestCompileRecordToParamsDynamicRecord(t *testing.T) {
	fields := []dbtype.DbField{{Name: "id"}, {Name: "name", Nullable: true}}
	apply, err := plan.CompileRecordToParams[map[string]any](fields)
	require.NoError(t, err)

	cmd := newFakeCommand()
	require.NoError(t, apply(map[string]any{"id": int64(5), "name": "Ada"}, cmd))

	idParam, ok := cmd.params.Get("id")
	require.True(t, ok)
	assert.Equal(t, int64(5), idParam.Value())
}
