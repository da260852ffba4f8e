package plan_test

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/plan"
)

type recordPerson struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func TestCompileRowToRecordMatchesSubsetOfColumns(t *testing.T) {
	// A 3-column cursor against a 2-attribute record: the third column
	// (extra) must simply be ignored, not cause an error.
	cur := newFakeCursor(
		[]string{"id", "name", "extra"},
		[][]any{{int64(1), "Ada", "unused"}},
		reflect.TypeOf(int64(0)), reflect.TypeOf(""),
	)
	require.True(t, cur.Next())

	schemaFields := plan.SnapshotReaderFields(cur)
	scan, err := plan.CompileRowToRecord[recordPerson](schemaFields, nil)
	require.NoError(t, err)

	rec, err := scan(cur)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "Ada", rec.Name)
}

func TestCompileRowToRecordZeroMatchFails(t *testing.T) {
	type unrelated struct {
		Foo string `db:"foo"`
	}

	cur := newFakeCursor(
		[]string{"id", "name"},
		[][]any{{int64(1), "Ada"}},
		reflect.TypeOf(int64(0)), reflect.TypeOf(""),
	)
	require.True(t, cur.Next())

	schemaFields := plan.SnapshotReaderFields(cur)
	_, err := plan.CompileRowToRecord[unrelated](schemaFields, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, plan.ErrNoMatchedFields)
}

type recordWithNullable struct {
	ID       int64   `db:"id"`
	Nickname *string `db:"nickname"`
}

func TestCompileRowToRecordNullColumnAssignsDefault(t *testing.T) {
	cur := newFakeCursor(
		[]string{"id", "nickname"},
		[][]any{{int64(1), nil}},
		reflect.TypeOf(int64(0)), reflect.TypeOf(""),
	)
	require.True(t, cur.Next())

	schemaFields := plan.SnapshotReaderFields(cur)
	scan, err := plan.CompileRowToRecord[recordWithNullable](schemaFields, []dbtype.DbField{
		{Name: "id"},
		{Name: "nickname", Nullable: true},
	})
	require.NoError(t, err)

	rec, err := scan(cur)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.Nil(t, rec.Nickname)
}

func TestCompileRowToRecordNonNullPopulatesNullable(t *testing.T) {
	cur := newFakeCursor(
		[]string{"id", "nickname"},
		[][]any{{int64(1), "Gracie"}},
		reflect.TypeOf(int64(0)), reflect.TypeOf(""),
	)
	require.True(t, cur.Next())

	schemaFields := plan.SnapshotReaderFields(cur)
	scan, err := plan.CompileRowToRecord[recordWithNullable](schemaFields, []dbtype.DbField{
		{Name: "id"},
		{Name: "nickname", Nullable: true},
	})
	require.NoError(t, err)

	rec, err := scan(cur)
	require.NoError(t, err)
	require.NotNil(t, rec.Nickname)
	assert.Equal(t, "Gracie", *rec.Nickname)
}

type recordWithSQLNullable struct {
	ID       int64        `db:"id"`
	ClosedAt sql.NullTime `db:"closed_at"`
}

func TestCompileRowToRecordSQLNullWrapperNonNull(t *testing.T) {
	closedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cur := newFakeCursor(
		[]string{"id", "closed_at"},
		[][]any{{int64(1), closedAt}},
		reflect.TypeOf(int64(0)), reflect.TypeOf(time.Time{}),
	)
	require.True(t, cur.Next())

	schemaFields := plan.SnapshotReaderFields(cur)
	scan, err := plan.CompileRowToRecord[recordWithSQLNullable](schemaFields, []dbtype.DbField{
		{Name: "id"},
		{Name: "closed_at", Nullable: true},
	})
	require.NoError(t, err)

	rec, err := scan(cur)
	require.NoError(t, err)
	require.True(t, rec.ClosedAt.Valid)
	assert.True(t, closedAt.Equal(rec.ClosedAt.Time))
}

func TestCompileRowToRecordSQLNullWrapperNull(t *testing.T) {
	cur := newFakeCursor(
		[]string{"id", "closed_at"},
		[][]any{{int64(1), nil}},
		reflect.TypeOf(int64(0)), reflect.TypeOf(time.Time{}),
	)
	require.True(t, cur.Next())

	schemaFields := plan.SnapshotReaderFields(cur)
	scan, err := plan.CompileRowToRecord[recordWithSQLNullable](schemaFields, []dbtype.DbField{
		{Name: "id"},
		{Name: "closed_at", Nullable: true},
	})
	require.NoError(t, err)

	rec, err := scan(cur)
	require.NoError(t, err)
	assert.False(t, rec.ClosedAt.Valid)
}

func TestCompileRowToRecordIsRepeatable(t *testing.T) {
	cur := newFakeCursor(
		[]string{"id", "name"},
		[][]any{{int64(1), "Ada"}, {int64(2), "Grace"}},
		reflect.TypeOf(int64(0)), reflect.TypeOf(""),
	)
	require.True(t, cur.Next())
	schemaFields := plan.SnapshotReaderFields(cur)

	scanA, err := plan.CompileRowToRecord[recordPerson](schemaFields, nil)
	require.NoError(t, err)
	scanB, err := plan.CompileRowToRecord[recordPerson](schemaFields, nil)
	require.NoError(t, err)

	a, err := scanA(cur)
	require.NoError(t, err)
	require.True(t, cur.Next())
	b, err := scanB(cur)
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}
