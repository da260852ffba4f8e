package handler_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/handler"
)

type widget struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

func TestRegistryRemoveTypeLevel(t *testing.T) {
	reg := handler.NewRegistry()
	require.NoError(t, reg.Register(typeOf[widget](), statusHandler{}, false))

	reg.Remove(typeOf[widget]())

	_, ok := reg.Lookup(typeOf[widget]())
	assert.False(t, ok)
}

func TestRegistryRemoveAttributeLevel(t *testing.T) {
	reg := handler.NewRegistry()
	require.NoError(t, reg.RegisterAttribute(typeOf[widget](), handler.ByName("Name"), statusHandler{}, false))

	reg.Remove(typeOf[widget](), "Name")

	_, ok := reg.LookupAttribute(typeOf[widget](), "Name")
	assert.False(t, ok)
}

func TestRegistryRemoveAbsentKeyIsNoop(t *testing.T) {
	reg := handler.NewRegistry()
	assert.NotPanics(t, func() {
		reg.Remove(typeOf[widget]())
		reg.Remove(typeOf[widget](), "Nonexistent")
	})
}

func TestRegistryClearDropsEverything(t *testing.T) {
	reg := handler.NewRegistry()
	require.NoError(t, reg.Register(typeOf[widget](), statusHandler{}, false))
	require.NoError(t, reg.RegisterAttribute(typeOf[widget](), handler.ByName("Name"), statusHandler{}, false))

	reg.Clear()

	_, typeOk := reg.Lookup(typeOf[widget]())
	_, attrOk := reg.LookupAttribute(typeOf[widget](), "Name")
	assert.False(t, typeOk)
	assert.False(t, attrOk)
}

func TestRegistryByFieldSelectorResolvesByColumn(t *testing.T) {
	reg := handler.NewRegistry()
	err := reg.RegisterAttribute(typeOf[widget](), handler.ByField(dbtype.DbField{Name: "name"}), statusHandler{}, false)
	require.NoError(t, err)

	_, ok := reg.LookupAttribute(typeOf[widget](), "Name")
	assert.True(t, ok)
}

func TestRegistryByFieldSelectorUnknownColumnFails(t *testing.T) {
	reg := handler.NewRegistry()
	err := reg.RegisterAttribute(typeOf[widget](), handler.ByField(dbtype.DbField{Name: "nope"}), statusHandler{}, false)
	assert.Error(t, err)
}

func TestRegistryPointerTypeDereferencedOnRegistration(t *testing.T) {
	reg := handler.NewRegistry()
	require.NoError(t, reg.Register(typeOf[widget](), statusHandler{}, false))

	ptrType := reflect.TypeOf((*widget)(nil))
	h, ok := reg.Lookup(ptrType)
	require.True(t, ok)
	assert.NotNil(t, h)
}

func TestDefaultRegistryPackageLevelFunctions(t *testing.T) {
	defer handler.Clear()

	require.NoError(t, handler.Register(typeOf[widget](), statusHandler{}, false))
	h, ok := handler.Lookup(typeOf[widget]())
	require.True(t, ok)
	assert.NotNil(t, h)

	handler.Remove(typeOf[widget]())
	_, ok = handler.Lookup(typeOf[widget]())
	assert.False(t, ok)
}

func TestRegistryConcurrentLookup(t *testing.T) {
	reg := handler.NewRegistry()
	require.NoError(t, reg.Register(typeOf[widget](), statusHandler{}, false))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = reg.Lookup(typeOf[widget]())
		}()
	}
	wg.Wait()
}
