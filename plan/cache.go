package plan

import (
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/latticedb/rowmap/dbtype"
	"github.com/latticedb/rowmap/internal/fingerprint"
	"github.com/latticedb/rowmap/internal/obslog"
)

// cacheKey identifies one compiled Program: a record type plus a
// fingerprint of the reader/field shape it was built against. Two rows
// of the same record type but a different column set (different
// query, different SELECT list) get different keys, per spec.md §4.5's
// "keyed tuples" requirement.
type cacheKey struct {
	recordType reflect.Type
	shape      uint64
}

// Cache is the Accessor Cache: compiled Programs, keyed by (record
// type, shape), shared process-wide and never invalidated within a
// process (spec.md §4.5) — a clear() of the Handler Registry does not
// evict anything here (§3 ownership note).
type Cache struct {
	mu   sync.RWMutex
	data map[cacheKey]Program
}

// NewCache creates an empty accessor Cache. Most callers use the
// package-level Default Cache instead.
func NewCache() *Cache {
	return &Cache{data: make(map[cacheKey]Program)}
}

// GetOrBuild returns the cached Program for (recordType, shape),
// building it with build if absent. The double-checked idiom matches
// spec.md §5's cache-fill discipline: a read-locked fast path, then a
// re-check under the write lock before synthesizing.
func (c *Cache) GetOrBuild(recordType reflect.Type, shape uint64, build func() (Program, error)) (Program, error) {
	key := cacheKey{recordType: recordType, shape: shape}

	c.mu.RLock()
	if prog, ok := c.data[key]; ok {
		c.mu.RUnlock()
		return prog, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if prog, ok := c.data[key]; ok {
		return prog, nil
	}

	prog, err := build()
	if err != nil {
		obslog.Logger.Error().Err(err).Str("type", recordType.String()).Msg("plan: accessor compile failed")
		return nil, err
	}
	c.data[key] = prog
	return prog, nil
}

// Default is the process-wide accessor Cache backing the Compile*
// entry points' internal memoization.
var Default = NewCache()

// ShapeOf fingerprints a reader shape: the ordered (name, source type)
// pairs a cursor snapshot exposes. Used as the shape half of a cache
// key for row-reading accessors.
func ShapeOf(fields []ReaderFieldDef) uint64 {
	s := fingerprint.NewShape()
	for _, f := range fields {
		s.Add(f.Name).Add(f.SourceType.String())
	}
	return s.Sum()
}

// FieldShapeOf fingerprints an ordered list of DbFields: name,
// nullability, and declared type. Used as the shape half of a cache
// key for parameter-emitting accessors.
func FieldShapeOf(fields []dbtype.DbField) uint64 {
	s := fingerprint.NewShape()
	for _, f := range fields {
		s.Add(dbtype.UnquotedName(f.Name)).AddBool(f.Nullable)
		if f.Type != nil {
			s.Add(f.Type.String())
		} else {
			s.Add("")
		}
	}
	return s.Sum()
}

// boundedLRUSize is the capacity of the fallback, size-bounded tier an
// embedding application can opt into via NewBoundedCache instead of the
// unbounded Default.
const boundedLRUSize = 1024

// boundedCache is an alternative Cache implementation backed by an LRU
// instead of an unbounded map, for long-running processes that compile
// accessors against many distinct ad hoc shapes (e.g. dynamically
// generated SELECT lists) and want a bound on retained Programs.
type boundedCache struct {
	lru *lru.Cache[cacheKey, Program]
}

// NewBoundedCache creates a Cache-shaped accessor store backed by an
// LRU of the given size. size <= 0 selects boundedLRUSize.
func NewBoundedCache(size int) *BoundedCache {
	if size <= 0 {
		size = boundedLRUSize
	}
	c, err := lru.New[cacheKey, Program](size)
	if err != nil {
		panic(err)
	}
	return &BoundedCache{inner: &boundedCache{lru: c}}
}

// BoundedCache wraps an LRU-backed accessor store behind the same
// GetOrBuild shape as Cache.
type BoundedCache struct {
	mu    sync.Mutex
	inner *boundedCache
}

func (c *BoundedCache) GetOrBuild(recordType reflect.Type, shape uint64, build func() (Program, error)) (Program, error) {
	key := cacheKey{recordType: recordType, shape: shape}

	if prog, ok := c.inner.lru.Get(key); ok {
		return prog, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prog, ok := c.inner.lru.Get(key); ok {
		return prog, nil
	}

	prog, err := build()
	if err != nil {
		obslog.Logger.Error().Err(err).Str("type", recordType.String()).Msg("plan: accessor compile failed")
		return nil, err
	}
	c.inner.lru.Add(key, prog)
	return prog, nil
}
