package schema

import (
	"reflect"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/latticedb/rowmap/internal/obslog"
)

// Introspector is the Type & Property Cache entry point: it resolves
// and memoizes RecordTypeInfo per record type, per spec.md §3 ("first
// use of a record type builds and caches its metadata; subsequent uses
// of the same type reuse the cached metadata without reflection").
//
// Three tiers, checked in order, mirroring the teacher's introspection
// strategy: a precompiled map for types registered ahead of time via
// Precompile, an LRU for types discovered at runtime, and a cold build
// when neither has it yet.
type Introspector struct {
	naming NamingStrategy
	tags   *TagParser

	precompiledMu sync.RWMutex
	precompiled   map[reflect.Type]*RecordTypeInfo

	lru *lru.Cache[reflect.Type, *RecordTypeInfo]

	buildMu sync.Mutex
}

// DefaultLRUSize is the runtime-discovered tier's capacity when none is
// given to NewIntrospector, matching config.Config's default CacheSize.
const DefaultLRUSize = 256

// NewIntrospector creates an Introspector using naming for default
// column/table name derivation. lruSize <= 0 selects DefaultLRUSize.
func NewIntrospector(naming NamingStrategy, lruSize int) *Introspector {
	if lruSize <= 0 {
		lruSize = DefaultLRUSize
	}
	cache, err := lru.NewWithEvict[reflect.Type, *RecordTypeInfo](lruSize, func(t reflect.Type, _ *RecordTypeInfo) {
		obslog.Logger.Debug().Str("type", t.String()).Msg("schema: metadata evicted from introspector cache")
	})
	if err != nil {
		// Only possible for a non-positive size, already guarded above.
		panic(err)
	}
	return &Introspector{
		naming:      naming,
		tags:        NewTagParser(naming),
		precompiled: make(map[reflect.Type]*RecordTypeInfo),
		lru:         cache,
	}
}

// Resolve returns t's RecordTypeInfo, building and caching it on first
// use. t may be a struct type or a pointer to one; the cache key is
// always the dereferenced struct type.
func (in *Introspector) Resolve(t reflect.Type) (*RecordTypeInfo, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	in.precompiledMu.RLock()
	if info, ok := in.precompiled[t]; ok {
		in.precompiledMu.RUnlock()
		return info, nil
	}
	in.precompiledMu.RUnlock()

	if info, ok := in.lru.Get(t); ok {
		return info, nil
	}

	in.buildMu.Lock()
	defer in.buildMu.Unlock()

	// Re-check under the build lock: another goroutine may have built
	// this type's metadata while we were waiting.
	if info, ok := in.lru.Get(t); ok {
		return info, nil
	}

	info, err := buildRecordTypeInfo(t, in.naming, in.tags)
	if err != nil {
		obslog.Logger.Error().Err(err).Str("type", t.String()).Msg("schema: metadata build failed")
		return nil, err
	}

	in.lru.Add(t, info)
	return info, nil
}

// Precompile builds and permanently registers RecordTypeInfo for each
// given type, bypassing the LRU tier entirely so these types can never
// be evicted. Intended for startup-time warmup of a known, fixed set of
// record types.
func (in *Introspector) Precompile(types ...reflect.Type) error {
	built := make(map[reflect.Type]*RecordTypeInfo, len(types))

	for _, t := range types {
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		info, err := buildRecordTypeInfo(t, in.naming, in.tags)
		if err != nil {
			return err
		}
		built[t] = info
	}

	in.precompiledMu.Lock()
	defer in.precompiledMu.Unlock()
	for t, info := range built {
		in.precompiled[t] = info
	}
	return nil
}

// Forget removes t's cached metadata from the runtime-discovered tier.
// It has no effect on precompiled types. Useful in tests that rebuild
// metadata for the same type under different tag configurations.
func (in *Introspector) Forget(t reflect.Type) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	in.lru.Remove(t)
}
