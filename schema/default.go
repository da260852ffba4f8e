package schema

import "reflect"

// defaultIntrospector is the process-wide cache used by the
// package-level Resolve and Precompile functions. Applications that
// need a non-default cache size or naming strategy can construct their
// own Introspector instead.
var defaultIntrospector = NewIntrospector(DefaultNamingStrategy(), DefaultLRUSize)

// Resolve returns t's RecordTypeInfo from the default, process-wide
// Introspector, building and caching it on first use.
func Resolve(t reflect.Type) (*RecordTypeInfo, error) {
	return defaultIntrospector.Resolve(t)
}

// Precompile builds and permanently registers RecordTypeInfo for T in
// the default Introspector, so T's metadata is never evicted.
func Precompile[T any]() error {
	var zero T
	return defaultIntrospector.Precompile(reflect.TypeOf(zero))
}

// SetDefaultNaming replaces the default Introspector with a fresh one
// using naming and lruSize. Metadata cached by the previous one,
// precompiled types included, is discarded, so every type is rebuilt
// under the new strategy on its next Resolve. RecordTypeInfo values
// already handed out are not changed.
func SetDefaultNaming(naming NamingStrategy, lruSize int) {
	defaultIntrospector = NewIntrospector(naming, lruSize)
}
