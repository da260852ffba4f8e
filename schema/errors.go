package schema

import (
	"errors"
	"fmt"
)

// ErrMetadata is the general sentinel every MetadataError matches via
// errors.Is, regardless of the more specific kind below.
var ErrMetadata = errors.New("schema: metadata error")

// ErrDuplicateColumn is the specific sentinel wrapped by MetadataError
// when two attributes of one record type map to the same column name.
var ErrDuplicateColumn = errors.New("schema: duplicate mapped column name")

// ErrNotStruct is the specific sentinel wrapped by MetadataError when
// the type passed to Resolve or Precompile isn't a struct, or pointer
// to one.
var ErrNotStruct = errors.New("schema: not a struct type")

// MetadataError reports a problem discovered while building a
// RecordTypeInfo for a record type. It matches both ErrMetadata and its
// own specific kind via errors.Is, so callers can match at whichever
// granularity they need.
type MetadataError struct {
	TypeName string
	Reason   string
	kind     error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.TypeName, e.Reason)
}

func (e *MetadataError) Unwrap() error { return e.kind }

func (e *MetadataError) Is(target error) bool { return target == ErrMetadata }

// newDuplicateColumnError reports two attributes mapping to the same
// column name, which spec.md §4.1 treats as a build-time failure.
func newDuplicateColumnError(typeName, column, first, second string) *MetadataError {
	return &MetadataError{
		TypeName: typeName,
		Reason:   fmt.Sprintf("attributes %q and %q both map to column %q", first, second, column),
		kind: ErrDuplicateColumn,
	}
}

func newNotStructError(typeName string) *MetadataError {
	return &MetadataError{TypeName: typeName, Reason: "not a struct type", kind: ErrNotStruct}
}
