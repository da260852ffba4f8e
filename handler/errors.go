package handler

import (
	"errors"
	"fmt"
)

// ErrMappingExists is the sentinel wrapped by MappingExistsError.
var ErrMappingExists = errors.New("handler: mapping already exists")

// MappingExistsError reports a Register/RegisterAttribute call that
// would overwrite an existing handler without force=true.
type MappingExistsError struct {
	TypeName  string
	Attribute string // empty for a type-level registration
}

func (e *MappingExistsError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("handler: %s already has a registered handler", e.TypeName)
	}
	return fmt.Sprintf("handler: %s.%s already has a registered handler", e.TypeName, e.Attribute)
}

func (e *MappingExistsError) Unwrap() error { return ErrMappingExists }
