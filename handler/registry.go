package handler

import (
	"reflect"
	"sync"

	"github.com/latticedb/rowmap/schema"
)

type attributeKey struct {
	recordType reflect.Type
	attribute  string
}

// Registry is the process-wide Handler Registry of spec.md §4.2: a
// type-level map and an attribute-level map, both guarded by their own
// RWMutex per §5's locking discipline (reads lock-free or read-locked,
// writes serialized).
//
// Registry stores object references; a handler's transform contract is
// never inspected at registration time. Compiled accessors borrow
// handler references at emission time and are not retroactively
// affected by later Register/Remove/Clear calls on this registry (see
// the Handler field of plan.Op).
type Registry struct {
	typeMu sync.RWMutex
	types  map[reflect.Type]Handler

	attrMu sync.RWMutex
	attrs  map[attributeKey]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[reflect.Type]Handler),
		attrs: make(map[attributeKey]Handler),
	}
}

// Register attaches h to targetType: the emitter applies it to every
// attribute whose underlying type is targetType and that has no more
// specific attribute-level handler. Fails with
// MappingExistsError unless force is true or targetType has no handler
// yet.
func (r *Registry) Register(targetType reflect.Type, h Handler, force bool) error {
	targetType = deref(targetType)

	r.typeMu.Lock()
	defer r.typeMu.Unlock()

	if _, exists := r.types[targetType]; exists && !force {
		return &MappingExistsError{TypeName: targetType.String()}
	}
	r.types[targetType] = h
	return nil
}

// RegisterAttribute attaches h to one attribute of recordType, selected
// by selector. Fails with MappingExistsError unless force is true or
// the attribute has no handler yet.
func (r *Registry) RegisterAttribute(recordType reflect.Type, selector AttributeSelector, h Handler, force bool) error {
	recordType = deref(recordType)

	info, err := schema.Resolve(recordType)
	if err != nil {
		return err
	}
	attrName, err := selector.resolve(info)
	if err != nil {
		return err
	}

	key := attributeKey{recordType: recordType, attribute: attrName}

	r.attrMu.Lock()
	defer r.attrMu.Unlock()

	if _, exists := r.attrs[key]; exists && !force {
		return &MappingExistsError{TypeName: recordType.String(), Attribute: attrName}
	}
	r.attrs[key] = h
	return nil
}

// Lookup returns recordType's type-level handler, if any.
func (r *Registry) Lookup(recordType reflect.Type) (Handler, bool) {
	recordType = deref(recordType)
	r.typeMu.RLock()
	defer r.typeMu.RUnlock()
	h, ok := r.types[recordType]
	return h, ok
}

// LookupAttribute returns the handler registered for the named
// attribute of recordType. attributeName must be the attribute's
// canonical (Go struct field) name, matched case-sensitively.
func (r *Registry) LookupAttribute(recordType reflect.Type, attributeName string) (Handler, bool) {
	recordType = deref(recordType)
	r.attrMu.RLock()
	defer r.attrMu.RUnlock()
	h, ok := r.attrs[attributeKey{recordType: recordType, attribute: attributeName}]
	return h, ok
}

// Remove deletes recordType's handler. If attributeName is given, it
// deletes that attribute's handler instead of the type-level one.
// Removing an absent key is a no-op.
func (r *Registry) Remove(recordType reflect.Type, attributeName ...string) {
	recordType = deref(recordType)

	if len(attributeName) == 0 {
		r.typeMu.Lock()
		delete(r.types, recordType)
		r.typeMu.Unlock()
		return
	}

	r.attrMu.Lock()
	for _, name := range attributeName {
		delete(r.attrs, attributeKey{recordType: recordType, attribute: name})
	}
	r.attrMu.Unlock()
}

// Clear drops every registered handler, type-level and attribute-level.
// It does not invalidate accessors already compiled against the
// handlers it removes (see spec.md §4.5).
func (r *Registry) Clear() {
	r.typeMu.Lock()
	clear(r.types)
	r.typeMu.Unlock()

	r.attrMu.Lock()
	clear(r.attrs)
	r.attrMu.Unlock()
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// Default is the process-wide registry used by the package-level
// Register/Lookup/Remove/Clear convenience functions.
var Default = NewRegistry()

func Register(targetType reflect.Type, h Handler, force bool) error {
	return Default.Register(targetType, h, force)
}

func RegisterAttribute(recordType reflect.Type, selector AttributeSelector, h Handler, force bool) error {
	return Default.RegisterAttribute(recordType, selector, h, force)
}

func Lookup(recordType reflect.Type) (Handler, bool) {
	return Default.Lookup(recordType)
}

func LookupAttribute(recordType reflect.Type, attributeName string) (Handler, bool) {
	return Default.LookupAttribute(recordType, attributeName)
}

func Remove(recordType reflect.Type, attributeName ...string) {
	Default.Remove(recordType, attributeName...)
}

func Clear() {
	Default.Clear()
}
