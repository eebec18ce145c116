package jsonapi

import "sync"

// ResourceConstructor returns a fresh, empty instance of a resource type.
type ResourceConstructor func() Resource

// TypeRegistry is the process-wide, declarative schema: a resource type
// string maps to a constructor and an ordered field descriptor list. It is
// built once at client construction and treated as immutable thereafter,
// shared read-only across every concurrent operation.
type TypeRegistry struct {
	mu     sync.RWMutex
	ctors  map[string]ResourceConstructor
	fields map[string][]FieldDescriptor
	order  []string
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		ctors:  make(map[string]ResourceConstructor),
		fields: make(map[string][]FieldDescriptor),
	}
}

// Register binds typeName to ctor and its field descriptor list. Calling
// Register twice for the same type replaces the prior registration.
func (r *TypeRegistry) Register(typeName string, ctor ResourceConstructor, fields []FieldDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ctors[typeName]; !exists {
		r.order = append(r.order, typeName)
	}
	r.ctors[typeName] = ctor
	r.fields[typeName] = fields
}

// Instantiate returns a fresh instance of typeName with its Type slot set,
// or a [ClientError] of kind [ErrResourceTypeUnregistered].
func (r *TypeRegistry) Instantiate(typeName string) (Resource, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[typeName]
	r.mu.RUnlock()
	if !ok {
		return nil, &ClientError{Kind: ErrResourceTypeUnregistered, Type: typeName}
	}
	resource := ctor()
	resource.Data().Type = typeName
	return resource, nil
}

// FieldsFor returns the descriptor list registered for typeName, or nil if
// unregistered.
func (r *TypeRegistry) FieldsFor(typeName string) []FieldDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fields[typeName]
}

// RegisteredTypes returns every registered type name, in registration order.
func (r *TypeRegistry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
