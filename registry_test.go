package jsonapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypeRegistry_InstantiateUnregistered tests that instantiating an
// unregistered type fails with ErrResourceTypeUnregistered.
func TestTypeRegistry_InstantiateUnregistered(t *testing.T) {
	registry := NewTypeRegistry()
	_, err := registry.Instantiate("foos")
	require.Error(t, err)
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrResourceTypeUnregistered, clientErr.Kind)
}

// TestTypeRegistry_RegisterAndInstantiate tests the basic register/
// instantiate/fields-for round trip.
func TestTypeRegistry_RegisterAndInstantiate(t *testing.T) {
	registry := newFixtureRegistry()

	resource, err := registry.Instantiate("foos")
	require.NoError(t, err)
	assert.Equal(t, "foos", resource.Data().Type)

	fields := registry.FieldsFor("foos")
	require.Len(t, fields, 5)
}

// TestTypeRegistry_RegisteredTypes tests that registration order is
// preserved and re-registering a type does not duplicate its entry.
func TestTypeRegistry_RegisteredTypes(t *testing.T) {
	registry := NewTypeRegistry()
	registry.Register("foos", NewFoo, nil)
	registry.Register("bars", NewBar, nil)
	registry.Register("foos", NewFoo, []FieldDescriptor{NewPlainAttribute("stringAttribute")})

	assert.Equal(t, []string{"foos", "bars"}, registry.RegisteredTypes())
	assert.Len(t, registry.FieldsFor("foos"), 1)
}
