package client_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperclient/jsonapi"
	"github.com/hyperclient/jsonapi/client"
)

func newFixtureClientCollaborators() (*jsonapi.Router, *jsonapi.Serializer, *jsonapi.Deserializer, *jsonapi.TypeRegistry) {
	registry := newFixtureRegistry()
	router := jsonapi.NewRouter("http://example.com", jsonapi.DashCaseFormatter)
	serializer := jsonapi.NewSerializer(registry, jsonapi.DashCaseFormatter, jsonapi.NewValueFormatterRegistry())
	deserializer := jsonapi.NewDeserializer(registry, jsonapi.DashCaseFormatter, jsonapi.NewValueFormatterRegistry())
	return router, serializer, deserializer, registry
}

// TestSaveOperation_CreatesWithoutID tests that saving a new resource POSTs without
// an id, and the response maps back onto the same instance with its
// server-assigned id.
func TestSaveOperation_CreatesWithoutID(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{
		{Status: 201, Body: []byte(`{"data": {"type": "foos", "id": "1", "attributes": {"string-attribute": "hello"}}}`)},
	}}
	router, serializer, deserializer, registry := newFixtureClientCollaborators()

	foo := NewFoo().(*Foo)
	foo.SetStringAttribute("hello")

	op := client.NewSaveOperation(context.Background(), transport, router, serializer, deserializer, registry, foo)
	saved, err := op.Execute().Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, foo, saved)
	assert.Equal(t, "1", foo.ID)

	require.Len(t, transport.Calls, 1)
	assert.Equal(t, "POST", transport.Calls[0].Method)
	assert.Equal(t, "http://example.com/foos", transport.Calls[0].URL)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(transport.Calls[0].Body, &body))
	data := body["data"].(map[string]interface{})
	_, hasID := data["id"]
	assert.False(t, hasID)
}

// TestSaveOperation_ExistingCascadeOrdering tests that a save on an existing
// resource issues the primary PATCH, then a to-one relationship replace,
// then a to-many add, then a to-many remove, strictly in that order.
func TestSaveOperation_ExistingCascadeOrdering(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{
		{Status: 200, Body: []byte(`{"data": null}`)}, // primary PATCH has no useful body here
		{Status: 200, Body: nil},                      // to-one replace
		{Status: 200, Body: nil},                      // to-many add
		{Status: 200, Body: nil},                      // to-many remove
	}}
	router, serializer, deserializer, registry := newFixtureClientCollaborators()

	foo := NewFoo().(*Foo)
	foo.ID = "1"

	bar10 := NewBar().(*Bar)
	bar10.ID = "10"
	foo.SetToOneAttribute(bar10)

	bar13 := NewBar().(*Bar)
	bar13.ID = "13"
	bar11 := NewBar().(*Bar)
	bar11.ID = "11"

	coll := &jsonapi.LinkedResourceCollection{}
	coll.AddResource(bar13)
	coll.RemoveResource(bar11)
	foo.SetRelationshipValue("toManyAttribute", coll)

	op := client.NewSaveOperation(context.Background(), transport, router, serializer, deserializer, registry, foo)
	_, err := op.Execute().Wait(context.Background())
	require.NoError(t, err)

	require.Len(t, transport.Calls, 4)

	assert.Equal(t, "PATCH", transport.Calls[0].Method)
	assert.Equal(t, "http://example.com/foos/1", transport.Calls[0].URL)

	assert.Equal(t, "PATCH", transport.Calls[1].Method)
	assert.Equal(t, "http://example.com/foos/1/relationships/to-one-attribute", transport.Calls[1].URL)
	assert.JSONEq(t, `{"data":{"type":"bars","id":"10"}}`, string(transport.Calls[1].Body))

	assert.Equal(t, "POST", transport.Calls[2].Method)
	assert.Equal(t, "http://example.com/foos/1/relationships/to-many-attribute", transport.Calls[2].URL)
	assert.JSONEq(t, `{"data":[{"type":"bars","id":"13"}]}`, string(transport.Calls[2].Body))

	assert.Equal(t, "DELETE", transport.Calls[3].Method)
	assert.Equal(t, "http://example.com/foos/1/relationships/to-many-attribute", transport.Calls[3].URL)
	assert.JSONEq(t, `{"data":[{"type":"bars","id":"11"}]}`, string(transport.Calls[3].Body))

	assert.Empty(t, coll.AddedResources())
	assert.Empty(t, coll.RemovedResources())
}

// TestSaveOperation_ExistingCascade_FailsFast tests that when the to-one
// replace returns 422, the save fails with ServerError{422} and the
// to-many calls are never issued.
func TestSaveOperation_ExistingCascade_FailsFast(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{
		{Status: 200, Body: []byte(`{"data": null}`)},
		{Status: 422, Body: []byte(`{"errors": [{"status": "422", "title": "Invalid Relationship"}]}`)},
	}}
	router, serializer, deserializer, registry := newFixtureClientCollaborators()

	foo := NewFoo().(*Foo)
	foo.ID = "1"
	bar10 := NewBar().(*Bar)
	bar10.ID = "10"
	foo.SetToOneAttribute(bar10)

	bar13 := NewBar().(*Bar)
	bar13.ID = "13"
	coll := &jsonapi.LinkedResourceCollection{}
	coll.AddResource(bar13)
	foo.SetRelationshipValue("toManyAttribute", coll)

	op := client.NewSaveOperation(context.Background(), transport, router, serializer, deserializer, registry, foo)
	_, err := op.Execute().Wait(context.Background())
	require.Error(t, err)

	var serverErr *jsonapi.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, 422, serverErr.Code)

	require.Len(t, transport.Calls, 2)
	assert.Equal(t, "PATCH", transport.Calls[1].Method)
	assert.Equal(t, "http://example.com/foos/1/relationships/to-one-attribute", transport.Calls[1].URL)
}
