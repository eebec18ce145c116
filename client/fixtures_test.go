package client_test

import (
	"context"
	"sync"

	"github.com/hyperclient/jsonapi"
)

// Foo and Bar are fixture resource types: Foo has a to-one and a to-many
// relationship to Bar.

type Foo struct {
	jsonapi.ResourceData
}

func NewFoo() jsonapi.Resource { return &Foo{ResourceData: jsonapi.ResourceData{Type: "foos"}} }

func (f *Foo) StringAttribute() string {
	s, _ := f.Attribute("stringAttribute").(string)
	return s
}

func (f *Foo) SetStringAttribute(v string) { f.SetAttribute("stringAttribute", v) }

func (f *Foo) ToOneAttribute() jsonapi.Resource {
	r, _ := f.RelationshipValue("toOneAttribute").(jsonapi.Resource)
	return r
}

func (f *Foo) SetToOneAttribute(r jsonapi.Resource) { f.SetRelationshipValue("toOneAttribute", r) }

func (f *Foo) ToManyAttribute() *jsonapi.LinkedResourceCollection {
	c, _ := f.RelationshipValue("toManyAttribute").(*jsonapi.LinkedResourceCollection)
	return c
}

type Bar struct {
	jsonapi.ResourceData
}

func NewBar() jsonapi.Resource { return &Bar{ResourceData: jsonapi.ResourceData{Type: "bars"}} }

func newFixtureRegistry() *jsonapi.TypeRegistry {
	registry := jsonapi.NewTypeRegistry()
	registry.Register("foos", NewFoo, []jsonapi.FieldDescriptor{
		jsonapi.NewPlainAttribute("stringAttribute"),
		jsonapi.NewToOneRelationship("toOneAttribute", "bars"),
		jsonapi.NewToManyRelationship("toManyAttribute", "bars"),
	})
	registry.Register("bars", NewBar, []jsonapi.FieldDescriptor{
		jsonapi.NewPlainAttribute("name"),
	})
	return registry
}

// fakeCall records one request a [fakeTransport] received.
type fakeCall struct {
	Method string
	URL    string
	Body   []byte
}

// fakeResponse is one scripted response a [fakeTransport] returns, in order.
type fakeResponse struct {
	Status int
	Body   []byte
	Err    error
}

// fakeTransport is an in-memory [client.Transport] stand-in: it records every
// call and plays back a scripted sequence of canned responses, one per call.
type fakeTransport struct {
	mu        sync.Mutex
	Calls     []fakeCall
	Responses []fakeResponse
}

func (t *fakeTransport) Do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls = append(t.Calls, fakeCall{Method: method, URL: url, Body: append([]byte{}, body...)})
	if len(t.Responses) == 0 {
		return 200, []byte(`{"data": null}`), nil
	}
	resp := t.Responses[0]
	t.Responses = t.Responses[1:]
	return resp.Status, resp.Body, resp.Err
}
