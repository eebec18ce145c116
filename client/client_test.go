package client_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperclient/jsonapi"
	"github.com/hyperclient/jsonapi/client"
)

func newFixtureClient(transport client.Transport) *client.Client {
	return client.New("http://example.com", newFixtureRegistry(), transport, nil, nil)
}

// TestClient_FindByIDs tests that FindByIDs compiles the right URL and
// returns a collection without blocking the caller until Wait is called.
func TestClient_FindByIDs(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{
		{Status: 200, Body: []byte(`{"data": [{"type": "foos", "id": "1"}]}`)},
	}}
	c := newFixtureClient(transport)
	defer c.Close()

	coll, err := c.FindByIDs(context.Background(), "foos", "1").Wait(context.Background())
	require.NoError(t, err)
	require.Len(t, coll.Resources, 1)
	assert.Equal(t, "http://example.com/foos/1", transport.Calls[0].URL)
}

// TestClient_FindOne_NotFound tests that an empty result collection fails
// with ErrResourceNotFound rather than yielding a nil resource.
func TestClient_FindOne_NotFound(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{
		{Status: 200, Body: []byte(`{"data": []}`)},
	}}
	c := newFixtureClient(transport)
	defer c.Close()

	_, err := c.FindOneByID(context.Background(), "foos", "1").Wait(context.Background())
	require.Error(t, err)
	var clientErr *jsonapi.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, jsonapi.ErrResourceNotFound, clientErr.Kind)
}

// TestClient_Save tests that Save round-trips through SaveOperation and the
// future adopts the saved resource.
func TestClient_Save(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{
		{Status: 201, Body: []byte(`{"data": {"type": "foos", "id": "9"}}`)},
	}}
	c := newFixtureClient(transport)
	defer c.Close()

	foo := NewFoo().(*Foo)
	saved, err := c.Save(context.Background(), foo).Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, foo, saved)
	assert.Equal(t, "9", foo.ID)
}

// TestClient_Delete tests that Delete issues the DELETE and completes with
// a nil error.
func TestClient_Delete(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{{Status: 204}}}
	c := newFixtureClient(transport)
	defer c.Close()

	foo := NewFoo().(*Foo)
	foo.ID = "1"
	_, err := c.Delete(context.Background(), foo).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DELETE", transport.Calls[0].Method)
}

// TestClient_Ensure_AlreadyLoadedIsNoop tests that Ensure never touches the
// transport when the resource is already loaded.
func TestClient_Ensure_AlreadyLoadedIsNoop(t *testing.T) {
	transport := &fakeTransport{}
	c := newFixtureClient(transport)
	defer c.Close()

	foo := NewFoo().(*Foo)
	foo.IsLoaded = true
	resolved, err := c.Ensure(context.Background(), foo, nil).Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, foo, resolved)
	assert.Empty(t, transport.Calls)
}

// TestClient_Ensure_FetchesWhenUnloaded tests that Ensure fetches and
// populates an unloaded resource in place.
func TestClient_Ensure_FetchesWhenUnloaded(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{
		{Status: 200, Body: []byte(`{"data": {"type": "foos", "id": "1", "attributes": {"string-attribute": "loaded"}}}`)},
	}}
	c := newFixtureClient(transport)
	defer c.Close()

	foo := NewFoo().(*Foo)
	foo.ID = "1"
	resolved, err := c.Ensure(context.Background(), foo, nil).Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, foo, resolved)
	assert.Equal(t, "loaded", foo.StringAttribute())
}

// TestClient_LoadNextPageOfCollection_NoNextURL tests that requesting the
// next page of a collection with no NextURL fails immediately without
// touching the transport.
func TestClient_LoadNextPageOfCollection_NoNextURL(t *testing.T) {
	transport := &fakeTransport{}
	c := newFixtureClient(transport)
	defer c.Close()

	coll := &jsonapi.ResourceCollection{}
	_, err := c.LoadNextPageOfCollection(context.Background(), coll).Wait(context.Background())
	require.Error(t, err)
	var clientErr *jsonapi.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, jsonapi.ErrNextPageNotAvailable, clientErr.Kind)
	assert.Empty(t, transport.Calls)
}

// TestClient_LoadNextPageOfCollection_Appends tests that a successful next
// page fetch appends to the existing collection and advances NextURL.
func TestClient_LoadNextPageOfCollection_Appends(t *testing.T) {
	transport := &fakeTransport{Responses: []fakeResponse{
		{Status: 200, Body: []byte(`{
			"data": [{"type": "foos", "id": "2"}],
			"links": {"next": "http://example.com/foos?page[number]=3"}
		}`)},
	}}
	c := newFixtureClient(transport)
	defer c.Close()

	coll := &jsonapi.ResourceCollection{
		Resources: []jsonapi.Resource{NewFoo().(*Foo)},
		NextURL:   "http://example.com/foos?page[number]=2",
	}
	got, err := c.LoadNextPageOfCollection(context.Background(), coll).Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, coll, got)
	assert.Len(t, coll.Resources, 2)
	assert.Equal(t, "http://example.com/foos?page[number]=3", coll.NextURL)
	assert.Equal(t, "http://example.com/foos?page[number]=2", coll.PreviousURL)
	assert.Equal(t, "http://example.com/foos?page[number]=2", transport.Calls[0].URL)
}

// TestClient_SerialQueueOrdering tests that two operations submitted back
// to back run strictly one at a time, in submission order, even though
// each Find call returns its future without blocking the caller.
func TestClient_SerialQueueOrdering(t *testing.T) {
	transport := &orderTrackingTransport{}
	c := newFixtureClient(transport)
	defer c.Close()

	f1 := c.FindByType(context.Background(), "foos")
	f2 := c.FindByType(context.Background(), "foos")

	_, err1 := f1.Wait(context.Background())
	_, err2 := f2.Wait(context.Background())
	require.NoError(t, err1)
	require.NoError(t, err2)

	transport.mu.Lock()
	defer transport.mu.Unlock()
	require.Len(t, transport.started, 2)
	assert.True(t, transport.started[1].After(transport.finished[0]) || transport.started[1].Equal(transport.finished[0]))
}

// orderTrackingTransport records when each call starts and finishes,
// sleeping briefly so overlapping calls would be detectable.
type orderTrackingTransport struct {
	mu       sync.Mutex
	started  []time.Time
	finished []time.Time
}

func (t *orderTrackingTransport) Do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	t.mu.Lock()
	t.started = append(t.started, time.Now())
	t.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	t.mu.Lock()
	t.finished = append(t.finished, time.Now())
	t.mu.Unlock()
	return 200, []byte(`{"data": []}`), nil
}
