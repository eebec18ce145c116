package client

import (
	"context"
	"sync"

	"github.com/hyperclient/jsonapi"
)

// Client is the public entry point: thin wrappers over the operations that
// return future-like handles immediately while a single serial queue,
// owned by the client, runs each operation's transport call to completion
// before starting the next. The registry and formatters it is built with
// are treated as immutable once the first operation is issued.
type Client struct {
	Transport       Transport
	Registry        *jsonapi.TypeRegistry
	Router          *jsonapi.Router
	KeyFormatter    jsonapi.KeyFormatter
	ValueFormatters *jsonapi.ValueFormatterRegistry
	Logger          jsonapi.Logger

	serializer   *jsonapi.Serializer
	deserializer *jsonapi.Deserializer

	queue  chan func()
	once   sync.Once
	stopCh chan struct{}
}

// New returns a [Client] rooted at baseURL, using registry as the
// process-wide resource-type registry. keyFormatter and valueFormatters
// default to [jsonapi.DashCaseFormatter] and
// [jsonapi.NewValueFormatterRegistry] when nil.
func New(baseURL string, registry *jsonapi.TypeRegistry, transport Transport, keyFormatter jsonapi.KeyFormatter, valueFormatters *jsonapi.ValueFormatterRegistry) *Client {
	if keyFormatter == nil {
		keyFormatter = jsonapi.DashCaseFormatter
	}
	if valueFormatters == nil {
		valueFormatters = jsonapi.NewValueFormatterRegistry()
	}
	c := &Client{
		Transport:       transport,
		Registry:        registry,
		Router:          jsonapi.NewRouter(baseURL, keyFormatter),
		KeyFormatter:    keyFormatter,
		ValueFormatters: valueFormatters,
		Logger:          jsonapi.NoopLogger,
		serializer:      jsonapi.NewSerializer(registry, keyFormatter, valueFormatters),
		deserializer:    jsonapi.NewDeserializer(registry, keyFormatter, valueFormatters),
		queue:           make(chan func()),
		stopCh:          make(chan struct{}),
	}
	c.startQueue()
	return c
}

func (c *Client) startQueue() {
	c.once.Do(func() {
		go func() {
			for {
				select {
				case job := <-c.queue:
					job()
				case <-c.stopCh:
					return
				}
			}
		}()
	})
}

// Close stops the client's serial queue worker. Operations already enqueued
// but not yet run are dropped.
func (c *Client) Close() {
	close(c.stopCh)
}

// submit enqueues job onto the serial queue. The queue worker runs jobs one
// at a time, in enqueue order, so two queued operations never race on the
// transport.
func (c *Client) submit(job func()) {
	c.queue <- job
}

// Find issues a read for query, returning every matching resource as a
// [jsonapi.ResourceCollection].
func (c *Client) Find(ctx context.Context, query jsonapi.Query) *Future[*jsonapi.ResourceCollection] {
	future := newFuture[*jsonapi.ResourceCollection]()
	c.submit(func() {
		op := NewFetchOperation(ctx, c.Transport, c.Router, c.deserializer, query)
		value, err := op.Execute().Wait(ctx)
		future.complete(value, err)
	})
	return future
}

// FindByType issues a read for every resource of typeName.
func (c *Client) FindByType(ctx context.Context, typeName string) *Future[*jsonapi.ResourceCollection] {
	return c.Find(ctx, jsonapi.QueryForType(typeName))
}

// FindByIDs issues a read for specific ids of typeName.
func (c *Client) FindByIDs(ctx context.Context, typeName string, ids ...string) *Future[*jsonapi.ResourceCollection] {
	return c.Find(ctx, jsonapi.QueryForIDs(typeName, ids...))
}

// FindOne issues query and yields its first result, failing with
// [jsonapi.ErrResourceNotFound] when the response collection is empty.
func (c *Client) FindOne(ctx context.Context, query jsonapi.Query) *Future[jsonapi.Resource] {
	future := newFuture[jsonapi.Resource]()
	c.submit(func() {
		op := NewFetchOperation(ctx, c.Transport, c.Router, c.deserializer, query)
		coll, err := op.Execute().Wait(ctx)
		if err != nil {
			future.complete(nil, err)
			return
		}
		if coll.Count() == 0 {
			future.complete(nil, &jsonapi.ClientError{Kind: jsonapi.ErrResourceNotFound, Type: query.ResourceType})
			return
		}
		future.complete(coll.Resources[0], nil)
	})
	return future
}

// FindOneByID issues a read for a single (typeName, id) and yields it.
func (c *Client) FindOneByID(ctx context.Context, typeName, id string) *Future[jsonapi.Resource] {
	return c.FindOne(ctx, jsonapi.QueryForIDs(typeName, id))
}

// Save creates or updates resource.
func (c *Client) Save(ctx context.Context, resource jsonapi.Resource) *Future[jsonapi.Resource] {
	future := newFuture[jsonapi.Resource]()
	c.submit(func() {
		op := NewSaveOperation(ctx, c.Transport, c.Router, c.serializer, c.deserializer, c.Registry, resource)
		value, err := op.Execute().Wait(ctx)
		future.complete(value, err)
	})
	return future
}

// Delete removes resource.
func (c *Client) Delete(ctx context.Context, resource jsonapi.Resource) *Future[struct{}] {
	future := newFuture[struct{}]()
	c.submit(func() {
		op := NewDeleteOperation(ctx, c.Transport, c.Router, c.deserializer, resource)
		_, err := op.Execute().Wait(ctx)
		future.complete(struct{}{}, err)
	})
	return future
}

// Ensure no-ops if resource.Data().IsLoaded; otherwise it fetches resource's
// canonical query (or the one built by queryFn, if given) with resource as
// the mapping target, so the response lands in place.
func (c *Client) Ensure(ctx context.Context, resource jsonapi.Resource, queryFn func(jsonapi.Resource) jsonapi.Query) *Future[jsonapi.Resource] {
	future := newFuture[jsonapi.Resource]()
	if resource.Data().IsLoaded {
		future.complete(resource, nil)
		return future
	}
	query := jsonapi.QueryForResource(resource)
	if queryFn != nil {
		query = queryFn(resource)
	}
	c.submit(func() {
		op := NewFetchOperation(ctx, c.Transport, c.Router, c.deserializer, query, resource)
		_, err := op.Execute().Wait(ctx)
		if err != nil {
			future.complete(nil, err)
			return
		}
		future.complete(resource, nil)
	})
	return future
}

// LoadNextPageOfCollection fetches coll.NextURL and appends its resources in
// place, failing with [jsonapi.ErrNextPageNotAvailable] when NextURL is
// empty.
func (c *Client) LoadNextPageOfCollection(ctx context.Context, coll *jsonapi.ResourceCollection) *Future[*jsonapi.ResourceCollection] {
	future := newFuture[*jsonapi.ResourceCollection]()
	if coll.NextURL == "" {
		future.complete(nil, &jsonapi.ClientError{Kind: jsonapi.ErrNextPageNotAvailable})
		return future
	}
	requested := coll.NextURL
	c.submit(func() {
		op := NewFetchOperation(ctx, c.Transport, c.Router, c.deserializer, jsonapi.QueryForURL(requested))
		page, err := op.Execute().Wait(ctx)
		if err != nil {
			future.complete(nil, err)
			return
		}
		coll.AppendPage(requested, page.Resources, page.NextURL, page.PreviousURL)
		future.complete(coll, nil)
	})
	return future
}

// LoadPreviousPageOfCollection is the symmetric operation for
// coll.PreviousURL, failing with [jsonapi.ErrPreviousPageNotAvailable] when
// empty.
func (c *Client) LoadPreviousPageOfCollection(ctx context.Context, coll *jsonapi.ResourceCollection) *Future[*jsonapi.ResourceCollection] {
	future := newFuture[*jsonapi.ResourceCollection]()
	if coll.PreviousURL == "" {
		future.complete(nil, &jsonapi.ClientError{Kind: jsonapi.ErrPreviousPageNotAvailable})
		return future
	}
	requested := coll.PreviousURL
	c.submit(func() {
		op := NewFetchOperation(ctx, c.Transport, c.Router, c.deserializer, jsonapi.QueryForURL(requested))
		page, err := op.Execute().Wait(ctx)
		if err != nil {
			future.complete(nil, err)
			return
		}
		coll.PrependPage(requested, page.Resources, page.NextURL, page.PreviousURL)
		future.complete(coll, nil)
	})
	return future
}
