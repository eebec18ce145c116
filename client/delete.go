package client

import (
	"context"

	"github.com/hyperclient/jsonapi"
)

// DeleteOperation issues a DELETE for a resource's canonical URL. Success
// is a nil error; no response body is consumed.
type DeleteOperation struct {
	baseOperation
	Transport    Transport
	Router       *jsonapi.Router
	Deserializer *jsonapi.Deserializer
	Resource     jsonapi.Resource

	future *Future[struct{}]
}

// NewDeleteOperation returns a ready [DeleteOperation] for resource.
func NewDeleteOperation(ctx context.Context, transport Transport, router *jsonapi.Router, deserializer *jsonapi.Deserializer, resource jsonapi.Resource) *DeleteOperation {
	return &DeleteOperation{
		baseOperation: newBaseOperation(ctx),
		Transport:     transport,
		Router:        router,
		Deserializer:  deserializer,
		Resource:      resource,
	}
}

// Execute runs the DELETE in a new goroutine, returning a [Future] that
// completes once the transport call returns.
func (op *DeleteOperation) Execute() *Future[struct{}] {
	if op.future != nil {
		return op.future
	}
	op.future = newFuture[struct{}]()
	go op.run()
	return op.future
}

func (op *DeleteOperation) run() {
	ctx, ok := op.begin()
	if !ok {
		op.future.complete(struct{}{}, cancelledError)
		return
	}
	defer op.finish()

	url := resourceURL(op.Resource, op.Router)
	status, body, err := op.Transport.Do(ctx, "DELETE", url, nil)
	if op.wasCancelled() {
		op.future.complete(struct{}{}, cancelledError)
		return
	}
	if err != nil {
		op.future.complete(struct{}{}, &jsonapi.NetworkError{Err: err})
		return
	}
	if apiErrorRange(status) {
		op.future.complete(struct{}{}, failureFromResponse(op.Deserializer, status, body))
		return
	}
	op.future.complete(struct{}{}, nil)
}

// resourceURL prefers [jsonapi.ResourceData.URL] over the router-built URL,
// per Design Notes' "Resource-level url precedence over router-built URL".
func resourceURL(resource jsonapi.Resource, router *jsonapi.Router) string {
	if u := resource.Data().URL; u != "" {
		return u
	}
	return router.URLForQuery(jsonapi.QueryForResource(resource))
}
