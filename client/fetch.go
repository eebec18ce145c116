package client

import (
	"context"

	"github.com/hyperclient/jsonapi"
)

// FetchOperation issues a GET compiled from a [jsonapi.Query] and
// deserializes the response into a [jsonapi.ResourceCollection]. Construct
// one with [NewFetchOperation]; Execute starts it.
type FetchOperation struct {
	baseOperation
	Transport      Transport
	Router         *jsonapi.Router
	Deserializer   *jsonapi.Deserializer
	Query          jsonapi.Query
	MappingTargets []jsonapi.Resource

	future *Future[*jsonapi.ResourceCollection]
}

// NewFetchOperation returns a ready [FetchOperation] for query, parented on
// ctx for cancellation.
func NewFetchOperation(ctx context.Context, transport Transport, router *jsonapi.Router, deserializer *jsonapi.Deserializer, query jsonapi.Query, mappingTargets ...jsonapi.Resource) *FetchOperation {
	return &FetchOperation{
		baseOperation:  newBaseOperation(ctx),
		Transport:      transport,
		Router:         router,
		Deserializer:   deserializer,
		Query:          query,
		MappingTargets: mappingTargets,
	}
}

// Execute transitions the operation to Executing and runs its GET in a new
// goroutine, returning a [Future] for the resulting collection. Calling
// Execute more than once returns the same future.
func (op *FetchOperation) Execute() *Future[*jsonapi.ResourceCollection] {
	if op.future != nil {
		return op.future
	}
	op.future = newFuture[*jsonapi.ResourceCollection]()
	go op.run()
	return op.future
}

func (op *FetchOperation) run() {
	ctx, ok := op.begin()
	if !ok {
		op.future.complete(nil, cancelledError)
		return
	}
	defer op.finish()

	url := op.Router.URLForQuery(op.Query)
	status, body, err := op.Transport.Do(ctx, "GET", url, nil)
	if op.wasCancelled() {
		op.future.complete(nil, cancelledError)
		return
	}
	if err != nil {
		op.future.complete(nil, &jsonapi.NetworkError{Err: err})
		return
	}
	if apiErrorRange(status) {
		op.future.complete(nil, failureFromResponse(op.Deserializer, status, body))
		return
	}

	doc, err := op.Deserializer.Deserialize(body, op.MappingTargets...)
	if err != nil {
		op.future.complete(nil, err)
		return
	}
	if len(doc.Errors) > 0 {
		op.future.complete(nil, doc.Errors[0])
		return
	}

	coll := &jsonapi.ResourceCollection{
		Resources:    doc.Data,
		ResourcesURL: doc.Links["self"],
		NextURL:      doc.Links["next"],
		PreviousURL:  previousLink(doc.Links),
	}
	op.future.complete(coll, nil)
}

// previousLink reads "previous", falling back to "prev": both keys are
// recognized on input.
func previousLink(links map[string]string) string {
	if v, ok := links["previous"]; ok {
		return v
	}
	return links["prev"]
}
