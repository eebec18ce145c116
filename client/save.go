package client

import (
	"context"

	"github.com/hyperclient/jsonapi"
)

// SaveOperation creates or updates resource: POST when resource has no id,
// PATCH otherwise. On success the response body is
// deserialized into the same instance so server-assigned id/attributes flow
// back; if resource already existed before this call, a [RelationshipOperation]
// cascade runs next and its result is adopted.
type SaveOperation struct {
	baseOperation
	Transport    Transport
	Router       *jsonapi.Router
	Serializer   *jsonapi.Serializer
	Deserializer *jsonapi.Deserializer
	Registry     *jsonapi.TypeRegistry
	Resource     jsonapi.Resource

	future *Future[jsonapi.Resource]
}

// NewSaveOperation returns a ready [SaveOperation] for resource.
func NewSaveOperation(ctx context.Context, transport Transport, router *jsonapi.Router, serializer *jsonapi.Serializer, deserializer *jsonapi.Deserializer, registry *jsonapi.TypeRegistry, resource jsonapi.Resource) *SaveOperation {
	return &SaveOperation{
		baseOperation: newBaseOperation(ctx),
		Transport:     transport,
		Router:        router,
		Serializer:    serializer,
		Deserializer:  deserializer,
		Registry:      registry,
		Resource:      resource,
	}
}

// Execute runs the save in a new goroutine, returning a [Future] for the
// saved resource.
func (op *SaveOperation) Execute() *Future[jsonapi.Resource] {
	if op.future != nil {
		return op.future
	}
	op.future = newFuture[jsonapi.Resource]()
	go op.run()
	return op.future
}

func (op *SaveOperation) run() {
	ctx, ok := op.begin()
	if !ok {
		op.future.complete(nil, cancelledError)
		return
	}
	defer op.finish()

	data := op.Resource.Data()
	wasExisting := data.ID != ""

	var method, url string
	var opts jsonapi.SerializationOptions
	if wasExisting {
		method, url, opts = "PATCH", resourceURL(op.Resource, op.Router), jsonapi.DefaultSerializationOptions()
	} else {
		method, url, opts = "POST", op.Router.URLForResourceType(data.Type), jsonapi.CreateSerializationOptions()
	}

	body, err := op.Serializer.SerializeResources([]jsonapi.Resource{op.Resource}, opts)
	if err != nil {
		op.future.complete(nil, err)
		return
	}

	status, respBody, err := op.Transport.Do(ctx, method, url, body)
	if op.wasCancelled() {
		op.future.complete(nil, cancelledError)
		return
	}
	if err != nil {
		op.future.complete(nil, &jsonapi.NetworkError{Err: err})
		return
	}
	if apiErrorRange(status) {
		op.future.complete(nil, failureFromResponse(op.Deserializer, status, respBody))
		return
	}

	if len(respBody) > 0 {
		if _, err := op.Deserializer.Deserialize(respBody, op.Resource); err != nil {
			op.future.complete(nil, err)
			return
		}
	}

	if !wasExisting {
		op.future.complete(op.Resource, nil)
		return
	}

	relOp := NewRelationshipOperation(ctx, op.Transport, op.Router, op.Serializer, op.Deserializer, op.Registry, op.Resource)
	result, err := relOp.Execute().Wait(ctx)
	if err != nil {
		op.future.complete(nil, err)
		return
	}
	op.future.complete(result, nil)
}

// clearRelationshipDeltas discards, after m succeeds, the delta m sent on
// resource's to-many relationship: the staged adds after an add, the staged
// removes after a remove. The other delta stays staged.
func clearRelationshipDeltas(resource jsonapi.Resource, m jsonapi.RelationshipMutation) {
	coll, ok := resource.Data().RelationshipValue(m.Descriptor.FieldName()).(*jsonapi.LinkedResourceCollection)
	if !ok || coll == nil {
		return
	}
	added, removed := coll.AddedResources(), coll.RemovedResources()
	coll.ClearDeltas()
	if m.Kind == jsonapi.MutationAdd {
		added = nil
	} else {
		removed = nil
	}
	for _, r := range added {
		coll.AddResource(r)
	}
	for _, r := range removed {
		coll.RemoveResource(r)
	}
}
