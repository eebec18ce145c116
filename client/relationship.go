package client

import (
	"context"

	"github.com/hyperclient/jsonapi"
)

// RelationshipOperation walks every relationship descriptor of resource's
// type and runs the resulting [jsonapi.RelationshipMutation]s strictly
// ordered: every to-one replace, then every to-many add, then every to-many
// remove. The first failure halts the chain. A mutation
// with no targets to send (an untouched to-many add/remove delta) is a
// no-op that issues no request.
type RelationshipOperation struct {
	baseOperation
	Transport    Transport
	Router       *jsonapi.Router
	Serializer   *jsonapi.Serializer
	Deserializer *jsonapi.Deserializer
	Registry     *jsonapi.TypeRegistry
	Resource     jsonapi.Resource

	future *Future[jsonapi.Resource]
}

// NewRelationshipOperation returns a ready [RelationshipOperation] for
// resource.
func NewRelationshipOperation(ctx context.Context, transport Transport, router *jsonapi.Router, serializer *jsonapi.Serializer, deserializer *jsonapi.Deserializer, registry *jsonapi.TypeRegistry, resource jsonapi.Resource) *RelationshipOperation {
	return &RelationshipOperation{
		baseOperation: newBaseOperation(ctx),
		Transport:     transport,
		Router:        router,
		Serializer:    serializer,
		Deserializer:  deserializer,
		Registry:      registry,
		Resource:      resource,
	}
}

// Execute runs the cascade in a new goroutine, returning a [Future] that
// adopts resource on success.
func (op *RelationshipOperation) Execute() *Future[jsonapi.Resource] {
	if op.future != nil {
		return op.future
	}
	op.future = newFuture[jsonapi.Resource]()
	go op.run()
	return op.future
}

func (op *RelationshipOperation) run() {
	ctx, ok := op.begin()
	if !ok {
		op.future.complete(nil, cancelledError)
		return
	}
	defer op.finish()

	for _, mutation := range orderedMutations(op.Registry, op.Resource) {
		if err := op.execute(ctx, mutation); err != nil {
			op.future.complete(nil, err)
			return
		}
	}
	op.future.complete(op.Resource, nil)
}

// orderedMutations collects every relationship field's mutations, grouped
// across fields by kind: all replaces first, then all adds, then all
// removes. Within a kind, mutations keep field declaration order.
func orderedMutations(registry *jsonapi.TypeRegistry, resource jsonapi.Resource) []jsonapi.RelationshipMutation {
	var replaces, adds, removes []jsonapi.RelationshipMutation
	for _, field := range registry.FieldsFor(resource.Data().Type) {
		rel, ok := field.(jsonapi.RelationshipDescriptor)
		if !ok {
			continue
		}
		for _, m := range rel.Mutations(resource) {
			switch m.Kind {
			case jsonapi.MutationReplace:
				replaces = append(replaces, m)
			case jsonapi.MutationAdd:
				adds = append(adds, m)
			case jsonapi.MutationRemove:
				removes = append(removes, m)
			}
		}
	}
	ordered := make([]jsonapi.RelationshipMutation, 0, len(replaces)+len(adds)+len(removes))
	ordered = append(ordered, replaces...)
	ordered = append(ordered, adds...)
	ordered = append(ordered, removes...)
	return ordered
}

func (op *RelationshipOperation) execute(ctx context.Context, m jsonapi.RelationshipMutation) error {
	var method string
	var body []byte
	var err error

	switch m.Kind {
	case jsonapi.MutationReplace:
		method = "PATCH"
		var target jsonapi.Resource
		if len(m.Targets) == 1 {
			target = m.Targets[0]
		}
		body, err = op.Serializer.SerializeToOneLinkData(target)
	case jsonapi.MutationAdd:
		if len(m.Targets) == 0 {
			return nil
		}
		method = "POST"
		body, err = op.Serializer.SerializeToManyLinkData(m.Targets)
	case jsonapi.MutationRemove:
		if len(m.Targets) == 0 {
			return nil
		}
		method = "DELETE"
		body, err = op.Serializer.SerializeToManyLinkData(m.Targets)
	}
	if err != nil {
		return err
	}

	url := op.Router.URLForRelationship(op.Resource, m.Descriptor)
	status, respBody, err := op.Transport.Do(ctx, method, url, body)
	if op.wasCancelled() {
		return cancelledError
	}
	if err != nil {
		return &jsonapi.NetworkError{Err: err}
	}
	if apiErrorRange(status) {
		return failureFromResponse(op.Deserializer, status, respBody)
	}

	if m.Kind == jsonapi.MutationAdd || m.Kind == jsonapi.MutationRemove {
		clearRelationshipDeltas(op.Resource, m)
	}
	return nil
}
