package jsonapi

// emptyRelationship is the sentinel [ResourceData.RelationshipValue] holds
// for a to-one relationship the server confirmed as empty ("data": null),
// as opposed to one it never disclosed at all (Design Notes: "data: null ...
// distinguishable from an absent relationship key").
type emptyRelationship struct{}

// EmptyRelationship is the sentinel value of a confirmed-empty to-one
// relationship slot.
var EmptyRelationship = emptyRelationship{}

// RelationshipMutationKind classifies one step of a save cascade.
type RelationshipMutationKind int

const (
	// MutationReplace is a to-one relationship PATCH.
	MutationReplace RelationshipMutationKind = iota
	// MutationAdd is a to-many relationship POST.
	MutationAdd
	// MutationRemove is a to-many relationship DELETE.
	MutationRemove
)

// RelationshipMutation is one scheduled step of
// [RelationshipDescriptor.Mutations]; the client package turns it into an
// HTTP request via the [Router] and [Serializer].
type RelationshipMutation struct {
	Kind       RelationshipMutationKind
	Descriptor RelationshipDescriptor
	Targets    []Resource // for Replace: 0 or 1 entries (0 ⇒ null); for Add/Remove: the delta
}

// --- ToOneRelationship --------------------------------------------------

// ToOneRelationship declares a relationship slot holding exactly one
// related resource, or none.
type ToOneRelationship struct {
	baseField
	relatedType string
}

// NewToOneRelationship declares a to-one relationship to relatedType.
func NewToOneRelationship(name, relatedType string, opts ...FieldOption) *ToOneRelationship {
	return &ToOneRelationship{baseField: newBaseField(name, opts), relatedType: relatedType}
}

// RelatedType implements [RelationshipDescriptor].
func (f *ToOneRelationship) RelatedType() string { return f.relatedType }

func (f *ToOneRelationship) extract(wire *WireResource, resource Resource, ctx *extractContext) error {
	key := f.SerializedName(ctx.keyFormatter)
	wireRel, ok := wire.Relationships[key]
	if !ok {
		return nil
	}

	relData := &RelationshipData{LinkageState: wireRel.LinkageState, Linkage: wireRel.Linkage}
	if l, ok := wireRel.Links["self"]; ok {
		relData.SelfURL = l.Href
	}
	if l, ok := wireRel.Links["related"]; ok {
		relData.RelatedURL = l.Href
	}
	resource.Data().SetRelationshipRecord(f.name, relData)

	switch wireRel.LinkageState {
	case LinkagePresent:
		if len(wireRel.Linkage) == 0 {
			return nil
		}
		ref := wireRel.Linkage[0]
		stub, err := ctx.pool.Dispense(ref.Type, ref.ID, nil)
		if err != nil {
			return err
		}
		if relData.RelatedURL != "" && stub.Data().URL == "" {
			stub.Data().URL = relData.RelatedURL
		}
		if toOneSlotAssignable(resource.Data().RelationshipValue(f.name)) {
			resource.Data().SetRelationshipValue(f.name, stub)
		}
	case LinkageEmpty:
		if toOneSlotAssignable(resource.Data().RelationshipValue(f.name)) {
			resource.Data().SetRelationshipValue(f.name, EmptyRelationship)
		}
	}
	return nil
}

// toOneSlotAssignable reports whether a to-one relationship slot may be
// overwritten by freshly extracted linkage: true when it is empty, holds
// the empty sentinel, or holds an unloaded stub.
func toOneSlotAssignable(current interface{}) bool {
	switch v := current.(type) {
	case nil:
		return true
	case emptyRelationship:
		return true
	case Resource:
		return !v.Data().IsLoaded
	default:
		return true
	}
}

func (f *ToOneRelationship) serialize(resource Resource, wire *WireResource, ctx *serializeContext, opts SerializationOptions) error {
	if f.readOnly || !opts.IncludeToOne {
		return nil
	}
	key := f.SerializedName(ctx.keyFormatter)
	switch v := resource.Data().RelationshipValue(f.name).(type) {
	case nil:
		return nil
	case emptyRelationship:
		wire.setRelationship(key, &wireRelationship{LinkageState: LinkageEmpty})
	case Resource:
		if v.Data().ID == "" {
			return nil
		}
		wire.setRelationship(key, &wireRelationship{
			LinkageState: LinkagePresent,
			Linkage:      []ResourceRef{{Type: v.Data().Type, ID: v.Data().ID}},
		})
	}
	return nil
}

func (f *ToOneRelationship) resolve(Resource, *ResourcePool) {
	// To-one linkage already points to the dispensed stub from extract; no
	// further resolution pass is needed.
}

// Mutations implements the to-one half of the save cascade: always
// exactly one replace step, carrying whatever is currently in the slot
// (including "nothing", which serializes as null).
func (f *ToOneRelationship) Mutations(resource Resource) []RelationshipMutation {
	var targets []Resource
	if v, ok := resource.Data().RelationshipValue(f.name).(Resource); ok {
		targets = []Resource{v}
	}
	return []RelationshipMutation{{Kind: MutationReplace, Descriptor: f, Targets: targets}}
}

// --- ToManyRelationship --------------------------------------------------

// ToManyRelationship declares a relationship slot holding a homogeneous
// collection of related resources.
type ToManyRelationship struct {
	baseField
	relatedType string
}

// NewToManyRelationship declares a to-many relationship to relatedType.
func NewToManyRelationship(name, relatedType string, opts ...FieldOption) *ToManyRelationship {
	return &ToManyRelationship{baseField: newBaseField(name, opts), relatedType: relatedType}
}

// RelatedType implements [RelationshipDescriptor].
func (f *ToManyRelationship) RelatedType() string { return f.relatedType }

func (f *ToManyRelationship) extract(wire *WireResource, resource Resource, ctx *extractContext) error {
	key := f.SerializedName(ctx.keyFormatter)
	wireRel, ok := wire.Relationships[key]
	if !ok {
		return nil
	}

	relData := &RelationshipData{LinkageState: wireRel.LinkageState, Linkage: wireRel.Linkage}
	if l, ok := wireRel.Links["self"]; ok {
		relData.SelfURL = l.Href
	}
	if l, ok := wireRel.Links["related"]; ok {
		relData.RelatedURL = l.Href
	}
	resource.Data().SetRelationshipRecord(f.name, relData)

	current, hasCurrent := resource.Data().RelationshipValue(f.name).(*LinkedResourceCollection)
	linkageProvided := wireRel.LinkageState != LinkageUndisclosed
	if !linkageProvided && hasCurrent {
		return nil
	}

	coll := &LinkedResourceCollection{
		ResourcesURL: relData.RelatedURL,
		LinkURL:      relData.SelfURL,
		LinkageState: wireRel.LinkageState,
		Linkage:      wireRel.Linkage,
	}
	_ = current
	resource.Data().SetRelationshipValue(f.name, coll)
	return nil
}

func (f *ToManyRelationship) serialize(resource Resource, wire *WireResource, ctx *serializeContext, opts SerializationOptions) error {
	if f.readOnly || !opts.IncludeToMany {
		return nil
	}
	key := f.SerializedName(ctx.keyFormatter)
	coll, ok := resource.Data().RelationshipValue(f.name).(*LinkedResourceCollection)
	if !ok || coll == nil {
		return nil
	}

	var refs []ResourceRef
	for _, r := range coll.Resources() {
		if r.Data().ID == "" {
			continue
		}
		refs = append(refs, ResourceRef{Type: r.Data().Type, ID: r.Data().ID})
	}

	state := LinkageEmpty
	if len(refs) > 0 {
		state = LinkagePresent
	}
	wire.setRelationship(key, &wireRelationship{LinkageState: state, Linkage: refs, many: true})
	return nil
}

// resolve intersects linkage against pool; if
// every linked (type,id) is present, adopt it as the authoritative resource
// list and mark the collection loaded.
func (f *ToManyRelationship) resolve(resource Resource, pool *ResourcePool) {
	coll, ok := resource.Data().RelationshipValue(f.name).(*LinkedResourceCollection)
	if !ok || coll == nil || coll.LinkageState != LinkagePresent {
		return
	}

	resolved := make([]Resource, 0, len(coll.Linkage))
	for _, ref := range coll.Linkage {
		r, found := pool.Lookup(ref.Type, ref.ID)
		if !found {
			return
		}
		resolved = append(resolved, r)
	}
	coll.setResources(resolved)
}

// Mutations implements the to-many half of the save cascade: one add
// step and one remove step, each a no-op (empty Targets) when its delta is
// empty.
func (f *ToManyRelationship) Mutations(resource Resource) []RelationshipMutation {
	coll, ok := resource.Data().RelationshipValue(f.name).(*LinkedResourceCollection)
	if !ok || coll == nil {
		return []RelationshipMutation{
			{Kind: MutationAdd, Descriptor: f},
			{Kind: MutationRemove, Descriptor: f},
		}
	}
	return []RelationshipMutation{
		{Kind: MutationAdd, Descriptor: f, Targets: coll.AddedResources()},
		{Kind: MutationRemove, Descriptor: f, Targets: coll.RemovedResources()},
	}
}
