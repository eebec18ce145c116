package jsonapi

// ResourcePool is the per-deserialization identity pool: an arena-plus-
// lookup structure that guarantees at most one in-memory instance per
// (resourceType, id) pair within one deserialization scope. A fresh pool is
// built for every call to [Deserializer.Deserialize]; pools are never
// shared across deserializations.
type ResourcePool struct {
	registry  *TypeRegistry
	resources []Resource
	byRef     map[ResourceRef]int
	byType    map[string][]int // positional index within resources, per type, for the index-based dispense
}

// NewResourcePool returns an empty pool bound to registry.
func NewResourcePool(registry *TypeRegistry) *ResourcePool {
	return &ResourcePool{
		registry: registry,
		byRef:    make(map[ResourceRef]int),
		byType:   make(map[string][]int),
	}
}

// Seed pre-populates the pool with mapping targets: caller-supplied resource
// instances a deserialization should map its results onto instead of
// instantiating fresh ones.
func (p *ResourcePool) Seed(targets []Resource) {
	for _, t := range targets {
		p.add(t)
	}
}

func (p *ResourcePool) add(r Resource) int {
	idx := len(p.resources)
	p.resources = append(p.resources, r)
	data := r.Data()
	p.byType[data.Type] = append(p.byType[data.Type], idx)
	if data.ID != "" {
		p.byRef[data.Ref()] = idx
	}
	return idx
}

// Lookup returns the pooled resource for (typeName, id), if any.
func (p *ResourcePool) Lookup(typeName, id string) (Resource, bool) {
	idx, ok := p.byRef[ResourceRef{Type: typeName, ID: id}]
	if !ok {
		return nil, false
	}
	return p.resources[idx], true
}

// Dispense applies the three-step resource-reuse rule:
//  1. an existing (type, id) match wins;
//  2. otherwise, if index is non-nil and the pool already holds at least
//     index+1 resources of typeName, the index-th such resource is reused
//     (mapping server responses onto caller-provided targets whose ids
//     were not yet known);
//  3. otherwise a fresh instance is created, assigned id, and pooled.
func (p *ResourcePool) Dispense(typeName, id string, index *int) (Resource, error) {
	if id != "" {
		if r, ok := p.Lookup(typeName, id); ok {
			return r, nil
		}
	}

	if index != nil {
		if positions := p.byType[typeName]; *index < len(positions) {
			r := p.resources[positions[*index]]
			if id != "" && r.Data().ID == "" {
				r.Data().ID = id
				p.byRef[ResourceRef{Type: typeName, ID: id}] = positions[*index]
			}
			return r, nil
		}
	}

	r, err := p.registry.Instantiate(typeName)
	if err != nil {
		return nil, err
	}
	r.Data().ID = id
	p.add(r)
	return r, nil
}

// All returns every resource currently held by the pool, in dispense order.
func (p *ResourcePool) All() []Resource {
	out := make([]Resource, len(p.resources))
	copy(out, p.resources)
	return out
}
