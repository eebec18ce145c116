package jsonapi

// ResourceCollection is an ordered, paginated list of resources returned by
// a fetch. Iteration order is the server's; Count equals len(Resources).
// NextURL/PreviousURL reflect the most recent server response for this
// collection.
type ResourceCollection struct {
	Resources    []Resource
	ResourcesURL string
	NextURL      string
	PreviousURL  string
}

// Count returns the number of resources currently held.
func (c *ResourceCollection) Count() int { return len(c.Resources) }

// AppendPage is used by the client facade's loadNextPageOfCollection: it
// appends newly fetched resources and adopts the new response's links. When
// the response carries no previous link, the URL used for this call becomes
// the new PreviousURL.
func (c *ResourceCollection) AppendPage(requestedURL string, resources []Resource, nextURL, previousURL string) {
	c.Resources = append(c.Resources, resources...)
	c.NextURL = nextURL
	if previousURL != "" {
		c.PreviousURL = previousURL
	} else {
		c.PreviousURL = requestedURL
	}
}

// PrependPage is the symmetric operation for loadPreviousPageOfCollection.
func (c *ResourceCollection) PrependPage(requestedURL string, resources []Resource, nextURL, previousURL string) {
	c.Resources = append(append([]Resource{}, resources...), c.Resources...)
	c.PreviousURL = previousURL
	if nextURL != "" {
		c.NextURL = nextURL
	} else {
		c.NextURL = requestedURL
	}
}

// LinkedResourceCollection is the lazily-loadable target of a
// [ToManyRelationship] slot. It exposes the linkage the server disclosed
// (if any) and tracks local add/remove mutations as a small
// {pristine, added, removed} state machine; the deltas are consumed by
// the save cascade and cleared on success.
type LinkedResourceCollection struct {
	LinkURL      string // the relationship endpoint: /{type}/{id}/relationships/{name}
	ResourcesURL string // the related endpoint: /{type}/{id}/{name}
	LinkageState LinkageState
	Linkage      []ResourceRef
	IsLoaded     bool

	resources []Resource
	added     map[ResourceRef]Resource
	removed   map[ResourceRef]Resource
}

// Resources returns the current in-memory members of the collection. It is
// authoritative only once IsLoaded is true.
func (c *LinkedResourceCollection) Resources() []Resource { return c.resources }

// setResources replaces the backing resources and marks the collection
// loaded, used by the deserializer's resolution pass and by a full fetch of
// the related endpoint.
func (c *LinkedResourceCollection) setResources(resources []Resource) {
	c.resources = resources
	c.IsLoaded = true
}

// AddResource stages r to be linked on the next save. It does not change the
// currently loaded members, before or after that save.
func (c *LinkedResourceCollection) AddResource(r Resource) {
	if c.added == nil {
		c.added = make(map[ResourceRef]Resource)
	}
	ref := r.Data().Ref()
	delete(c.removed, ref)
	c.added[ref] = r
}

// RemoveResource stages r to be unlinked on the next save.
func (c *LinkedResourceCollection) RemoveResource(r Resource) {
	if c.removed == nil {
		c.removed = make(map[ResourceRef]Resource)
	}
	ref := r.Data().Ref()
	delete(c.added, ref)
	c.removed[ref] = r
}

// AddResourceAsExisting records r as already linked server-side, moving it
// into the backing set without enqueuing an add operation.
func (c *LinkedResourceCollection) AddResourceAsExisting(r Resource) {
	ref := r.Data().Ref()
	delete(c.added, ref)
	for _, existing := range c.resources {
		if existing.Data().Ref() == ref {
			return
		}
	}
	c.resources = append(c.resources, r)
}

// AddedResources returns the resources staged for the next to-many POST.
func (c *LinkedResourceCollection) AddedResources() []Resource {
	return mapValues(c.added)
}

// RemovedResources returns the resources staged for the next to-many DELETE.
func (c *LinkedResourceCollection) RemovedResources() []Resource {
	return mapValues(c.removed)
}

// ClearDeltas discards the staged add/remove deltas, called by the client
// package once a save cascade's to-many mutation succeeds.
func (c *LinkedResourceCollection) ClearDeltas() {
	c.added = nil
	c.removed = nil
}

func mapValues(m map[ResourceRef]Resource) []Resource {
	if len(m) == 0 {
		return nil
	}
	out := make([]Resource, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}
