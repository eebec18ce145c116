package jsonapi

// JSONAPIDocument is the fully-resolved result of a [Deserializer.Deserialize]
// call.
type JSONAPIDocument struct {
	Data     []Resource
	Included []Resource
	Errors   []APIError
	Meta     map[string]interface{}
	Links    map[string]string
	JSONAPI  map[string]interface{}
}

// Deserializer turns wire bytes into pooled, schema-shaped resources.
type Deserializer struct {
	Registry        *TypeRegistry
	KeyFormatter    KeyFormatter
	ValueFormatters *ValueFormatterRegistry
	BaseURL         string
	Logger          Logger
}

// NewDeserializer returns a deserializer bound to registry, with
// keyFormatter defaulting to [DashCaseFormatter] and valueFormatters to
// [NewValueFormatterRegistry] when nil. Logger starts as [NoopLogger].
func NewDeserializer(registry *TypeRegistry, keyFormatter KeyFormatter, valueFormatters *ValueFormatterRegistry) *Deserializer {
	if keyFormatter == nil {
		keyFormatter = DashCaseFormatter
	}
	if valueFormatters == nil {
		valueFormatters = NewValueFormatterRegistry()
	}
	return &Deserializer{Registry: registry, KeyFormatter: keyFormatter, ValueFormatters: valueFormatters, Logger: NoopLogger}
}

func (d *Deserializer) logger() Logger {
	if d.Logger == nil {
		return NoopLogger
	}
	return d.Logger
}

// Deserialize parses body into a [JSONAPIDocument]. mappingTargets, if
// given, seed the identity pool so the server response is mapped onto
// caller-owned instances instead of fresh ones.
func (d *Deserializer) Deserialize(body []byte, mappingTargets ...Resource) (*JSONAPIDocument, error) {
	wireDoc, err := parseWireDocument(body)
	if err != nil {
		d.logger().Errorf("jsonapi: deserialize: %v", err)
		return nil, err
	}

	pool := NewResourcePool(d.Registry)
	pool.Seed(mappingTargets)

	ctx := &extractContext{
		keyFormatter:    d.KeyFormatter,
		valueFormatters: d.ValueFormatters,
		pool:            pool,
		baseURL:         d.BaseURL,
	}

	var primary []Resource
	if wireDoc.Data != nil {
		primary, err = d.extractPrimary(wireDoc.Data, ctx)
		if err != nil {
			return nil, err
		}
	}

	var included []Resource
	for i := range wireDoc.Included {
		r, err := d.extractOne(&wireDoc.Included[i], nil, ctx)
		if err != nil {
			return nil, err
		}
		included = append(included, r)
	}

	errs := make([]APIError, len(wireDoc.Errors))
	for i, e := range wireDoc.Errors {
		errs[i] = APIError{ID: e.ID, Status: e.Status, Code: e.Code, Title: e.Title, Detail: e.Detail, Meta: e.Meta}
		if e.Source != nil {
			errs[i].SourcePointer = e.Source.Pointer
			errs[i].SourceParameter = e.Source.Parameter
		}
	}

	links := make(map[string]string, len(wireDoc.Links))
	for name, l := range wireDoc.Links {
		links[name] = l.Href
	}

	d.logger().Debugf("jsonapi: deserialized %d primary, %d included, %d errors", len(primary), len(included), len(errs))

	// Resolution pass: reconcile every to-many relationship's disclosed
	// linkage against everything now known to the pool.
	for _, r := range pool.All() {
		for _, field := range d.Registry.FieldsFor(r.Data().Type) {
			if rel, ok := field.(RelationshipDescriptor); ok {
				rel.resolve(r, pool)
			}
		}
	}

	return &JSONAPIDocument{
		Data:     primary,
		Included: included,
		Errors:   errs,
		Meta:     wireDoc.Meta,
		Links:    links,
		JSONAPI:  wireDoc.JSONAPI,
	}, nil
}

func (d *Deserializer) extractPrimary(primary *wirePrimaryData, ctx *extractContext) ([]Resource, error) {
	if primary.isNull {
		return nil, nil
	}
	if !primary.isMany {
		r, err := d.extractOne(&primary.one, intPtr(0), ctx)
		if err != nil {
			return nil, err
		}
		return []Resource{r}, nil
	}

	out := make([]Resource, 0, len(primary.many))
	for i := range primary.many {
		idx := i
		r, err := d.extractOne(&primary.many[i], &idx, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// extractOne validates type/id, dispenses the (possibly pre-seeded)
// resource instance, then runs every field descriptor's extract.
func (d *Deserializer) extractOne(wire *WireResource, index *int, ctx *extractContext) (Resource, error) {
	if wire.Type == "" {
		return nil, &ClientError{Kind: ErrResourceTypeMissing}
	}
	if wire.ID == "" {
		return nil, &ClientError{Kind: ErrResourceIDMissing, Type: wire.Type}
	}

	resource, err := ctx.pool.Dispense(wire.Type, wire.ID, index)
	if err != nil {
		return nil, err
	}

	data := resource.Data()
	if self, ok := wire.Links["self"]; ok {
		data.URL = self.Href
	}
	if wire.Meta != nil {
		data.Meta = wire.Meta
	}

	for _, field := range d.Registry.FieldsFor(wire.Type) {
		if err := field.extract(wire, resource, ctx); err != nil {
			return nil, err
		}
	}
	data.IsLoaded = true
	return resource, nil
}

func intPtr(i int) *int { return &i }
