package jsonapi

import "encoding/json"

// SerializationOptions controls what a [Serializer] emits for each resource.
type SerializationOptions struct {
	// IncludeID emits the resource's id. Cleared for the create leg of a
	// save, where the server assigns the id.
	IncludeID bool
	// DirtyFieldsOnly restricts attribute output to slots the resource has
	// actually set (Design Notes: partial-PATCH support).
	DirtyFieldsOnly bool
	// IncludeToOne emits to-one relationship linkage.
	IncludeToOne bool
	// IncludeToMany emits to-many relationship linkage.
	IncludeToMany bool
	// OmitNullValues drops an attribute entirely instead of emitting null.
	OmitNullValues bool
}

// DefaultSerializationOptions serializes a resource update: id included,
// every readable field considered, nulls emitted.
func DefaultSerializationOptions() SerializationOptions {
	return SerializationOptions{IncludeID: true, IncludeToOne: true, IncludeToMany: true}
}

// CreateSerializationOptions serializes a new resource for POST: no id
// (none assigned yet), full relationship linkage included.
func CreateSerializationOptions() SerializationOptions {
	return SerializationOptions{IncludeID: false, IncludeToOne: true, IncludeToMany: true}
}

// Serializer turns [Resource] values into wire bytes using the same
// declarative schema the [Deserializer] reads them with.
type Serializer struct {
	Registry        *TypeRegistry
	KeyFormatter    KeyFormatter
	ValueFormatters *ValueFormatterRegistry
	Logger          Logger
}

// NewSerializer returns a serializer bound to registry, with keyFormatter
// defaulting to [DashCaseFormatter] and valueFormatters to
// [NewValueFormatterRegistry] when nil. Logger starts as [NoopLogger].
func NewSerializer(registry *TypeRegistry, keyFormatter KeyFormatter, valueFormatters *ValueFormatterRegistry) *Serializer {
	if keyFormatter == nil {
		keyFormatter = DashCaseFormatter
	}
	if valueFormatters == nil {
		valueFormatters = NewValueFormatterRegistry()
	}
	return &Serializer{Registry: registry, KeyFormatter: keyFormatter, ValueFormatters: valueFormatters, Logger: NoopLogger}
}

func (s *Serializer) logger() Logger {
	if s.Logger == nil {
		return NoopLogger
	}
	return s.Logger
}

func (s *Serializer) toWireResource(resource Resource, opts SerializationOptions) (*WireResource, error) {
	data := resource.Data()
	s.logger().Debugf("jsonapi: serializing %s/%s", data.Type, data.ID)
	wire := &WireResource{Type: data.Type}
	if opts.IncludeID {
		wire.ID = data.ID
	}

	ctx := &serializeContext{keyFormatter: s.KeyFormatter, valueFormatters: s.ValueFormatters}
	for _, field := range s.Registry.FieldsFor(data.Type) {
		if err := field.serialize(resource, wire, ctx, opts); err != nil {
			return nil, err
		}
	}
	return wire, nil
}

// SerializeResources emits {data: <one or array>} for resources, honoring
// opts. A single resource serializes as one object; any other count
// (including zero) as an array.
func (s *Serializer) SerializeResources(resources []Resource, opts SerializationOptions) ([]byte, error) {
	primary := &wirePrimaryData{}
	if len(resources) == 1 {
		wire, err := s.toWireResource(resources[0], opts)
		if err != nil {
			return nil, err
		}
		primary.one = *wire
	} else {
		primary.isMany = true
		for _, r := range resources {
			wire, err := s.toWireResource(r, opts)
			if err != nil {
				return nil, err
			}
			primary.many = append(primary.many, *wire)
		}
	}
	return json.Marshal(&WireDocument{Data: primary})
}

// SerializeToOneLinkData emits the linkage-only body for a to-one
// relationship replace: {data: {type,id}}, or {data: null} when resource is
// nil (the confirmed-empty case). Used on PATCH /relationships/<name>.
func (s *Serializer) SerializeToOneLinkData(resource Resource) ([]byte, error) {
	primary := &wirePrimaryData{}
	if resource == nil {
		primary.isNull = true
	} else {
		primary.one = WireResource{Type: resource.Data().Type, ID: resource.Data().ID}
	}
	return json.Marshal(&WireDocument{Data: primary})
}

// SerializeToManyLinkData emits the linkage-only body for a to-many
// relationship add/remove: {data: [{type,id}, …]}, using array framing even
// for a single element (a single-resource DELETE body is still an array).
// Used on POST/DELETE /relationships/<name>.
func (s *Serializer) SerializeToManyLinkData(resources []Resource) ([]byte, error) {
	primary := &wirePrimaryData{isMany: true}
	for _, r := range resources {
		primary.many = append(primary.many, WireResource{Type: r.Data().Type, ID: r.Data().ID})
	}
	return json.Marshal(&WireDocument{Data: primary})
}
