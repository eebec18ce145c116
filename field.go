package jsonapi

// FieldDescriptor describes one attribute or relationship slot of a resource
// type. The descriptor list for a type is immutable, class-level schema —
// registered once via [TypeRegistry.Register] and shared by every instance
// of that type (Design Notes: "declarative schema vs. instances").
type FieldDescriptor interface {
	// FieldName is the domain identifier (Go-side field name).
	FieldName() string
	// SerializedName is the wire identifier, after KeyFormatter translation.
	SerializedName(formatter KeyFormatter) string
	// IsReadOnly reports whether this field is excluded from writes.
	IsReadOnly() bool

	// extract reads this field's value out of a parsed wire resource and
	// writes it into resource's corresponding slot.
	extract(wire *WireResource, resource Resource, ctx *extractContext) error
	// serialize writes this field's value from resource into the wire
	// resource being built, honoring opts.
	serialize(resource Resource, wire *WireResource, ctx *serializeContext, opts SerializationOptions) error
}

// RelationshipDescriptor is implemented by the relationship-kind
// [FieldDescriptor]s ([ToOneRelationship], [ToManyRelationship]). It adds
// the post-deserialization resolution pass and the save-cascade operation
// builder.
type RelationshipDescriptor interface {
	FieldDescriptor
	// RelatedType is the resource type string of the related resource(s).
	RelatedType() string
	// resolve fills in-memory references for this relationship against pool,
	// once every resource in the current deserialization scope is known.
	resolve(resource Resource, pool *ResourcePool)
	// Mutations builds this relationship's contribution to a save cascade.
	Mutations(resource Resource) []RelationshipMutation
}

// baseField holds the bookkeeping shared by every descriptor variant.
type baseField struct {
	name           string
	serializedName string // empty ⇒ derive from name via the KeyFormatter
	readOnly       bool
}

// FieldName implements [FieldDescriptor].
func (b baseField) FieldName() string { return b.name }

// IsReadOnly implements [FieldDescriptor].
func (b baseField) IsReadOnly() bool { return b.readOnly }

// SerializedName implements [FieldDescriptor].
func (b baseField) SerializedName(formatter KeyFormatter) string {
	if b.serializedName != "" {
		return b.serializedName
	}
	if formatter == nil {
		return b.name
	}
	return formatter.Format(b.name)
}

// FieldOption customizes a field descriptor at construction time.
type FieldOption func(*baseField)

// SerializedAs overrides the wire name a field would otherwise derive from
// its domain name via the [KeyFormatter].
func SerializedAs(name string) FieldOption {
	return func(b *baseField) { b.serializedName = name }
}

// ReadOnly marks a field as excluded from write (serialize) operations.
func ReadOnly() FieldOption {
	return func(b *baseField) { b.readOnly = true }
}

func newBaseField(name string, opts []FieldOption) baseField {
	b := baseField{name: name}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// extractContext carries the collaborators [FieldDescriptor.extract] needs:
// the formatters in effect and the pool/registry relationships dispense
// related stubs against.
type extractContext struct {
	keyFormatter    KeyFormatter
	valueFormatters *ValueFormatterRegistry
	pool            *ResourcePool
	baseURL         string
}

// serializeContext mirrors extractContext for the write path.
type serializeContext struct {
	keyFormatter    KeyFormatter
	valueFormatters *ValueFormatterRegistry
}

// --- PlainAttribute ---------------------------------------------------

// PlainAttribute is an opaque scalar/string attribute: its wire value is
// passed through to the domain slot unchanged.
type PlainAttribute struct {
	baseField
	kind FieldKind
}

// NewPlainAttribute declares an attribute whose wire and domain
// representations are identical.
func NewPlainAttribute(name string, opts ...FieldOption) *PlainAttribute {
	return &PlainAttribute{baseField: newBaseField(name, opts), kind: KindPlain}
}

func (f *PlainAttribute) extract(wire *WireResource, resource Resource, ctx *extractContext) error {
	raw, ok := wire.attributeValue(f.SerializedName(ctx.keyFormatter))
	if !ok {
		return nil // key absent: leave slot untouched
	}
	if raw == nil {
		return nil // explicit wire null: leave slot untouched
	}
	formatter := ctx.valueFormatters.Get(f.kind)
	value, err := formatter.FromWire(raw)
	if err != nil {
		return err
	}
	resource.Data().SetAttribute(f.name, value)
	return nil
}

func (f *PlainAttribute) serialize(resource Resource, wire *WireResource, ctx *serializeContext, opts SerializationOptions) error {
	if f.readOnly {
		return nil
	}
	data := resource.Data()
	if opts.DirtyFieldsOnly && !data.HasAttribute(f.name) {
		return nil
	}
	formatter := ctx.valueFormatters.Get(f.kind)
	value, err := formatter.ToWire(data.Attribute(f.name))
	if err != nil {
		return err
	}
	if value == nil && opts.OmitNullValues {
		return nil
	}
	wire.setAttribute(f.SerializedName(ctx.keyFormatter), value)
	return nil
}

// --- BooleanAttribute --------------------------------------------------

// BooleanAttribute coerces its wire value to bool.
type BooleanAttribute struct{ PlainAttribute }

// NewBooleanAttribute declares a boolean-coercing attribute.
func NewBooleanAttribute(name string, opts ...FieldOption) *BooleanAttribute {
	return &BooleanAttribute{PlainAttribute{baseField: newBaseField(name, opts), kind: KindBoolean}}
}

// --- IntegerAttribute / FloatAttribute -----------------------------------

// IntegerAttribute coerces its wire value to int64. A bare [PlainAttribute]
// would round-trip a JSON number as float64, losing the int/float
// distinction on re-serialization; this keeps sort and filter values on
// integer fields stable across a fetch/save round trip.
type IntegerAttribute struct{ PlainAttribute }

// NewIntegerAttribute declares an integer-coercing attribute.
func NewIntegerAttribute(name string, opts ...FieldOption) *IntegerAttribute {
	return &IntegerAttribute{PlainAttribute{baseField: newBaseField(name, opts), kind: KindInteger}}
}

// FloatAttribute coerces its wire value to float64.
type FloatAttribute struct{ PlainAttribute }

// NewFloatAttribute declares a float-coercing attribute.
func NewFloatAttribute(name string, opts ...FieldOption) *FloatAttribute {
	return &FloatAttribute{PlainAttribute{baseField: newBaseField(name, opts), kind: KindFloat}}
}

// --- DateAttribute -------------------------------------------------------

// DateAttribute round-trips through a date layout, UTC when unspecified.
type DateAttribute struct {
	baseField
	Format string
}

// NewDateAttribute declares a date attribute. format defaults to
// [DefaultDateFormat] when empty.
func NewDateAttribute(name, format string, opts ...FieldOption) *DateAttribute {
	return &DateAttribute{baseField: newBaseField(name, opts), Format: format}
}

func (f *DateAttribute) formatter() DateValueFormatter { return DateValueFormatter{Format: f.Format} }

func (f *DateAttribute) extract(wire *WireResource, resource Resource, ctx *extractContext) error {
	raw, ok := wire.attributeValue(f.SerializedName(ctx.keyFormatter))
	if !ok || raw == nil {
		return nil
	}
	value, err := f.formatter().FromWire(raw)
	if err != nil {
		return err
	}
	resource.Data().SetAttribute(f.name, value)
	return nil
}

func (f *DateAttribute) serialize(resource Resource, wire *WireResource, ctx *serializeContext, opts SerializationOptions) error {
	if f.readOnly {
		return nil
	}
	data := resource.Data()
	if opts.DirtyFieldsOnly && !data.HasAttribute(f.name) {
		return nil
	}
	value, err := f.formatter().ToWire(data.Attribute(f.name))
	if err != nil {
		return err
	}
	if value == nil && opts.OmitNullValues {
		return nil
	}
	wire.setAttribute(f.SerializedName(ctx.keyFormatter), value)
	return nil
}

// --- URLAttribute --------------------------------------------------------

// URLAttribute is an absolute or base-resolved URL attribute.
type URLAttribute struct {
	baseField
	BaseURL string
}

// NewURLAttribute declares a URL attribute. baseURL, if non-empty, resolves
// relative wire values; absolute wire values are left untouched.
func NewURLAttribute(name, baseURL string, opts ...FieldOption) *URLAttribute {
	return &URLAttribute{baseField: newBaseField(name, opts), BaseURL: baseURL}
}

func (f *URLAttribute) formatter() (URLValueFormatter, error) {
	if f.BaseURL == "" {
		return URLValueFormatter{}, nil
	}
	base, err := parseURL(f.BaseURL)
	if err != nil {
		return URLValueFormatter{}, err
	}
	return URLValueFormatter{BaseURL: base}, nil
}

func (f *URLAttribute) extract(wire *WireResource, resource Resource, ctx *extractContext) error {
	raw, ok := wire.attributeValue(f.SerializedName(ctx.keyFormatter))
	if !ok || raw == nil {
		return nil
	}
	fmtr, err := f.formatter()
	if err != nil {
		return err
	}
	value, err := fmtr.FromWire(raw)
	if err != nil {
		return err
	}
	resource.Data().SetAttribute(f.name, value)
	return nil
}

func (f *URLAttribute) serialize(resource Resource, wire *WireResource, ctx *serializeContext, opts SerializationOptions) error {
	if f.readOnly {
		return nil
	}
	data := resource.Data()
	if opts.DirtyFieldsOnly && !data.HasAttribute(f.name) {
		return nil
	}
	fmtr, err := f.formatter()
	if err != nil {
		return err
	}
	value, err := fmtr.ToWire(data.Attribute(f.name))
	if err != nil {
		return err
	}
	if value == nil && opts.OmitNullValues {
		return nil
	}
	wire.setAttribute(f.SerializedName(ctx.keyFormatter), value)
	return nil
}
