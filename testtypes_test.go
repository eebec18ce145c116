package jsonapi

// Foo and Bar are the fixture resource types exercised by this package's
// tests. Foo has a to-one relationship (toOneAttribute) and a to-many
// relationship (toManyAttribute) to Bar, plus a string, integer, and float
// attribute.

type Foo struct {
	ResourceData
}

func NewFoo() Resource { return &Foo{ResourceData: ResourceData{Type: "foos"}} }

func (f *Foo) StringAttribute() string {
	s, _ := f.Attribute("stringAttribute").(string)
	return s
}

func (f *Foo) SetStringAttribute(v string) { f.SetAttribute("stringAttribute", v) }

func (f *Foo) IntegerAttribute() int64 {
	v, _ := f.Attribute("integerAttribute").(int64)
	return v
}

func (f *Foo) SetIntegerAttribute(v int64) { f.SetAttribute("integerAttribute", v) }

func (f *Foo) ToOneAttribute() Resource {
	r, _ := f.RelationshipValue("toOneAttribute").(Resource)
	return r
}

func (f *Foo) SetToOneAttribute(r Resource) { f.SetRelationshipValue("toOneAttribute", r) }

func (f *Foo) ToManyAttribute() *LinkedResourceCollection {
	c, _ := f.RelationshipValue("toManyAttribute").(*LinkedResourceCollection)
	return c
}

type Bar struct {
	ResourceData
}

func NewBar() Resource { return &Bar{ResourceData: ResourceData{Type: "bars"}} }

func (b *Bar) NameAttribute() string {
	s, _ := b.Attribute("name").(string)
	return s
}

func (b *Bar) SetNameAttribute(v string) { b.SetAttribute("name", v) }

// newFixtureRegistry returns a [TypeRegistry] with foos and bars registered.
func newFixtureRegistry() *TypeRegistry {
	registry := NewTypeRegistry()
	registry.Register("foos", NewFoo, []FieldDescriptor{
		NewPlainAttribute("stringAttribute"),
		NewIntegerAttribute("integerAttribute"),
		NewFloatAttribute("floatAttribute"),
		NewToOneRelationship("toOneAttribute", "bars"),
		NewToManyRelationship("toManyAttribute", "bars"),
	})
	registry.Register("bars", NewBar, []FieldDescriptor{
		NewPlainAttribute("name"),
	})
	return registry
}
