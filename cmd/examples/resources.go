package main

import "github.com/hyperclient/jsonapi"

// Article, Author, and Tag mirror the worked examples in the library's own
// tests (see testtypes_test.go): a to-one and a to-many relationship hung
// off a simple attribute-bearing resource, registered declaratively rather
// than through struct tags.

type Article struct {
	jsonapi.ResourceData
}

func NewArticle() jsonapi.Resource {
	return &Article{ResourceData: jsonapi.ResourceData{Type: "articles"}}
}

func (a *Article) Title() string {
	s, _ := a.Attribute("title").(string)
	return s
}

func (a *Article) SetTitle(v string) { a.SetAttribute("title", v) }

func (a *Article) Body() string {
	s, _ := a.Attribute("body").(string)
	return s
}

func (a *Article) SetBody(v string) { a.SetAttribute("body", v) }

func (a *Article) Author() jsonapi.Resource {
	r, _ := a.RelationshipValue("author").(jsonapi.Resource)
	return r
}

func (a *Article) SetAuthor(r jsonapi.Resource) { a.SetRelationshipValue("author", r) }

func (a *Article) Tags() *jsonapi.LinkedResourceCollection {
	c, _ := a.RelationshipValue("tags").(*jsonapi.LinkedResourceCollection)
	return c
}

type Author struct {
	jsonapi.ResourceData
}

func NewAuthor() jsonapi.Resource {
	return &Author{ResourceData: jsonapi.ResourceData{Type: "authors"}}
}

func (a *Author) Name() string {
	s, _ := a.Attribute("name").(string)
	return s
}

func (a *Author) SetName(v string) { a.SetAttribute("name", v) }

type Tag struct {
	jsonapi.ResourceData
}

func NewTag() jsonapi.Resource {
	return &Tag{ResourceData: jsonapi.ResourceData{Type: "tags"}}
}

func (t *Tag) Name() string {
	s, _ := t.Attribute("name").(string)
	return s
}

func (t *Tag) SetName(v string) { t.SetAttribute("name", v) }

// newRegistry builds the process-wide schema for the demo: one entry per
// resource type, naming its constructor and field descriptors.
func newRegistry() *jsonapi.TypeRegistry {
	registry := jsonapi.NewTypeRegistry()
	registry.Register("articles", NewArticle, []jsonapi.FieldDescriptor{
		jsonapi.NewPlainAttribute("title"),
		jsonapi.NewPlainAttribute("body"),
		jsonapi.NewToOneRelationship("author", "authors"),
		jsonapi.NewToManyRelationship("tags", "tags"),
	})
	registry.Register("authors", NewAuthor, []jsonapi.FieldDescriptor{
		jsonapi.NewPlainAttribute("name"),
	})
	registry.Register("tags", NewTag, []jsonapi.FieldDescriptor{
		jsonapi.NewPlainAttribute("name"),
	})
	return registry
}
