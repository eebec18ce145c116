package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// This file holds the wire-level JSON:API document shape. The
// polymorphic-data and string-or-object-link handling rebuilds a
// Document/Resource/Relationship/Link family of MarshalJSON/UnmarshalJSON
// pairs around the three-state linkage ([LinkageState]) this engine needs:
// a relationship key can be absent, present with null data, or present with
// real linkage, and each marshals differently on the wire.

// WireLink is a JSON:API link object, which on the wire is either a bare
// string or an object with "href"/"meta".
type WireLink struct {
	Href string
	Meta map[string]interface{}
}

// MarshalJSON implements [json.Marshaler].
func (l WireLink) MarshalJSON() ([]byte, error) {
	if len(l.Meta) == 0 {
		return json.Marshal(l.Href)
	}
	type alias struct {
		Href string                 `json:"href"`
		Meta map[string]interface{} `json:"meta,omitempty"`
	}
	return json.Marshal(alias{Href: l.Href, Meta: l.Meta})
}

// UnmarshalJSON implements [json.Unmarshaler].
func (l *WireLink) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = WireLink{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &l.Href)
	}
	type alias struct {
		Href string                 `json:"href"`
		Meta map[string]interface{} `json:"meta"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	l.Href, l.Meta = a.Href, a.Meta
	return nil
}

// WireError is a JSON:API error object.
type WireError struct {
	ID     string                 `json:"id,omitempty"`
	Status string                 `json:"status,omitempty"`
	Code   string                 `json:"code,omitempty"`
	Title  string                 `json:"title,omitempty"`
	Detail string                 `json:"detail,omitempty"`
	Source *wireErrorSource       `json:"source,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

type wireErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// wireRef is a bare resource identifier ({type, id}), used in relationship
// linkage and in linkage-only request bodies.
type wireRef struct {
	Type string                 `json:"type"`
	ID   string                 `json:"id"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// WireResource is a JSON:API resource object.
type WireResource struct {
	Type          string
	ID            string
	Attributes    map[string]interface{}
	Relationships map[string]*wireRelationship
	Links         map[string]WireLink
	Meta          map[string]interface{}
}

type wireResourceRaw struct {
	Type          string                     `json:"type"`
	ID            string                     `json:"id"`
	Attributes    map[string]json.RawMessage `json:"attributes"`
	Relationships map[string]json.RawMessage `json:"relationships"`
	Links         map[string]WireLink        `json:"links"`
	Meta          map[string]interface{}     `json:"meta"`
}

// UnmarshalJSON implements [json.Unmarshaler], decoding attributes and
// relationships eagerly so [WireResource.attributeValue] can distinguish an
// absent key from an explicit wire null via plain map lookup.
func (r *WireResource) UnmarshalJSON(data []byte) error {
	var raw wireResourceRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Type, r.ID, r.Links, r.Meta = raw.Type, raw.ID, raw.Links, raw.Meta

	if raw.Attributes != nil {
		r.Attributes = make(map[string]interface{}, len(raw.Attributes))
		for k, v := range raw.Attributes {
			var decoded interface{}
			if len(v) > 0 {
				if err := json.Unmarshal(v, &decoded); err != nil {
					return fmt.Errorf("jsonapi: attribute %q: %w", k, err)
				}
			}
			r.Attributes[k] = decoded
		}
	}

	if raw.Relationships != nil {
		r.Relationships = make(map[string]*wireRelationship, len(raw.Relationships))
		for k, v := range raw.Relationships {
			rel, err := parseWireRelationship(v)
			if err != nil {
				return fmt.Errorf("jsonapi: relationship %q: %w", k, err)
			}
			r.Relationships[k] = rel
		}
	}

	return nil
}

// MarshalJSON implements [json.Marshaler].
func (r WireResource) MarshalJSON() ([]byte, error) {
	raw := wireResourceRawOut{
		Type:          r.Type,
		ID:            r.ID,
		Attributes:    r.Attributes,
		Relationships: r.Relationships,
		Links:         r.Links,
		Meta:          r.Meta,
	}
	return json.Marshal(raw)
}

type wireResourceRawOut struct {
	Type          string                       `json:"type"`
	ID            string                       `json:"id,omitempty"`
	Attributes    map[string]interface{}       `json:"attributes,omitempty"`
	Relationships map[string]*wireRelationship `json:"relationships,omitempty"`
	Links         map[string]WireLink          `json:"links,omitempty"`
	Meta          map[string]interface{}       `json:"meta,omitempty"`
}

// attributeValue returns the decoded attribute value for key and whether
// the key was present in the wire payload at all.
func (r *WireResource) attributeValue(key string) (interface{}, bool) {
	if r.Attributes == nil {
		return nil, false
	}
	v, ok := r.Attributes[key]
	return v, ok
}

// setAttribute stores value for key in preparation for marshaling.
func (r *WireResource) setAttribute(key string, value interface{}) {
	if r.Attributes == nil {
		r.Attributes = make(map[string]interface{})
	}
	r.Attributes[key] = value
}

// setRelationship stores a relationship entry in preparation for marshaling.
func (r *WireResource) setRelationship(key string, rel *wireRelationship) {
	if r.Relationships == nil {
		r.Relationships = make(map[string]*wireRelationship)
	}
	r.Relationships[key] = rel
}

// wireRelationship is a JSON:API relationship object.
type wireRelationship struct {
	LinkageState LinkageState
	Linkage      []ResourceRef
	Links        map[string]WireLink
	Meta         map[string]interface{}
	many         bool // true selects array framing for an empty/null relationship
}

type wireRelationshipRaw struct {
	Data  json.RawMessage        `json:"data"`
	Links map[string]WireLink    `json:"links,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

func parseWireRelationship(data []byte) (*wireRelationship, error) {
	var raw wireRelationshipRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	rel := &wireRelationship{Links: raw.Links, Meta: raw.Meta}

	switch {
	case raw.Data == nil:
		rel.LinkageState = LinkageUndisclosed
	case bytes.Equal(bytes.TrimSpace(raw.Data), []byte("null")):
		rel.LinkageState = LinkageEmpty
	case len(raw.Data) > 0 && raw.Data[0] == '[':
		rel.many = true
		var refs []wireRef
		if err := json.Unmarshal(raw.Data, &refs); err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			rel.LinkageState = LinkageEmpty
		} else {
			rel.LinkageState = LinkagePresent
			rel.Linkage = toResourceRefs(refs)
		}
	default:
		var ref wireRef
		if err := json.Unmarshal(raw.Data, &ref); err != nil {
			return nil, err
		}
		rel.LinkageState = LinkagePresent
		rel.Linkage = []ResourceRef{{Type: ref.Type, ID: ref.ID}}
	}

	return rel, nil
}

func toResourceRefs(refs []wireRef) []ResourceRef {
	out := make([]ResourceRef, len(refs))
	for i, r := range refs {
		out[i] = ResourceRef{Type: r.Type, ID: r.ID}
	}
	return out
}

// MarshalJSON implements [json.Marshaler] for a to-one or to-many
// relationship, emitting null/object/array per [wireRelationship.LinkageState].
func (rel wireRelationship) MarshalJSON() ([]byte, error) {
	type alias struct {
		Data  json.RawMessage        `json:"data,omitempty"`
		Links map[string]WireLink    `json:"links,omitempty"`
		Meta  map[string]interface{} `json:"meta,omitempty"`
	}

	var dataJSON json.RawMessage
	switch rel.LinkageState {
	case LinkageUndisclosed:
		dataJSON = nil
	case LinkageEmpty:
		if rel.isMany() {
			dataJSON = json.RawMessage("[]")
		} else {
			dataJSON = json.RawMessage("null")
		}
	default:
		var err error
		if rel.isMany() {
			refs := make([]wireRef, len(rel.Linkage))
			for i, l := range rel.Linkage {
				refs[i] = wireRef{Type: l.Type, ID: l.ID}
			}
			dataJSON, err = json.Marshal(refs)
		} else if len(rel.Linkage) == 1 {
			dataJSON, err = json.Marshal(wireRef{Type: rel.Linkage[0].Type, ID: rel.Linkage[0].ID})
		} else {
			dataJSON = json.RawMessage("null")
		}
		if err != nil {
			return nil, err
		}
	}

	return json.Marshal(alias{Data: dataJSON, Links: rel.Links, Meta: rel.Meta})
}

// isMany reports whether this relationship should use array framing
// ("[]"/[{...}]) rather than scalar framing ("null"/{...}) when its linkage
// is empty or being marshaled from scratch.
func (rel wireRelationship) isMany() bool { return rel.many }

// WireDocument is the top-level JSON:API document.
type WireDocument struct {
	Data     *wirePrimaryData       `json:"data,omitempty"`
	Errors   []WireError            `json:"errors,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
	Included []WireResource         `json:"included,omitempty"`
	Links    map[string]WireLink    `json:"links,omitempty"`
	JSONAPI  map[string]interface{} `json:"jsonapi,omitempty"`
}

// wirePrimaryData is the top-level "data" member: a single resource, an
// array of resources, or null.
type wirePrimaryData struct {
	one    WireResource
	many   []WireResource
	isMany bool
	isNull bool
}

// MarshalJSON implements [json.Marshaler].
func (d wirePrimaryData) MarshalJSON() ([]byte, error) {
	if d.isNull {
		return []byte("null"), nil
	}
	if d.isMany {
		if d.many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(d.many)
	}
	return json.Marshal(d.one)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (d *wirePrimaryData) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		d.isNull = true
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		d.isMany = true
		return json.Unmarshal(data, &d.many)
	}
	return json.Unmarshal(data, &d.one)
}

// parseWireDocument parses body into a [WireDocument], checking the
// top-level structural rules: "data" and "errors" cannot both appear, and at
// least one of "data", "errors", or "meta" must be present.
func parseWireDocument(body []byte) (*WireDocument, error) {
	var presence map[string]json.RawMessage
	if err := json.Unmarshal(body, &presence); err != nil {
		return nil, &ClientError{Kind: ErrInvalidDocumentStructure, Err: err}
	}

	_, hasData := presence["data"]
	_, hasErrors := presence["errors"]
	_, hasMeta := presence["meta"]

	if !hasData && !hasErrors && !hasMeta {
		return nil, &ClientError{Kind: ErrTopLevelEntryMissing}
	}
	if hasData && hasErrors {
		return nil, &ClientError{Kind: ErrTopLevelDataAndErrorsCoexist}
	}

	var doc WireDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ClientError{Kind: ErrInvalidDocumentStructure, Err: err}
	}
	return &doc, nil
}

// parseURL is a small helper shared by the URL-typed value formatter and
// attribute descriptor.
func parseURL(raw string) (*url.URL, error) {
	return url.Parse(raw)
}
