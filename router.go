package jsonapi

import (
	"strconv"
	"strings"
)

// Router compiles a [Query] into a URL and builds the handful of other URLs
// the operations need. It deliberately does not build query strings with
// net/url.Values: Values.Encode sorts keys alphabetically, and the wire
// format fixes a specific parameter order that alphabetical sorting cannot
// reproduce.
type Router struct {
	BaseURL      string
	KeyFormatter KeyFormatter
}

// NewRouter returns a router rooted at baseURL (no trailing slash expected).
func NewRouter(baseURL string, keyFormatter KeyFormatter) *Router {
	if keyFormatter == nil {
		keyFormatter = DashCaseFormatter
	}
	return &Router{BaseURL: baseURL, KeyFormatter: keyFormatter}
}

// URLForResourceType returns the collection endpoint for typeName.
func (r *Router) URLForResourceType(typeName string) string {
	return r.BaseURL + "/" + typeName
}

// URLForRelationship returns the relationship endpoint
// <base>/<type>/<id>/relationships/<name> for descriptor on resource.
func (r *Router) URLForRelationship(resource Resource, descriptor RelationshipDescriptor) string {
	data := resource.Data()
	return r.BaseURL + "/" + data.Type + "/" + data.ID + "/relationships/" + descriptor.SerializedName(r.KeyFormatter)
}

// URLForQuery compiles q into a complete URL.
func (r *Router) URLForQuery(q Query) string {
	if q.URL != "" {
		return q.URL
	}

	hasOtherSelectors := len(q.Includes) > 0 || len(q.Filters) > 0 || len(q.Fields) > 0 || len(q.Sort) > 0 || q.Pagination != nil

	var path string
	var idFilter string
	switch {
	case len(q.ResourceIDs) == 1 && !hasOtherSelectors:
		path = r.URLForResourceType(q.ResourceType) + "/" + q.ResourceIDs[0]
	case len(q.ResourceIDs) > 0:
		path = r.URLForResourceType(q.ResourceType)
		idFilter = "filter[id]=" + strings.Join(q.ResourceIDs, ",")
	default:
		path = r.URLForResourceType(q.ResourceType)
	}

	var params []string
	if idFilter != "" {
		params = append(params, idFilter)
	}
	if len(q.Includes) > 0 {
		names := make([]string, len(q.Includes))
		for i, name := range q.Includes {
			names[i] = r.KeyFormatter.Format(name)
		}
		params = append(params, "include="+strings.Join(names, ","))
	}
	for _, p := range q.Filters {
		if p.Operator != OpEqual {
			continue // other operators are reserved for extension
		}
		params = append(params, "filter["+r.KeyFormatter.Format(p.Field)+"]="+p.Value)
	}
	for _, typeName := range sortedFieldKeys(q.Fields) {
		names := make([]string, len(q.Fields[typeName]))
		for i, name := range q.Fields[typeName] {
			names[i] = r.KeyFormatter.Format(name)
		}
		params = append(params, "fields["+typeName+"]="+strings.Join(names, ","))
	}
	if len(q.Sort) > 0 {
		descriptors := make([]string, len(q.Sort))
		for i, s := range q.Sort {
			sign := "+"
			if s.Descending {
				sign = "-"
			}
			descriptors[i] = sign + r.KeyFormatter.Format(s.Field)
		}
		params = append(params, "sort="+strings.Join(descriptors, ","))
	}
	if q.Pagination != nil {
		params = append(params, paginationParams(q.Pagination)...)
	}

	if len(params) == 0 {
		return path
	}
	return path + "?" + strings.Join(params, "&")
}

func paginationParams(p Pagination) []string {
	switch v := p.(type) {
	case PagePagination:
		return []string{"page[number]=" + strconv.Itoa(v.PageNumber) + "&page[size]=" + strconv.Itoa(v.PageSize)}
	case OffsetPagination:
		return []string{"page[offset]=" + strconv.Itoa(v.Offset) + "&page[limit]=" + strconv.Itoa(v.Limit)}
	default:
		return nil
	}
}

// sortedFieldKeys returns the fields map's type names in sorted order: Query
// keeps no insertion order for them and a Go map has no iteration order, so
// the router sorts type names for a stable, repeatable URL. A single-entry
// fields map (the common case) is unaffected.
func sortedFieldKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
