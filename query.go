package jsonapi

// ComparisonOperator is the relational operator of a [ComparisonPredicate].
// Only [OpEqual] currently compiles to a query-string filter; the others are
// accepted by the value type so callers can construct them ahead of router
// support, reserved for future extension.
type ComparisonOperator int

const (
	OpEqual ComparisonOperator = iota
	OpNotEqual
	OpLessThan
	OpLessOrEqual
	OpGreaterThan
	OpGreaterOrEqual
)

// ComparisonPredicate constrains a field path to a constant value.
type ComparisonPredicate struct {
	Field    string
	Operator ComparisonOperator
	Value    string
}

// SortDescriptor orders results by Field, ascending unless Descending.
type SortDescriptor struct {
	Field      string
	Descending bool
}

// Pagination is implemented by the pluggable pagination strategies
// ([PagePagination], [OffsetPagination]).
type Pagination interface {
	isPagination()
}

// PagePagination requests a page number of a fixed page size.
type PagePagination struct {
	PageNumber int
	PageSize   int
}

func (PagePagination) isPagination() {}

// OffsetPagination requests limit results starting at offset.
type OffsetPagination struct {
	Offset int
	Limit  int
}

func (OffsetPagination) isPagination() {}

// Query is the composable, immutable description of a read compiled by the
// [Router] into a URL. The zero value is a query for no particular
// resource; each With* method returns a modified copy, leaving the receiver
// untouched, in the same spirit as the field descriptors' functional
// options.
type Query struct {
	ResourceType string
	ResourceIDs  []string
	URL          string // escape hatch: a server-provided href, used verbatim
	Includes     []string
	Filters      []ComparisonPredicate
	Fields       map[string][]string
	Sort         []SortDescriptor
	Pagination   Pagination
}

// QueryForType starts a query against every resource of typeName.
func QueryForType(typeName string) Query {
	return Query{ResourceType: typeName}
}

// QueryForIDs starts a query for specific ids of typeName.
func QueryForIDs(typeName string, ids ...string) Query {
	return Query{ResourceType: typeName, ResourceIDs: append([]string{}, ids...)}
}

// QueryForURL starts a query that routes verbatim to url, bypassing path
// composition entirely.
func QueryForURL(url string) Query {
	return Query{URL: url}
}

// QueryForResource returns the canonical single-resource query for r:
// its type and id.
func QueryForResource(r Resource) Query {
	return QueryForIDs(r.Data().Type, r.Data().ID)
}

// WithInclude appends relationship names to be compiled into `include=`.
func (q Query) WithInclude(names ...string) Query {
	q.Includes = append(append([]string{}, q.Includes...), names...)
	return q
}

// WithFilter appends an equality predicate.
func (q Query) WithFilter(field, value string) Query {
	q.Filters = append(append([]ComparisonPredicate{}, q.Filters...), ComparisonPredicate{Field: field, Operator: OpEqual, Value: value})
	return q
}

// WithFields restricts the sparse fieldset for typeName.
func (q Query) WithFields(typeName string, fields ...string) Query {
	next := make(map[string][]string, len(q.Fields)+1)
	for k, v := range q.Fields {
		next[k] = v
	}
	next[typeName] = append([]string{}, fields...)
	q.Fields = next
	return q
}

// WithSort appends a sort descriptor, ascending unless descending is true.
func (q Query) WithSort(field string, descending bool) Query {
	q.Sort = append(append([]SortDescriptor{}, q.Sort...), SortDescriptor{Field: field, Descending: descending})
	return q
}

// WithPagination sets the pagination strategy.
func (q Query) WithPagination(p Pagination) Query {
	q.Pagination = p
	return q
}
