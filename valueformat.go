package jsonapi

import (
	"fmt"
	"net/url"
	"time"
)

// FieldKind classifies an attribute descriptor for the purpose of picking a
// default [ValueFormatter].
type FieldKind int

const (
	// KindPlain is an opaque scalar/string attribute, passed through as-is.
	KindPlain FieldKind = iota
	// KindBoolean coerces wire values to bool.
	KindBoolean
	// KindDate parses/formats wire values against a date layout.
	KindDate
	// KindURL resolves wire values as absolute or base-relative URLs.
	KindURL
	// KindInteger coerces wire values to int64.
	KindInteger
	// KindFloat coerces wire values to float64.
	KindFloat
)

// DefaultDateFormat is the ISO-8601 layout used by [DateAttribute] when no
// format is supplied, translated to Go's reference-time syntax for
// yyyy-MM-dd'T'HH:mm:ss.SSSZZZZZ, UTC.
const DefaultDateFormat = "2006-01-02T15:04:05.000Z07:00"

// ValueFormatter converts a single attribute value between its wire
// representation (whatever encoding/json produced: string, float64, bool,
// map[string]interface{}, nil, ...) and its domain representation.
type ValueFormatter interface {
	// FromWire converts a decoded wire value to the domain representation.
	FromWire(wire interface{}) (interface{}, error)
	// ToWire converts a domain value to a representation encoding/json can
	// marshal directly.
	ToWire(value interface{}) (interface{}, error)
}

// PlainValueFormatter passes values through unchanged in both directions.
type PlainValueFormatter struct{}

// FromWire implements [ValueFormatter].
func (PlainValueFormatter) FromWire(wire interface{}) (interface{}, error) { return wire, nil }

// ToWire implements [ValueFormatter].
func (PlainValueFormatter) ToWire(value interface{}) (interface{}, error) { return value, nil }

// BooleanValueFormatter coerces common wire encodings of a boolean (native
// bool, "true"/"false" strings, and 0/1 numbers) to Go bool.
type BooleanValueFormatter struct{}

// FromWire implements [ValueFormatter].
func (BooleanValueFormatter) FromWire(wire interface{}) (interface{}, error) {
	switch v := wire.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true", "1":
			return true, nil
		case "false", "0", "":
			return false, nil
		}
		return nil, fmt.Errorf("jsonapi: cannot coerce %q to bool", v)
	case float64:
		return v != 0, nil
	case nil:
		return false, nil
	default:
		return nil, fmt.Errorf("jsonapi: cannot coerce %T to bool", wire)
	}
}

// ToWire implements [ValueFormatter].
func (BooleanValueFormatter) ToWire(value interface{}) (interface{}, error) {
	if value == nil {
		return false, nil
	}
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("jsonapi: expected bool, got %T", value)
	}
	return b, nil
}

// IntegerValueFormatter coerces a wire number (always float64 once decoded
// by encoding/json) to int64.
type IntegerValueFormatter struct{}

// FromWire implements [ValueFormatter].
func (IntegerValueFormatter) FromWire(wire interface{}) (interface{}, error) {
	switch v := wire.(type) {
	case float64:
		return int64(v), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("jsonapi: cannot coerce %T to int64", wire)
	}
}

// ToWire implements [ValueFormatter].
func (IntegerValueFormatter) ToWire(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return nil, fmt.Errorf("jsonapi: expected int64, got %T", value)
	}
}

// FloatValueFormatter coerces a wire number to float64.
type FloatValueFormatter struct{}

// FromWire implements [ValueFormatter].
func (FloatValueFormatter) FromWire(wire interface{}) (interface{}, error) {
	switch v := wire.(type) {
	case float64:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("jsonapi: cannot coerce %T to float64", wire)
	}
}

// ToWire implements [ValueFormatter].
func (FloatValueFormatter) ToWire(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return v, nil
	default:
		return nil, fmt.Errorf("jsonapi: expected float64, got %T", value)
	}
}

// DateValueFormatter round-trips an attribute through a time layout, UTC.
type DateValueFormatter struct {
	Format string
}

func (d DateValueFormatter) layout() string {
	if d.Format == "" {
		return DefaultDateFormat
	}
	return d.Format
}

// FromWire implements [ValueFormatter].
func (d DateValueFormatter) FromWire(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	s, ok := wire.(string)
	if !ok {
		return nil, fmt.Errorf("jsonapi: expected string date, got %T", wire)
	}
	t, err := time.Parse(d.layout(), s)
	if err != nil {
		return nil, fmt.Errorf("jsonapi: parsing date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ToWire implements [ValueFormatter].
func (d DateValueFormatter) ToWire(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("jsonapi: expected time.Time, got %T", value)
	}
	return t.UTC().Format(d.layout()), nil
}

// URLValueFormatter resolves a wire URL string against BaseURL when it is
// relative; BaseURL may be nil, in which case relative URLs pass through
// unresolved.
type URLValueFormatter struct {
	BaseURL *url.URL
}

// FromWire implements [ValueFormatter].
func (f URLValueFormatter) FromWire(wire interface{}) (interface{}, error) {
	if wire == nil {
		return nil, nil
	}
	s, ok := wire.(string)
	if !ok {
		return nil, fmt.Errorf("jsonapi: expected string URL, got %T", wire)
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("jsonapi: parsing URL %q: %w", s, err)
	}
	if f.BaseURL != nil && !parsed.IsAbs() {
		parsed = f.BaseURL.ResolveReference(parsed)
	}
	return parsed, nil
}

// ToWire implements [ValueFormatter].
func (f URLValueFormatter) ToWire(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	u, ok := value.(*url.URL)
	if !ok {
		return nil, fmt.Errorf("jsonapi: expected *url.URL, got %T", value)
	}
	return u.String(), nil
}

// ValueFormatterRegistry maps a [FieldKind] to the [ValueFormatter] used for
// attributes of that kind that do not carry a more specific formatter (e.g.
// [DateAttribute] always uses its own layout regardless of the registry).
type ValueFormatterRegistry struct {
	formatters map[FieldKind]ValueFormatter
}

// NewValueFormatterRegistry returns a registry pre-populated with the
// built-in formatters for every [FieldKind].
func NewValueFormatterRegistry() *ValueFormatterRegistry {
	return &ValueFormatterRegistry{
		formatters: map[FieldKind]ValueFormatter{
			KindPlain:   PlainValueFormatter{},
			KindBoolean: BooleanValueFormatter{},
			KindDate:    DateValueFormatter{},
			KindURL:     URLValueFormatter{},
			KindInteger: IntegerValueFormatter{},
			KindFloat:   FloatValueFormatter{},
		},
	}
}

// Set overrides the formatter used for a given kind.
func (r *ValueFormatterRegistry) Set(kind FieldKind, formatter ValueFormatter) {
	r.formatters[kind] = formatter
}

// Get returns the formatter registered for kind, or [PlainValueFormatter] if
// none was registered.
func (r *ValueFormatterRegistry) Get(kind FieldKind) ValueFormatter {
	if f, ok := r.formatters[kind]; ok {
		return f
	}
	return PlainValueFormatter{}
}
