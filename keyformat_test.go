package jsonapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDashCaseFormatter_Format tests camelCase/PascalCase to dash-case
// conversion, including runs of capitals.
func TestDashCaseFormatter_Format(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"camelCase", "toOneAttribute", "to-one-attribute"},
		{"single word", "name", "name"},
		{"leading capital", "ID", "id"},
		{"acronym run", "HTTPServer", "http-server"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DashCaseFormatter.Format(tt.input))
		})
	}
}

// TestPassthroughKeyFormatter tests that names pass through unchanged.
func TestPassthroughKeyFormatter(t *testing.T) {
	assert.Equal(t, "toOneAttribute", PassthroughKeyFormatter.Format("toOneAttribute"))
}
