package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil passes through", nil, nil},
		{"empty passes through", []string{}, []string{}},
		{"trims whitespace", []string{"  +15550001 ", "\t+15550002"}, []string{"+15550001", "+15550002"}},
		{"drops empties", []string{"wheelchair", "", "   "}, []string{"wheelchair"}},
		{"dedupes preserving order", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"dedupes after trim", []string{" a", "a ", "a"}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.input))
		})
	}
}
