package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

func TestParseTextQuery(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"alpha:*", "alpha:*"},
		{"Alpha", "alpha"},
		{"a & b | c", "((a & b) | c)"},
		{"a | b & c", "(a | (b & c))"},
		{"!a & b", "(!a & b)"},
		{"a <-> b & c", "((a <-> b) & c)"},
		{"a <2> b", "(a <2> b)"},
		{"( a | b ) & c:*", "((a | b) & c:*)"},
		{"'synthetic biology'", "synthetic biology"},
		{"a:AB*", "a:*"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			node, err := ParseTextQuery(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.String())
		})
	}
}

func TestParseTextQuery_Errors(t *testing.T) {
	for _, expr := range []string{"", "   ", "(a", "a)", "a |", "| a", "a b", "a <x> b", "a <- b", "'open", "a & & b", "!"} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseTextQuery(expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidQuery)
		})
	}
}

func TestLexemes(t *testing.T) {
	assert.Equal(t, []string{"title", "zea", "mays", "date", "2020"}, Lexemes(`{"title": "Zea-mays", "date": 2020}`))
	assert.Empty(t, Lexemes("  ,;: "))
}

func TestTextNode_Matches(t *testing.T) {
	doc := Lexemes("Switchgrass biomass from Zea mays with synthetic biology tools")

	tests := []struct {
		expr string
		want bool
	}{
		{"switch:*", true},
		{"switch", false},
		{"biomass & zea", true},
		{"biomass & yeast", false},
		{"yeast | zea", true},
		{"!yeast", true},
		{"!zea", false},
		{"synthetic <-> biology", true},
		{"biology <-> synthetic", false},
		{"zea-mays", true},
		{"zea <2> with", true},
		{"(yeast | biomass) & ! ethanol:*", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			node, err := ParseTextQuery(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Matches(doc))
		})
	}
}
