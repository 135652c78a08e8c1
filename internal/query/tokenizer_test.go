package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

func TestLex(t *testing.T) {
	tokens := Lex("switchgrass OR (yeast NOT ethanol) orange | !x")

	var kinds []TokenKind
	var texts []string
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}

	assert.Equal(t, []string{"switchgrass", "OR", "(", "yeast", "NOT", "ethanol", ")", "orange", "|", "!x"}, texts)
	assert.Equal(t, []TokenKind{
		TokenTerm, TokenOr, TokenOpen, TokenTerm, TokenNot, TokenTerm, TokenClose, TokenTerm, TokenOperator, TokenTerm,
	}, kinds)
}

func TestLex_KeywordsAnyCase(t *testing.T) {
	tokens := Lex("a or b not c")
	require.Len(t, tokens, 5)
	assert.Equal(t, TokenOr, tokens[1].Kind)
	assert.Equal(t, TokenNot, tokens[3].Kind)
}

func TestLex_KeywordInsideWord(t *testing.T) {
	tokens := Lex("ORNL notable")
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenTerm, tokens[0].Kind)
	assert.Equal(t, TokenTerm, tokens[1].Kind)
}

func TestLex_ParensSplitWords(t *testing.T) {
	tokens := Lex("foo(bar)")
	require.Len(t, tokens, 4)
	assert.Equal(t, "foo", tokens[0].Text)
	assert.Equal(t, TokenOpen, tokens[1].Kind)
	assert.Equal(t, "bar", tokens[2].Text)
	assert.Equal(t, TokenClose, tokens[3].Kind)
}

func TestRewrite(t *testing.T) {
	got := Rewrite(Lex("alpha OR (beta NOT gamma) |"))
	assert.Equal(t, []string{"alpha:* &", "|", "(", "beta:* &", "!", "gamma:* &", ") &", "|"}, got)
}

func TestCollapse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing conjunction", "alpha:* & beta:* &", "alpha:* & beta:*"},
		{"conjunction before or", "alpha:* & | beta:*", "alpha:* | beta:*"},
		{"conjunction before close", "( alpha:* & ) & beta:*", "( alpha:* ) & beta:*"},
		{"wide whitespace", "alpha:* &   |  beta:*", "alpha:* |  beta:*"},
		{"nothing to do", "alpha:*", "alpha:*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collapse(tt.in))
		})
	}
}

func TestTokenize_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		_, ok := Tokenize(in)
		assert.False(t, ok, "expected no predicate for %q", in)
	}
}

func TestTokenize_LiteralWords(t *testing.T) {
	inputs := []string{"switchgrass", "zea mays", "corn stover biomass lignin"}

	for _, in := range inputs {
		q, ok := Tokenize(in)
		require.True(t, ok)
		words := strings.Fields(in)

		assert.Equal(t, len(words), strings.Count(q.Expr, ":*"), "one prefix term per word in %q", q.Expr)
		assert.Equal(t, len(words)-1, strings.Count(q.Expr, "&"), "conjunctions between words in %q", q.Expr)
		assert.False(t, strings.HasSuffix(q.Expr, "&"), "dangling operator in %q", q.Expr)
		assert.Equal(t, domain.TextTargetDocument, q.Target)
		require.NoError(t, ValidateTextQuery(q))
	}
}

func TestTokenize_Operators(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alpha OR beta", "alpha:* | beta:*"},
		{"alpha NOT beta", "alpha:* & ! beta:*"},
		{"NOT alpha", "! alpha:*"},
		{"(alpha OR beta) gamma", "( alpha:* | beta:* ) & gamma:*"},
		{"alpha (beta)", "alpha:* & ( beta:* )"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, ok := Tokenize(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, q.Expr)
			assert.NoError(t, ValidateTextQuery(q))
		})
	}
}

func TestTokenize_MalformedPassesThrough(t *testing.T) {
	for _, in := range []string{"(alpha", "alpha)", "alpha OR", "OR alpha", "alpha NOT"} {
		q, ok := Tokenize(in)
		require.True(t, ok, "tokenizer must not reject %q", in)
		assert.ErrorIs(t, ValidateTextQuery(q), domain.ErrInvalidQuery, "expected %q (%q) to be invalid", in, q.Expr)
	}
}
