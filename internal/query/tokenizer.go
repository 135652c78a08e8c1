package query

import (
	"regexp"
	"strings"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// TokenKind classifies a lexed free-text token
type TokenKind int

const (
	TokenTerm     TokenKind = iota // literal word
	TokenOr                        // OR keyword
	TokenNot                       // NOT keyword
	TokenOpen                      // (
	TokenClose                     // )
	TokenOperator                  // literal | or !
)

// Token is a lexed unit of free text
type Token struct {
	Kind TokenKind
	Text string
}

var tokenPattern = regexp.MustCompile(`(?i)(\(|\)|\bOR\b|\bNOT\b|[^\s()]+)`)

// Lex splits free text on whitespace, keeping parentheses and the OR/NOT
// keywords (any case) as standalone tokens
func Lex(input string) []Token {
	matches := tokenPattern.FindAllString(strings.TrimSpace(input), -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, Token{Kind: classify(m), Text: m})
	}
	return tokens
}

func classify(s string) TokenKind {
	switch strings.ToUpper(s) {
	case "OR":
		return TokenOr
	case "NOT":
		return TokenNot
	case "(":
		return TokenOpen
	case ")":
		return TokenClose
	case "|", "!":
		return TokenOperator
	}
	return TokenTerm
}

// Rewrite maps tokens to tsquery fragments. Literals gain a prefix wildcard
// and a trailing conjunction; closing parens are conjoined with what follows.
func Rewrite(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		switch t.Kind {
		case TokenOr:
			out = append(out, "|")
		case TokenNot:
			out = append(out, "!")
		case TokenClose:
			out = append(out, ") &")
		case TokenOpen, TokenOperator:
			out = append(out, t.Text)
		default:
			out = append(out, t.Text+":* &")
		}
	}
	return out
}

var (
	conjunctionBeforeOr    = regexp.MustCompile(`&\s+\|`)
	conjunctionBeforeClose = regexp.MustCompile(`&\s+\)`)
)

// Collapse removes the conjunctions Rewrite leaves dangling: a trailing "&",
// "& |" becomes "|" and "& )" becomes ")"
func Collapse(expr string) string {
	expr = strings.TrimSuffix(expr, "&")
	expr = conjunctionBeforeOr.ReplaceAllString(expr, "|")
	expr = conjunctionBeforeClose.ReplaceAllString(expr, ")")
	return strings.TrimSpace(expr)
}

// Tokenize turns free text into a full-text query over the whole document.
// It reports false when the input holds no tokens. The result is not
// validated; see ParseTextQuery.
func Tokenize(input string) (domain.TextQuery, bool) {
	tokens := Lex(input)
	if len(tokens) == 0 {
		return domain.TextQuery{}, false
	}
	expr := Collapse(strings.Join(Rewrite(tokens), " "))
	if expr == "" {
		return domain.TextQuery{}, false
	}
	return domain.TextQuery{Expr: expr, Target: domain.TextTargetDocument}, true
}
