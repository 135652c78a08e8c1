package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// Classifier maps topic labels to full-text keyword expressions
type Classifier struct {
	categories domain.CategorySet
	exprs      map[string]string
}

// NewClassifier precompiles the expression of every category
func NewClassifier(categories domain.CategorySet) *Classifier {
	c := &Classifier{
		categories: categories,
		exprs:      make(map[string]string, categories.Len()),
	}
	for _, name := range categories.Names() {
		cat, _ := categories.Lookup(name)
		if expr := CategoryExpression(cat.Keywords); expr != "" {
			c.exprs[name] = expr
		}
	}
	return c
}

// keywordSeparators splits a keyword into phrase words. Other punctuation
// stays inside the word and is left to the text-search parser.
var keywordSeparators = regexp.MustCompile(`[\s\-_]+`)

// KeywordExpression compiles one keyword. Words are split on whitespace,
// hyphens and underscores; several words become an adjacency phrase.
func KeywordExpression(keyword string) string {
	var words []string
	for _, w := range keywordSeparators.Split(strings.ToLower(keyword), -1) {
		if w != "" {
			words = append(words, w)
		}
	}
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	}
	return "(" + strings.Join(words, " <-> ") + ")"
}

// CategoryExpression ORs the keyword expressions of a category
func CategoryExpression(keywords []string) string {
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if e := KeywordExpression(kw); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " | ")
}

// Expression ORs the expressions of the named categories. Unknown names and
// categories without keywords contribute nothing; false when none remain.
func (c *Classifier) Expression(names ...string) (domain.TextQuery, bool) {
	var exprs []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		expr, ok := c.exprs[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		exprs = append(exprs, expr)
	}

	switch len(exprs) {
	case 0:
		return domain.TextQuery{}, false
	case 1:
		return domain.TextQuery{Expr: exprs[0], Target: domain.TextTargetDocument}, true
	}
	for i, e := range exprs {
		exprs[i] = "(" + e + ")"
	}
	return domain.TextQuery{Expr: strings.Join(exprs, " | "), Target: domain.TextTargetDocument}, true
}

// Predicate returns the text predicate for the named categories, or nil
func (c *Classifier) Predicate(names ...string) domain.Predicate {
	q, ok := c.Expression(names...)
	if !ok {
		return nil
	}
	return domain.TextMatch{Query: q}
}

// Queries returns one expression per category that has keywords, sorted by name
func (c *Classifier) Queries() []domain.TopicQuery {
	out := make([]domain.TopicQuery, 0, len(c.exprs))
	for name, expr := range c.exprs {
		out = append(out, domain.TopicQuery{
			Name:  name,
			Query: domain.TextQuery{Expr: expr, Target: domain.TextTargetDocument},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
