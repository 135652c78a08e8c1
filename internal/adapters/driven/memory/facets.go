package memory

import (
	"context"
	"strings"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// FacetCounts computes every facet dimension over datasets matching where
func (s *DatasetStore) FacetCounts(ctx context.Context, where domain.Predicate, topics []domain.TopicQuery) ([]domain.FacetCount, error) {
	matched, err := s.match(ctx, where)
	if err != nil {
		return nil, err
	}

	topicMatchers := make([]matcher, len(topics))
	for i, t := range topics {
		m, err := compileText(t.Query)
		if err != nil {
			return nil, err
		}
		topicMatchers[i] = m
	}

	c := newCounter()
	for _, r := range matched {
		if d := r.sortDate(); d != "" {
			c.add(domain.FacetYear, prefix(d, 4))
		}
		for _, dim := range []domain.FacetDimension{domain.FacetBRC, domain.FacetRepository, domain.FacetAnalysisType} {
			if v, ok := r.text(domain.Field{string(dim)}); ok && strings.TrimSpace(v) != "" {
				c.add(dim, v)
			}
		}
		for _, sp := range arrayOf(r.doc, "species") {
			c.add(domain.FacetSpecies, nameOf(sp, "scientificName"))
		}
		seen := make(map[string]bool)
		for _, p := range append(arrayOf(r.doc, "creator"), arrayOf(r.doc, "contributor")...) {
			name := nameOf(p, "name")
			if !seen[name] {
				seen[name] = true
				c.add(domain.FacetPersonName, name)
			}
		}
		for i, m := range topicMatchers {
			if m(r) {
				c.add(domain.FacetTopic, topics[i].Name)
			}
		}
	}
	return c.rows, nil
}

// arrayOf returns the elements of an array field, or nil when not an array
func arrayOf(doc map[string]any, key string) []any {
	arr, _ := doc[key].([]any)
	return arr
}

// nameOf extracts a text property of an array element, MissingName when blank
func nameOf(v any, key string) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return domain.MissingName
	}
	raw, ok := obj[key]
	if !ok || raw == nil {
		return domain.MissingName
	}
	name := textOf(raw)
	if strings.TrimSpace(name) == "" {
		return domain.MissingName
	}
	return name
}

type counterKey struct {
	dim   domain.FacetDimension
	value string
}

// counter accumulates facet rows in first-seen order
type counter struct {
	index map[counterKey]int
	rows  []domain.FacetCount
}

func newCounter() *counter {
	return &counter{index: make(map[counterKey]int)}
}

func (c *counter) add(dim domain.FacetDimension, value string) {
	k := counterKey{dim, value}
	if i, ok := c.index[k]; ok {
		c.rows[i].Count++
		return
	}
	c.index[k] = len(c.rows)
	c.rows = append(c.rows, domain.FacetCount{Dimension: dim, Value: value, Count: 1})
}
