package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/query"
)

// matcher is a compiled predicate
type matcher func(r *record) bool

func matchAll(*record) bool { return true }

// compile turns a predicate tree into a matcher. Regular expressions and
// text queries are parsed once per call, not per record.
func compile(p domain.Predicate) (matcher, error) {
	switch v := p.(type) {
	case nil:
		return matchAll, nil
	case domain.And:
		ms, err := compileAll(v)
		if err != nil {
			return nil, err
		}
		return func(r *record) bool {
			for _, m := range ms {
				if !m(r) {
					return false
				}
			}
			return true
		}, nil
	case domain.Or:
		ms, err := compileAll(v)
		if err != nil {
			return nil, err
		}
		return func(r *record) bool {
			for _, m := range ms {
				if m(r) {
					return true
				}
			}
			return false
		}, nil
	case domain.TextMatch:
		return compileText(v.Query)
	case domain.FieldIn:
		set := make(map[string]bool, len(v.Values))
		for _, s := range v.Values {
			if v.Fold {
				s = strings.ToLower(s)
			}
			set[s] = true
		}
		return func(r *record) bool {
			s, ok := r.text(v.Field)
			if !ok {
				return false
			}
			if v.Fold {
				s = strings.ToLower(s)
			}
			return set[s]
		}, nil
	case domain.FieldNull:
		return func(r *record) bool {
			_, ok := r.text(v.Field)
			return !ok
		}, nil
	case domain.FieldPresent:
		return func(r *record) bool {
			s, ok := r.text(v.Field)
			return ok && strings.TrimSpace(s) != ""
		}, nil
	case domain.FieldContains:
		subs := make([]string, len(v.Substrings))
		for i, s := range v.Substrings {
			subs[i] = strings.ToLower(s)
		}
		return func(r *record) bool {
			s, ok := r.text(v.Field)
			if !ok {
				return false
			}
			s = strings.ToLower(s)
			for _, sub := range subs {
				if strings.Contains(s, sub) {
					return true
				}
			}
			return false
		}, nil
	case domain.FieldMatches:
		re, err := regexp.Compile(v.Pattern)
		if err != nil {
			return nil, fmt.Errorf("field pattern %q: %w", v.Pattern, err)
		}
		return func(r *record) bool {
			s, ok := r.text(v.Field)
			return ok && re.MatchString(s)
		}, nil
	case domain.FieldPrefixIn:
		set := make(map[string]bool, len(v.Values))
		for _, s := range v.Values {
			set[s] = true
		}
		return func(r *record) bool {
			s, ok := r.text(v.Field)
			if !ok || v.Length <= 0 {
				return false
			}
			return set[prefix(s, v.Length)]
		}, nil
	case domain.SchemaVersionIn:
		set := make(map[string]bool, len(v.Versions))
		for _, s := range v.Versions {
			set[s] = true
		}
		return func(r *record) bool { return set[r.schemaVersion] }, nil
	default:
		return nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func compileAll(ps []domain.Predicate) ([]matcher, error) {
	ms := make([]matcher, len(ps))
	for i, p := range ps {
		m, err := compile(p)
		if err != nil {
			return nil, err
		}
		ms[i] = m
	}
	return ms, nil
}

func compileText(q domain.TextQuery) (matcher, error) {
	if q.Target != domain.TextTargetDocument {
		return nil, fmt.Errorf("unsupported text target %q", q.Target)
	}
	node, err := query.ParseTextQuery(q.Expr)
	if err != nil {
		return nil, err
	}
	return func(r *record) bool { return node.Matches(r.lexemes) }, nil
}

// prefix returns the first n runes of s
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) < n {
		return s
	}
	return string(runes[:n])
}

// lookup walks a path through objects and arrays
func lookup(v any, path domain.Field) (any, bool) {
	for _, key := range path {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, v != nil
}

// textOf renders a JSON value the way the database's text extraction does:
// strings unquoted, everything else serialized.
func textOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return marshal(v)
}

func marshal(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
