package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// textSearch is the full-text condition over the whole document
const textSearch = "to_tsvector('simple', json::text) @@ to_tsquery('simple', %s)"

// whereBuilder lowers predicate trees to SQL, collecting positional arguments.
// Field paths and values are always bound, never interpolated.
type whereBuilder struct {
	args []any
}

// arg binds v and returns its placeholder
func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Where lowers p into a boolean SQL expression. A nil predicate is TRUE.
func (b *whereBuilder) Where(p domain.Predicate) (string, error) {
	switch v := p.(type) {
	case nil:
		return "TRUE", nil
	case domain.And:
		return b.join(v, " AND ", "TRUE")
	case domain.Or:
		return b.join(v, " OR ", "FALSE")
	case domain.TextMatch:
		if v.Query.Target != domain.TextTargetDocument {
			return "", fmt.Errorf("unsupported text target %q", v.Query.Target)
		}
		return fmt.Sprintf(textSearch, b.arg(v.Query.Expr)), nil
	case domain.FieldIn:
		if len(v.Values) == 0 {
			return "FALSE", nil
		}
		if v.Fold {
			return fmt.Sprintf("lower(%s) = ANY(%s)", b.field(v.Field), b.arg(pq.Array(lowerAll(v.Values)))), nil
		}
		return fmt.Sprintf("%s = ANY(%s)", b.field(v.Field), b.arg(pq.Array(v.Values))), nil
	case domain.FieldNull:
		return fmt.Sprintf("%s IS NULL", b.field(v.Field)), nil
	case domain.FieldPresent:
		return fmt.Sprintf("COALESCE(btrim(%s), '') <> ''", b.field(v.Field)), nil
	case domain.FieldContains:
		if len(v.Substrings) == 0 {
			return "FALSE", nil
		}
		patterns := make([]string, len(v.Substrings))
		for i, s := range v.Substrings {
			patterns[i] = "%" + escapeLike(s) + "%"
		}
		return fmt.Sprintf("%s ILIKE ANY(%s)", b.field(v.Field), b.arg(pq.Array(patterns))), nil
	case domain.FieldMatches:
		return fmt.Sprintf("%s ~ %s", b.field(v.Field), b.arg(v.Pattern)), nil
	case domain.FieldPrefixIn:
		if len(v.Values) == 0 || v.Length <= 0 {
			return "FALSE", nil
		}
		return fmt.Sprintf("left(%s, %s) = ANY(%s)",
			b.field(v.Field), b.arg(v.Length), b.arg(pq.Array(v.Values))), nil
	case domain.SchemaVersionIn:
		if len(v.Versions) == 0 {
			return "FALSE", nil
		}
		return fmt.Sprintf("schema_version = ANY(%s)", b.arg(pq.Array(v.Versions))), nil
	default:
		return "", fmt.Errorf("unsupported predicate %T", p)
	}
}

func (b *whereBuilder) join(terms []domain.Predicate, op, empty string) (string, error) {
	if len(terms) == 0 {
		return empty, nil
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		sql, err := b.Where(t)
		if err != nil {
			return "", err
		}
		parts[i] = sql
	}
	return "(" + strings.Join(parts, op) + ")", nil
}

// field returns the text projection of a document path
func (b *whereBuilder) field(f domain.Field) string {
	if f.IsDocument() {
		return "json::text"
	}
	return fmt.Sprintf("(json #>> %s::text[])", b.arg(pq.Array([]string(f))))
}

// escapeLike escapes LIKE wildcards using the default backslash escape
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
