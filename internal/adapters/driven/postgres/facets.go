package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// scalarFacet groups a top-level string field, skipping blank values
const scalarFacet = `
	SELECT '%[1]s'::text, json ->> '%[2]s', COUNT(*)
	FROM filtered
	WHERE COALESCE(btrim(json ->> '%[2]s'), '') <> ''
	GROUP BY 2`

// arrayOf yields the field as a JSON array, or an empty one
const arrayOf = "CASE WHEN jsonb_typeof(json -> '%[1]s') = 'array' THEN json -> '%[1]s' ELSE '[]'::jsonb END"

// FacetCounts computes every facet dimension over datasets matching where
// in a single statement. The filtered set is materialized once.
func (s *DatasetStore) FacetCounts(ctx context.Context, where domain.Predicate, topics []domain.TopicQuery) ([]domain.FacetCount, error) {
	query, args, err := facetQuery(where, topics)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("facet query: %w", err)
	}
	defer rows.Close()

	var out []domain.FacetCount
	for rows.Next() {
		var fc domain.FacetCount
		var dim string
		if err := rows.Scan(&dim, &fc.Value, &fc.Count); err != nil {
			return nil, err
		}
		fc.Dimension = domain.FacetDimension(dim)
		out = append(out, fc)
	}
	return out, rows.Err()
}

func facetQuery(where domain.Predicate, topics []domain.TopicQuery) (string, []any, error) {
	b := &whereBuilder{}
	cond, err := b.Where(where)
	if err != nil {
		return "", nil, err
	}

	parts := []string{
		fmt.Sprintf(`
	SELECT '%s'::text, left(json ->> 'date', 4), COUNT(*)
	FROM filtered
	WHERE json ->> 'date' ~ '^[0-9]{4}'
	GROUP BY 2`, domain.FacetYear),
		fmt.Sprintf(scalarFacet, domain.FacetBRC, "brc"),
		fmt.Sprintf(scalarFacet, domain.FacetRepository, "repository"),
		fmt.Sprintf(scalarFacet, domain.FacetAnalysisType, "analysisType"),
		fmt.Sprintf(`
	SELECT '%s'::text, COALESCE(NULLIF(btrim(sp ->> 'scientificName'), ''), '%s'), COUNT(*)
	FROM filtered, jsonb_array_elements(%s) AS sp
	GROUP BY 2`, domain.FacetSpecies, domain.MissingName, fmt.Sprintf(arrayOf, "species")),
		fmt.Sprintf(`
	SELECT '%s'::text, COALESCE(NULLIF(btrim(p ->> 'name'), ''), '%s'), COUNT(DISTINCT uid)
	FROM filtered, jsonb_array_elements(%s || %s) AS p
	GROUP BY 2`, domain.FacetPersonName, domain.MissingName,
			fmt.Sprintf(arrayOf, "creator"), fmt.Sprintf(arrayOf, "contributor")),
	}

	if len(topics) > 0 {
		names := make([]string, len(topics))
		exprs := make([]string, len(topics))
		for i, t := range topics {
			names[i] = t.Name
			exprs[i] = t.Query.Expr
		}
		parts = append(parts, fmt.Sprintf(`
	SELECT '%s'::text, t.name, COUNT(*)
	FROM filtered, unnest(%s::text[], %s::text[]) AS t(name, expr)
	WHERE `+fmt.Sprintf(textSearch, "t.expr")+`
	GROUP BY 2`, domain.FacetTopic, b.arg(pq.Array(names)), b.arg(pq.Array(exprs))))
	}

	query := "WITH filtered AS (SELECT uid, json FROM datasets WHERE " + cond + ")" +
		strings.Join(parts, "\n\tUNION ALL")
	return query, b.args, nil
}
