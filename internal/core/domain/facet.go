package domain

import (
	"sort"
)

// FacetDimension names a facet
type FacetDimension string

const (
	FacetYear         FacetDimension = "year"
	FacetBRC          FacetDimension = "brc"
	FacetRepository   FacetDimension = "repository"
	FacetAnalysisType FacetDimension = "analysisType"
	FacetPersonName   FacetDimension = "personName"
	FacetSpecies      FacetDimension = "species"
	FacetTopic        FacetDimension = "topic"
)

// FacetDimensions lists every dimension reported for a search
var FacetDimensions = []FacetDimension{
	FacetYear,
	FacetBRC,
	FacetRepository,
	FacetAnalysisType,
	FacetPersonName,
	FacetSpecies,
	FacetTopic,
}

// MissingName replaces blank species and person names in facets
const MissingName = "NA"

// FacetCount is one raw aggregation row produced by a store
type FacetCount struct {
	Dimension FacetDimension `json:"dimension"`
	Value     string         `json:"value"`
	Count     int            `json:"count"`
}

// FacetValue is a value and the number of matching records carrying it
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets maps each dimension to its values
type Facets map[FacetDimension][]FacetValue

// EmptyFacets returns facets with every dimension present and no values
func EmptyFacets() Facets {
	f := make(Facets, len(FacetDimensions))
	for _, d := range FacetDimensions {
		f[d] = []FacetValue{}
	}
	return f
}

// GroupFacets builds facets from raw rows, sorting each dimension by count
// descending then value ascending. Rows for unknown dimensions are dropped.
func GroupFacets(rows []FacetCount) Facets {
	f := EmptyFacets()
	for _, r := range rows {
		values, ok := f[r.Dimension]
		if !ok || r.Count <= 0 {
			continue
		}
		f[r.Dimension] = append(values, FacetValue{Value: r.Value, Count: r.Count})
	}
	for _, values := range f {
		sort.Slice(values, func(i, j int) bool {
			if values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})
	}
	return f
}
