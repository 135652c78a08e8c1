package query

import (
	"strings"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// Document paths the compiler filters on
var (
	FieldBRC          = domain.ParseField("brc")
	FieldRepository   = domain.ParseField("repository")
	FieldAnalysisType = domain.ParseField("analysisType")
	FieldSpecies      = domain.ParseField("species")
	FieldDate         = domain.ParseField("date")
	FieldCreator      = domain.ParseField("creator")
	FieldContributor  = domain.ParseField("contributor")
	FieldCitation     = domain.ParseField("bibliographicCitation")
	FieldTitle        = domain.ParseField("title")
	FieldIdentifier   = domain.ParseField("identifier")
)

const (
	yearPattern = `^[0-9]{4}`
	// empty list, null literal or whitespace, with or without inner spaces
	emptySpeciesPattern = `^\s*(\[\s*\]|null)?\s*$`
	notSpecifiedValue   = "not specified"
)

// Compiler turns structured filters into predicate fragments
type Compiler struct {
	classifier *Classifier
}

// NewCompiler creates a Compiler resolving topics through classifier
func NewCompiler(classifier *Classifier) *Compiler {
	return &Compiler{classifier: classifier}
}

// Compile returns one fragment per active filter field, in a fixed field order.
// Callers AND the fragments together.
func (c *Compiler) Compile(f domain.Filters) []domain.Predicate {
	fragments := []domain.Predicate{
		membership(FieldBRC, f.BRC.Terms()),
		membership(FieldRepository, f.Repository.Terms()),
		analysisType(f.AnalysisType.Terms()),
		species(f.Species.Terms()),
		c.classifier.Predicate(f.Topic.Terms()...),
		year(f.Year.Terms()),
		personName(f.PersonName.Terms()),
	}

	out := fragments[:0]
	for _, p := range fragments {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func membership(field domain.Field, values []string) domain.Predicate {
	if len(values) == 0 {
		return nil
	}
	return domain.FieldIn{Field: field, Values: values}
}

// splitSentinel separates the "Not Specified" sentinel from ordinary values
func splitSentinel(values []string) (rest []string, sentinel bool) {
	for _, v := range values {
		if strings.EqualFold(v, domain.NotSpecified) {
			sentinel = true
			continue
		}
		rest = append(rest, v)
	}
	return rest, sentinel
}

func analysisType(values []string) domain.Predicate {
	rest, sentinel := splitSentinel(values)
	var terms []domain.Predicate
	if len(rest) > 0 {
		terms = append(terms, domain.FieldIn{Field: FieldAnalysisType, Values: rest, Fold: true})
	}
	if sentinel {
		terms = append(terms,
			domain.FieldNull{Field: FieldAnalysisType},
			domain.FieldIn{Field: FieldAnalysisType, Values: []string{notSpecifiedValue}, Fold: true},
		)
	}
	return domain.Disjoin(terms...)
}

func species(values []string) domain.Predicate {
	rest, sentinel := splitSentinel(values)
	var terms []domain.Predicate
	if len(rest) > 0 {
		terms = append(terms, domain.FieldContains{Field: FieldSpecies, Substrings: rest})
	}
	if sentinel {
		terms = append(terms,
			domain.FieldNull{Field: FieldSpecies},
			domain.FieldMatches{Field: FieldSpecies, Pattern: emptySpeciesPattern},
		)
	}
	return domain.Disjoin(terms...)
}

func year(values []string) domain.Predicate {
	if len(values) == 0 {
		return nil
	}
	return domain.And{
		domain.FieldMatches{Field: FieldDate, Pattern: yearPattern},
		domain.FieldPrefixIn{Field: FieldDate, Length: 4, Values: values},
	}
}

func personName(names []string) domain.Predicate {
	if len(names) == 0 {
		return nil
	}
	return domain.Or{
		domain.FieldContains{Field: FieldCreator, Substrings: names},
		domain.FieldContains{Field: FieldContributor, Substrings: names},
	}
}

// TitleContains matches titles containing term, ignoring case. A blank term
// yields nil.
func TitleContains(term string) domain.Predicate {
	if term = strings.TrimSpace(term); term == "" {
		return nil
	}
	return domain.FieldContains{Field: FieldTitle, Substrings: []string{term}}
}

// Published matches datasets that carry a bibliographic citation
func Published() domain.Predicate {
	return domain.FieldPresent{Field: FieldCitation}
}
