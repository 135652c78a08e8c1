package domain

import (
	"strconv"
	"strings"
)

// Field is a path into the JSON document.
// The zero value addresses the whole document.
type Field []string

// ParseField splits a dotted path such as "species" or "creator.name"
func ParseField(path string) Field {
	if path == "" {
		return nil
	}
	return Field(strings.Split(path, "."))
}

// IsDocument reports whether the field addresses the whole document
func (f Field) IsDocument() bool {
	return len(f) == 0
}

func (f Field) String() string {
	if f.IsDocument() {
		return "$"
	}
	return strings.Join(f, ".")
}

// TextTarget names the projection a full-text query is evaluated against
type TextTarget string

const (
	// TextTargetDocument is the JSON document cast to text under the "simple" configuration
	TextTargetDocument TextTarget = "document"
)

// TextQuery is a boolean full-text expression (& | ! <-> and parentheses)
type TextQuery struct {
	Expr   string     `json:"expr"`
	Target TextTarget `json:"target"`
}

// Predicate is a store-agnostic filter expression.
// Adapters lower it to SQL or evaluate it in memory.
type Predicate interface {
	// String returns a canonical rendering, stable for equal trees
	String() string
	predicate()
}

// And matches when every term matches
type And []Predicate

// Or matches when at least one term matches
type Or []Predicate

// TextMatch matches documents whose full-text vector satisfies the query
type TextMatch struct {
	Query TextQuery
}

// FieldIn matches when the field's text value equals one of Values.
// Fold compares case-insensitively.
type FieldIn struct {
	Field  Field
	Values []string
	Fold   bool
}

// FieldNull matches when the field is absent or JSON null
type FieldNull struct {
	Field Field
}

// FieldPresent matches when the field holds a non-blank value
type FieldPresent struct {
	Field Field
}

// FieldContains matches when the serialized field contains any of the substrings,
// compared case-insensitively
type FieldContains struct {
	Field      Field
	Substrings []string
}

// FieldMatches matches when the serialized field matches a regular expression.
// Patterns must stay within the subset shared by RE2 and PostgreSQL ARE.
type FieldMatches struct {
	Field   Field
	Pattern string
}

// FieldPrefixIn matches when the first Length characters of the field equal one of Values
type FieldPrefixIn struct {
	Field  Field
	Length int
	Values []string
}

// SchemaVersionIn restricts records to the given schema versions (record column, not document)
type SchemaVersionIn struct {
	Versions []string
}

func (And) predicate()             {}
func (Or) predicate()              {}
func (TextMatch) predicate()       {}
func (FieldIn) predicate()         {}
func (FieldNull) predicate()       {}
func (FieldPresent) predicate()    {}
func (FieldContains) predicate()   {}
func (FieldMatches) predicate()    {}
func (FieldPrefixIn) predicate()   {}
func (SchemaVersionIn) predicate() {}

func (p And) String() string { return "and(" + joinPredicates(p) + ")" }
func (p Or) String() string  { return "or(" + joinPredicates(p) + ")" }

func (p TextMatch) String() string {
	return "text(" + string(p.Query.Target) + ", " + strconv.Quote(p.Query.Expr) + ")"
}

func (p FieldIn) String() string {
	op := "in"
	if p.Fold {
		op = "ilike_in"
	}
	return op + "(" + p.Field.String() + ", " + quoteAll(p.Values) + ")"
}

func (p FieldNull) String() string    { return "null(" + p.Field.String() + ")" }
func (p FieldPresent) String() string { return "present(" + p.Field.String() + ")" }

func (p FieldContains) String() string {
	return "contains(" + p.Field.String() + ", " + quoteAll(p.Substrings) + ")"
}

func (p FieldMatches) String() string {
	return "matches(" + p.Field.String() + ", " + strconv.Quote(p.Pattern) + ")"
}

func (p FieldPrefixIn) String() string {
	return "prefix(" + p.Field.String() + ", " + strconv.Itoa(p.Length) + ", " + quoteAll(p.Values) + ")"
}

func (p SchemaVersionIn) String() string {
	return "schema_version(" + quoteAll(p.Versions) + ")"
}

// Conjoin ANDs the non-nil predicates, flattening nested conjunctions.
// Returns nil when nothing remains, which stores treat as match-all.
func Conjoin(preds ...Predicate) Predicate {
	var terms And
	for _, p := range preds {
		switch v := p.(type) {
		case nil:
		case And:
			for _, t := range v {
				if t != nil {
					terms = append(terms, t)
				}
			}
		default:
			terms = append(terms, v)
		}
	}
	switch len(terms) {
	case 0:
		return nil
	case 1:
		return terms[0]
	}
	return terms
}

// Disjoin ORs the non-nil predicates. Returns nil when nothing remains.
func Disjoin(preds ...Predicate) Predicate {
	var terms Or
	for _, p := range preds {
		if p != nil {
			terms = append(terms, p)
		}
	}
	switch len(terms) {
	case 0:
		return nil
	case 1:
		return terms[0]
	}
	return terms
}

// PredicateString renders p, including the nil match-all predicate
func PredicateString(p Predicate) string {
	if p == nil {
		return "true"
	}
	return p.String()
}

func joinPredicates(ps []Predicate) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = PredicateString(p)
	}
	return strings.Join(parts, ", ")
}

func quoteAll(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
