package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Paging defaults
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// NotSpecified is the filter sentinel for "field missing or explicitly not specified"
const NotSpecified = "Not Specified"

// FilterValue is a filter term: a single string or a list meaning "match any"
type FilterValue []string

// UnmarshalJSON accepts a string, a number, an array of either, or null
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = nil
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(FilterValue, 0, len(raw))
		for _, r := range raw {
			s, err := scalarString(r)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		*v = out
		return nil
	}

	s, err := scalarString(data)
	if err != nil {
		return err
	}
	*v = FilterValue{s}
	return nil
}

func scalarString(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("%w: filter values must be strings or numbers", ErrInvalidInput)
}

// Terms returns the trimmed, non-empty values
func (v FilterValue) Terms() []string {
	var out []string
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Filters carries the structured search filters.
// Unknown JSON keys are dropped on decode.
type Filters struct {
	BRC          FilterValue `json:"brc,omitempty"`
	Repository   FilterValue `json:"repository,omitempty"`
	AnalysisType FilterValue `json:"analysisType,omitempty"`
	Species      FilterValue `json:"species,omitempty"`
	Topic        FilterValue `json:"topic,omitempty"`
	Year         FilterValue `json:"year,omitempty"`
	PersonName   FilterValue `json:"personName,omitempty"`
}

// SearchRequest is an incoming catalog search. A non-blank Sequence turns it
// into a federated sequence search; Query and Filters are then ignored.
type SearchRequest struct {
	Query      string  `json:"query"`
	Filters    Filters `json:"filters"`
	Title      string  `json:"title,omitempty"` // case-insensitive substring of the title
	Sequence   string  `json:"sequence,omitempty"`
	Page       int     `json:"page"`
	Rows       int     `json:"rows"`
	SkipFacets bool    `json:"skipFacets"`
}

// Page is a normalized offset window
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// NormalizePage applies the paging defaults and the hard size cap
func NormalizePage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// TotalPages returns the page count for total rows at the given size
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// SearchEcho echoes the effective request parameters
type SearchEcho struct {
	Query    string  `json:"query"`
	Filters  Filters `json:"filters"`
	Title    string  `json:"title,omitempty"`
	Sequence string  `json:"sequence,omitempty"`
	Page     int     `json:"page"`
	Rows     int     `json:"rows"`
}

// SearchResult is the response of a catalog search
type SearchResult struct {
	Items        []map[string]any `json:"items"`
	TotalResults int              `json:"totalResults"`
	TotalPages   int              `json:"totalPages"`
	Query        SearchEcho       `json:"query"`
	Facets       Facets           `json:"facets,omitempty"`
}
