package domain

// Feed is a remote data feed of dataset records
type Feed struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// FeedCounts tallies the records of one feed
type FeedCounts struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// FeedReport is the import outcome for one feed
type FeedReport struct {
	Feed           Feed       `json:"feed"`
	SchemaVersion  string     `json:"schema_version,omitempty"`
	Counts         FeedCounts `json:"counts"`
	InvalidRecords []string   `json:"invalid_records,omitempty"`
	Rejected       string     `json:"rejected,omitempty"` // reason the whole feed was skipped
}

// ImportSummary is the outcome of an import run
type ImportSummary struct {
	Feeds []FeedReport `json:"feeds"`
}

// Upserted returns the number of records written across feeds
func (s *ImportSummary) Upserted() int {
	n := 0
	for _, f := range s.Feeds {
		n += f.Counts.Valid
	}
	return n
}
