package domain

import (
	"strings"
	"time"
)

// Dataset is a stored catalog record
type Dataset struct {
	UID           string         `json:"uid"`
	SchemaVersion string         `json:"schema_version"`
	Document      map[string]any `json:"json"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// DatasetUID builds the namespaced primary key for a provider identifier
func DatasetUID(brc, identifier string) string {
	return brc + "_" + identifier
}

// ClientJSON returns the document with record metadata merged in.
// The stored document is not modified.
func (d *Dataset) ClientJSON() map[string]any {
	out := make(map[string]any, len(d.Document)+4)
	for k, v := range d.Document {
		out[k] = v
	}
	out["schema_version"] = d.SchemaVersion
	out["uid"] = d.UID
	out["createdAt"] = d.CreatedAt
	out["updatedAt"] = d.UpdatedAt
	return out
}

// StringField returns a top-level string field of the document, trimmed
func (d *Dataset) StringField(name string) string {
	s, _ := d.Document[name].(string)
	return strings.TrimSpace(s)
}

// Published reports whether the dataset carries a bibliographic citation
func (d *Dataset) Published() bool {
	return d.StringField("bibliographicCitation") != ""
}
