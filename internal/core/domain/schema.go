package domain

// SchemaVersion describes a document schema version known to the catalog
type SchemaVersion struct {
	Version   string `json:"version" yaml:"version"`
	Supported bool   `json:"supported" yaml:"supported"`
}

// SchemaRegistry holds the known schema versions and the legacy default
type SchemaRegistry struct {
	Default  string
	Versions []SchemaVersion
}

// Known reports whether version is registered at all
func (r SchemaRegistry) Known(version string) bool {
	for _, v := range r.Versions {
		if v.Version == version {
			return true
		}
	}
	return false
}

// Supported returns the versions visible through public query paths
func (r SchemaRegistry) Supported() []string {
	var out []string
	for _, v := range r.Versions {
		if v.Supported {
			out = append(out, v.Version)
		}
	}
	return out
}

// Resolve returns version, or the default when version is empty
func (r SchemaRegistry) Resolve(version string) string {
	if version == "" {
		return r.Default
	}
	return version
}

// Scope returns the visibility predicate for supported versions
func (r SchemaRegistry) Scope() Predicate {
	return SchemaVersionIn{Versions: r.Supported()}
}
