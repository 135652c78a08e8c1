package domain

import "sort"

// Category is a topic label and the lowercase keywords or phrases that identify it
type Category struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// CategorySet is the read-only topic configuration
type CategorySet struct {
	categories map[string]Category
}

// NewCategorySet builds a set from a name -> keywords map
func NewCategorySet(m map[string][]string) CategorySet {
	set := CategorySet{categories: make(map[string]Category, len(m))}
	for name, keywords := range m {
		kw := make([]string, len(keywords))
		copy(kw, keywords)
		set.categories[name] = Category{Name: name, Keywords: kw}
	}
	return set
}

// Lookup returns the named category
func (s CategorySet) Lookup(name string) (Category, bool) {
	c, ok := s.categories[name]
	return c, ok
}

// Names returns the category names in sorted order
func (s CategorySet) Names() []string {
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of categories
func (s CategorySet) Len() int {
	return len(s.categories)
}

// TopicQuery pairs a category with its compiled full-text expression
type TopicQuery struct {
	Name  string
	Query TextQuery
}
