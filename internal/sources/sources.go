// Package sources holds the table that decides which GitHub issues we fetch
// and which category each one is shown under.
//
// Each entry names a repository, a label on that repository, and the
// category issues carrying that label belong to. Labels and categories are
// compared case-insensitively, so both are stored lowercase.
package sources

import (
	"slices"
	"strings"
)

// Source is one (repository, label, category) row.
type Source struct {
	Repo     string `yaml:"repo"     json:"repo"`
	Label    string `yaml:"label"    json:"label"`
	Category string `yaml:"category" json:"category"`
}

// Org returns the owner part of Repo ("emberjs/ember.js" → "emberjs").
func (s Source) Org() string {
	org, _, _ := strings.Cut(s.Repo, "/")
	return org
}

// Table is an immutable, normalised view over a list of sources together
// with the lookups derived from it.
type Table struct {
	sources     []Source
	labels      []string
	orgsByLabel map[string][]string
	categories  []string
	categoryIDs map[string]int
}

// New normalises the given rows and precomputes labels, organisations per
// label and the category index. The input slice is not modified.
func New(rows []Source) *Table {
	t := &Table{
		sources:     make([]Source, 0, len(rows)),
		orgsByLabel: make(map[string][]string),
		categoryIDs: make(map[string]int),
	}

	for _, row := range rows {
		s := Source{
			Repo:     row.Repo,
			Label:    strings.ToLower(row.Label),
			Category: strings.ToLower(row.Category),
		}
		t.sources = append(t.sources, s)

		orgs, seen := t.orgsByLabel[s.Label]
		if !seen {
			t.labels = append(t.labels, s.Label)
		}
		if org := s.Org(); !slices.Contains(orgs, org) {
			t.orgsByLabel[s.Label] = append(orgs, org)
		}

		if _, ok := t.categoryIDs[s.Category]; !ok {
			t.categoryIDs[s.Category] = len(t.categories)
			t.categories = append(t.categories, s.Category)
		}
	}
	return t
}

// Sources returns the normalised rows in configuration order.
func (t *Table) Sources() []Source {
	return append([]Source(nil), t.sources...)
}

// Labels returns every distinct label, in order of first appearance.
func (t *Table) Labels() []string {
	return append([]string(nil), t.labels...)
}

// OrganizationsForLabel returns the distinct organisations carrying label,
// in order of first appearance. Unknown labels yield nil.
func (t *Table) OrganizationsForLabel(label string) []string {
	return append([]string(nil), t.orgsByLabel[strings.ToLower(label)]...)
}

// Categories returns the distinct category names. A category's position in
// this list is its stable identifier.
func (t *Table) Categories() []string {
	return append([]string(nil), t.categories...)
}

// CategoryID returns the position of name in Categories.
func (t *Table) CategoryID(name string) (int, bool) {
	id, ok := t.categoryIDs[strings.ToLower(name)]
	return id, ok
}

// ResolveCategory finds the category configured for labelName on repo.
// The repository must match exactly; the label is compared lowercase.
// ok is false when no row matches, which simply means "uncategorised".
func (t *Table) ResolveCategory(repo, labelName string) (category string, ok bool) {
	labelName = strings.ToLower(labelName)
	for _, s := range t.sources {
		if s.Repo == repo && s.Label == labelName {
			return s.Category, true
		}
	}
	return "", false
}

// Len reports the number of rows.
func (t *Table) Len() int { return len(t.sources) }
