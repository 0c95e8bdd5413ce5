// Package issues is the in-memory issue store behind GET /github-issues.
//
// Raw GitHub search results are normalised into three record kinds (issues,
// labels and categories) that reference each other by id, the same shape the
// API serves. A small inverted index maps filter keys such as
// "category:core" to the ids of matching issues, and lookups intersect the
// sets for every requested key.
//
// A Store is filled once and then read. To refresh, build a new Store and
// swap it in; never re-ingest into a Store that is being served.
package issues

import (
	"errors"
	"fmt"
	"sync"

	gh "github.com/google/go-github/v80/github"

	"github.com/ahmednasr/help-wanted/internal/sources"
)

// Structural errors returned by Ingest for payloads missing required fields.
var (
	ErrMalformedIssue = errors.New("issues: malformed issue")
	ErrMalformedLabel = errors.New("issues: malformed label")
)

type issueRecord struct {
	id     int64
	attrs  map[string]any
	labels []int64
	keys   []string // index keys this issue is currently listed under
}

type labelRecord struct {
	id       int64
	attrs    map[string]any
	category *int
}

type categoryRecord struct {
	id   int
	name string
}

// Store holds normalised issues, labels and categories plus the search index.
// It is safe for concurrent use: Ingest runs each page under a write lock, so
// pages from concurrent fetches interleave but never mix.
type Store struct {
	mu    sync.RWMutex
	table *sources.Table

	issues     map[int64]*issueRecord
	order      []int64 // issue ids in first-insertion order
	labels     map[int64]*labelRecord
	categories map[int]*categoryRecord
	index      searchIndex
}

// New returns an empty store that categorises labels using table.
func New(table *sources.Table) *Store {
	return &Store{
		table:      table,
		issues:     make(map[int64]*issueRecord),
		labels:     make(map[int64]*labelRecord),
		categories: make(map[int]*categoryRecord),
		index:      make(searchIndex),
	}
}

// Ingest normalises and stores every issue of one search-results page.
// Issues are processed in order; on error the issues before the failing one
// remain stored.
func (s *Store) Ingest(page []*gh.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, raw := range page {
		if err := s.processIssue(raw); err != nil {
			return fmt.Errorf("page item %d: %w", i, err)
		}
	}
	return nil
}

// Len reports the number of stored issues.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issues)
}

func (s *Store) processIssue(raw *gh.Issue) error {
	if raw == nil || raw.ID == nil {
		return fmt.Errorf("%w: missing id", ErrMalformedIssue)
	}
	if raw.RepositoryURL == nil {
		return fmt.Errorf("%w: issue %d has no repository_url", ErrMalformedIssue, raw.GetID())
	}

	issue := &issueRecord{
		id:    raw.GetID(),
		attrs: issueAttributes(raw),
	}
	repoName, _ := issue.attrs[AttrRepositoryName].(string)

	seen := make(map[int64]bool, len(raw.Labels))
	for _, rawLabel := range raw.Labels {
		labelID, err := s.processLabel(repoName, rawLabel)
		if err != nil {
			return fmt.Errorf("issue %d: %w", issue.id, err)
		}
		if !seen[labelID] {
			seen[labelID] = true
			issue.labels = append(issue.labels, labelID)
		}
	}

	s.saveIssue(issue)
	return nil
}

// saveIssue stores issue, replacing any earlier record with the same id, and
// brings the index in line with the issue's current labels.
func (s *Store) saveIssue(issue *issueRecord) {
	if old, ok := s.issues[issue.id]; ok {
		for _, key := range old.keys {
			s.index.remove(key, old.id)
		}
	} else {
		s.order = append(s.order, issue.id)
	}
	s.issues[issue.id] = issue

	for _, labelID := range issue.labels {
		label := s.labels[labelID]
		if label == nil || label.category == nil {
			continue
		}
		key := categoryKey(s.categories[*label.category].name)
		if s.index.add(key, issue.id) {
			issue.keys = append(issue.keys, key)
		}
	}
}

// processLabel stores the label (overwriting any earlier copy with the same
// id) and returns its id.
func (s *Store) processLabel(repoName string, raw *gh.Label) (int64, error) {
	if raw == nil || raw.ID == nil {
		return 0, fmt.Errorf("%w: missing id", ErrMalformedLabel)
	}
	if raw.Name == nil {
		return 0, fmt.Errorf("%w: label %d has no name", ErrMalformedLabel, raw.GetID())
	}

	label := &labelRecord{
		id:       raw.GetID(),
		attrs:    labelAttributes(raw),
		category: s.processCategory(repoName, raw.GetName()),
	}
	s.labels[label.id] = label
	return label.id, nil
}

// processCategory resolves the category for a label seen on repoName,
// creating the category record on first use. It returns nil when the label
// is not configured for that repository.
func (s *Store) processCategory(repoName, labelName string) *int {
	name, ok := s.table.ResolveCategory(repoName, labelName)
	if !ok {
		return nil
	}
	// A resolved name always has an id in the same table.
	id, _ := s.table.CategoryID(name)
	if _, exists := s.categories[id]; !exists {
		s.categories[id] = &categoryRecord{id: id, name: name}
	}
	return &id
}
