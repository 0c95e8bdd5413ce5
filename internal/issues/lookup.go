package issues

import (
	"maps"

	"github.com/ahmednasr/help-wanted/internal/models"
)

// Query filters a lookup. Empty fields do not filter.
type Query struct {
	Category string
}

// requiredKeys lists the index keys an issue must be under to match.
func (q Query) requiredKeys() []string {
	var keys []string
	if q.Category != "" {
		keys = append(keys, categoryKey(q.Category))
	}
	return keys
}

// Lookup returns the issues matching q together with every label and
// category they reference. Without filters every issue is returned.
// Unknown categories produce an empty document, not an error.
func (s *Store) Lookup(q Query) models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := q.requiredKeys()
	if len(keys) == 0 {
		return s.formatResponse(s.collect(nil))
	}

	matching := s.index.lookup(keys[0])
	for _, key := range keys[1:] {
		if len(matching) == 0 {
			break
		}
		matching = intersect(matching, s.index.lookup(key))
	}
	return s.formatResponse(s.collect(matching))
}

// collect returns the records for ids in insertion order; a nil set selects
// every issue.
func (s *Store) collect(ids idSet) []*issueRecord {
	out := make([]*issueRecord, 0, len(s.order))
	for _, id := range s.order {
		if ids != nil && !ids.has(id) {
			continue
		}
		out = append(out, s.issues[id])
	}
	return out
}

func (s *Store) formatResponse(issues []*issueRecord) models.Document {
	doc := models.Document{
		Meta:     models.Meta{Total: len(issues)},
		Data:     make([]models.Resource, 0, len(issues)),
		Included: s.included(issues),
	}
	for _, issue := range issues {
		doc.Data = append(doc.Data, issueResource(issue))
	}
	return doc
}

// included lists each label and category referenced by issues once, in order
// of first reference.
func (s *Store) included(issues []*issueRecord) []models.Resource {
	out := []models.Resource{}
	seen := make(map[models.Ref]bool)
	add := func(r models.Resource) {
		if ref := r.Ref(); !seen[ref] {
			seen[ref] = true
			out = append(out, r)
		}
	}

	for _, issue := range issues {
		for _, labelID := range issue.labels {
			label, ok := s.labels[labelID]
			if !ok {
				continue
			}
			add(labelResource(label))
			if label.category != nil {
				if category, ok := s.categories[*label.category]; ok {
					add(categoryResource(category))
				}
			}
		}
	}
	return out
}

func issueResource(issue *issueRecord) models.Resource {
	refs := make([]models.Ref, 0, len(issue.labels))
	for _, id := range issue.labels {
		refs = append(refs, models.Ref{Type: models.TypeLabel, ID: id})
	}
	return models.Resource{
		Type:       models.TypeIssue,
		ID:         issue.id,
		Attributes: maps.Clone(issue.attrs),
		Relationships: map[string]models.Relationship{
			"labels": models.ToMany(refs),
		},
	}
}

func labelResource(label *labelRecord) models.Resource {
	var category *models.Ref
	if label.category != nil {
		category = &models.Ref{Type: models.TypeCategory, ID: int64(*label.category)}
	}
	return models.Resource{
		Type:       models.TypeLabel,
		ID:         label.id,
		Attributes: maps.Clone(label.attrs),
		Relationships: map[string]models.Relationship{
			"category": models.ToOne(category),
		},
	}
}

func categoryResource(category *categoryRecord) models.Resource {
	return models.Resource{
		Type:       models.TypeCategory,
		ID:         int64(category.id),
		Attributes: map[string]any{"name": category.name},
	}
}
