package models

// Resource types used in issue documents.
const (
	TypeIssue    = "github-issues"
	TypeLabel    = "labels"
	TypeCategory = "categories"
)

// Ref points at another resource by (type, id).
type Ref struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Relationship wraps linkage data. Data is []Ref for to-many relationships
// and *Ref for to-one relationships (nil renders as null).
type Relationship struct {
	Data any `json:"data"`
}

// ToMany builds a to-many relationship; a nil slice renders as [].
func ToMany(refs []Ref) Relationship {
	if refs == nil {
		refs = []Ref{}
	}
	return Relationship{Data: refs}
}

// ToOne builds a to-one relationship.
func ToOne(ref *Ref) Relationship {
	return Relationship{Data: ref}
}

// Resource is a single JSON:API style record.
type Resource struct {
	Type          string                  `json:"type"`
	ID            int64                   `json:"id"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Ref returns the (type, id) pair identifying r.
func (r Resource) Ref() Ref {
	return Ref{Type: r.Type, ID: r.ID}
}

// Meta carries document-level counts.
type Meta struct {
	Total int `json:"total"`
}

// Document is the response body of GET /github-issues.
type Document struct {
	Meta     Meta       `json:"meta"`
	Data     []Resource `json:"data"`
	Included []Resource `json:"included"`
}
