package models

// IssueQuery is the query string accepted by GET /github-issues.
type IssueQuery struct {
	Category string `json:"category" query:"category"` // optional; case-insensitive
	Query    string `json:"query"    query:"query"`    // accepted for compatibility, currently unused
}
