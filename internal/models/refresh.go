package models

import "time"

// RefreshRun records one full fetch of every configured label.
// Only run metadata is kept; issues themselves are never persisted.
type RefreshRun struct {
	ID         string    `bson:"_id"         json:"id"`
	StartedAt  time.Time `bson:"started_at"  json:"started_at"`
	FinishedAt time.Time `bson:"finished_at" json:"finished_at"`
	Labels     int       `bson:"labels"      json:"labels"`
	Issues     int       `bson:"issues"      json:"issues"`
	Error      string    `bson:"error"       json:"error,omitempty"`
}

// Duration is how long the run took.
func (r RefreshRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// OK reports whether the run completed without error.
func (r RefreshRun) OK() bool {
	return r.Error == ""
}
