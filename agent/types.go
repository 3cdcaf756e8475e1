package agent

import "time"

// JobSpec describes what a scheduled run should write about. The controller
// snapshots it at Start and passes it by value; a running job never sees
// later edits.
type JobSpec struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
}

// Clone returns a deep copy, detaching the keywords from the caller's
// backing array.
func (s JobSpec) Clone() JobSpec {
	clone := JobSpec{Topic: s.Topic}
	if len(s.Keywords) > 0 {
		clone.Keywords = append([]string(nil), s.Keywords...)
	}
	return clone
}

// GeneratedPost is a blog post ready for publishing.
type GeneratedPost struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Run triggers.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// RunRecord captures the outcome of one run for the history ring.
type RunRecord struct {
	ID         string    `json:"id"`
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Title      string    `json:"title,omitempty"`
	Published  bool      `json:"published"`
	PostID     int       `json:"post_id,omitempty"`
	Err        string    `json:"error,omitempty"`
}
