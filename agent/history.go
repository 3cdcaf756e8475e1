package agent

import "sync"

// DefaultHistorySize is the run history capacity when none is configured.
const DefaultHistorySize = 50

// History is a fixed-capacity, in-memory record of runs, newest first. It
// is safe for concurrent use; the scheduled worker writes while API
// handlers read.
type History struct {
	mu      sync.Mutex
	records []RunRecord
	size    int
}

// NewHistory creates a History holding at most size records. Sizes below 1
// fall back to DefaultHistorySize.
func NewHistory(size int) *History {
	if size < 1 {
		size = DefaultHistorySize
	}
	return &History{size: size}
}

// Add inserts a record at the front, dropping the oldest when full.
func (h *History) Add(rec RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append([]RunRecord{rec}, h.records...)
	if len(h.records) > h.size {
		h.records = h.records[:h.size]
	}
}

// Snapshot returns a copy of the records, newest first.
func (h *History) Snapshot() []RunRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]RunRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of stored records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}
