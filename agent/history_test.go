package agent

import (
	"fmt"
	"testing"
	"time"
)

func TestHistory_NewestFirst(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 3; i++ {
		h.Add(RunRecord{ID: fmt.Sprintf("run-%d", i), StartedAt: time.Now()})
	}

	records := h.Snapshot()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ID != "run-2" || records[2].ID != "run-0" {
		t.Errorf("expected newest first, got %q then %q", records[0].ID, records[2].ID)
	}
}

func TestHistory_DropsOldestWhenFull(t *testing.T) {
	h := NewHistory(2)
	h.Add(RunRecord{ID: "a"})
	h.Add(RunRecord{ID: "b"})
	h.Add(RunRecord{ID: "c"})

	records := h.Snapshot()
	if len(records) != 2 {
		t.Fatalf("expected capacity of 2, got %d records", len(records))
	}
	if records[0].ID != "c" || records[1].ID != "b" {
		t.Errorf("expected oldest dropped, got %q then %q", records[0].ID, records[1].ID)
	}
	if h.Len() != 2 {
		t.Errorf("expected Len 2, got %d", h.Len())
	}
}

func TestHistory_SnapshotIsACopy(t *testing.T) {
	h := NewHistory(5)
	h.Add(RunRecord{ID: "original"})

	snap := h.Snapshot()
	snap[0].ID = "mutated"

	if h.Snapshot()[0].ID != "original" {
		t.Error("mutating a snapshot changed stored history")
	}
}

func TestHistory_DefaultSize(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultHistorySize+10; i++ {
		h.Add(RunRecord{ID: fmt.Sprintf("run-%d", i)})
	}
	if h.Len() != DefaultHistorySize {
		t.Errorf("expected default capacity %d, got %d", DefaultHistorySize, h.Len())
	}
}
