package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAssignsIDAndTimestamp(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Save(Record{URL: "http://example.com/login", Total: 4, Succeeded: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected assigned ID")
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != id {
		t.Errorf("expected ID %s, got %s", id, records[0].ID)
	}
	if records[0].Timestamp.IsZero() {
		t.Error("expected assigned timestamp")
	}
}

func TestStore_ListOldestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		_, err := store.Save(Record{
			URL:       "http://example.com/login",
			Timestamp: base.Add(offset),
			Total:     int(offset.Hours()),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Errorf("records out of order at %d: %v before %v",
				i, records[i].Timestamp, records[i-1].Timestamp)
		}
	}
}

func TestStore_ListEmpty(t *testing.T) {
	store := openTestStore(t)

	records, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	id, err := store.Save(Record{URL: "http://example.com/login", Succeeded: 2, SuccessRate: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ID != id {
		t.Errorf("expected persisted record %s, got %+v", id, records)
	}
	if records[0].SuccessRate != 0.5 {
		t.Errorf("expected success rate 0.5, got %f", records[0].SuccessRate)
	}
}
