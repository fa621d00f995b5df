package storage

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *ReportStore {
	t.Helper()
	store, err := NewReportStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewReportStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReportStoreRoundtrip(t *testing.T) {
	store := newTestStore(t)

	saved := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	report := Report{
		ID:        "r-1",
		CheckupID: 42,
		URL:       "https://example.com",
		Path:      "/home/u/sitecheck-report-42.pdf",
		SavedAt:   saved,
	}
	if err := store.Add(report); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := store.ForCheckup(42)
	if err != nil {
		t.Fatalf("ForCheckup: %v", err)
	}
	if got == nil {
		t.Fatal("ForCheckup returned nil for recorded checkup")
	}
	if got.Path != report.Path || got.URL != report.URL {
		t.Errorf("got %+v, want %+v", got, report)
	}
}

func TestReportStoreForCheckupMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ForCheckup(999)
	if err != nil {
		t.Fatalf("ForCheckup: %v", err)
	}
	if got != nil {
		t.Errorf("ForCheckup(999) = %+v, want nil", got)
	}
}

func TestReportStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		err := store.Add(Report{
			ID:        id,
			CheckupID: int64(i + 1),
			URL:       "https://example.com",
			Path:      "/tmp/" + id + ".pdf",
			SavedAt:   base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}

	reports, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("len = %d, want 3", len(reports))
	}
	wantOrder := []string{"new", "mid", "old"}
	for i, want := range wantOrder {
		if reports[i].ID != want {
			t.Errorf("reports[%d].ID = %q, want %q", i, reports[i].ID, want)
		}
	}
}

func TestReportStoreReplaceAndDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Add(Report{ID: "r", CheckupID: 1, URL: "u", Path: "p1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Add(Report{ID: "r", CheckupID: 1, URL: "u", Path: "p2"}); err != nil {
		t.Fatalf("Add replace: %v", err)
	}

	reports, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("len = %d after replace, want 1", len(reports))
	}
	if reports[0].Path != "p2" {
		t.Errorf("Path = %q, want p2", reports[0].Path)
	}

	if err := store.Delete("r"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	reports, _ = store.List()
	if len(reports) != 0 {
		t.Errorf("len = %d after delete, want 0", len(reports))
	}
}
