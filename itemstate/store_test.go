package itemstate

import (
	"os"
	"path/filepath"
	"testing"

	"roteiro/models"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "estado.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, path
}

func TestGetAbsentIsZero(t *testing.T) {
	s, _ := tempStore(t)
	if st := s.Get(1, 0); !st.Empty() {
		t.Fatalf("absent state should be zero, got %+v", st)
	}
}

func TestSetAndReopen(t *testing.T) {
	s, path := tempStore(t)
	if err := s.Set(2, 1, models.ItemState{Completed: true, Note: "trazer bilhetes"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	st := reopened.Get(2, 1)
	if !st.Completed || st.Note != "trazer bilhetes" {
		t.Fatalf("state lost across reopen: %+v", st)
	}
}

func TestSettingEmptyEqualsAbsent(t *testing.T) {
	s, path := tempStore(t)
	s.Set(1, 0, models.ItemState{Completed: true})
	if err := s.Set(1, 0, models.ItemState{}); err != nil {
		t.Fatalf("Set empty: %v", err)
	}

	if got := s.Get(1, 0); !got.Empty() {
		t.Fatalf("cleared state should read as zero, got %+v", got)
	}
	if entries := s.ScanAll(); len(entries) != 0 {
		t.Fatalf("cleared key should be physically removed, got %+v", entries)
	}

	reopened, _ := Open(path)
	if entries := reopened.ScanAll(); len(entries) != 0 {
		t.Fatalf("cleared key survived the file, got %+v", entries)
	}
}

func TestNoteWhitespaceTrimmed(t *testing.T) {
	s, _ := tempStore(t)
	s.Set(1, 0, models.ItemState{Note: "   "})
	if entries := s.ScanAll(); len(entries) != 0 {
		t.Fatalf("whitespace-only note should be empty state, got %+v", entries)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open on corrupt file: %v", err)
	}
	if entries := s.ScanAll(); len(entries) != 0 {
		t.Fatalf("corrupt file should yield empty store, got %+v", entries)
	}
}

func TestCorruptEntrySkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")
	raw := `{"items":{"1:0":{"completed":true},"bogus":{"completed":true},"2:0":"??"},"lastDay":"2"}`
	os.WriteFile(path, []byte(raw), 0644)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries := s.ScanAll()
	if len(entries) != 1 || entries[0].Day != 1 || entries[0].Index != 0 {
		t.Fatalf("expected only the valid entry, got %+v", entries)
	}
	if s.LastDay() != "2" {
		t.Fatalf("prefs lost: %q", s.LastDay())
	}
}

func TestDiaryOrderedByDay(t *testing.T) {
	s, _ := tempStore(t)
	s.Set(3, 0, models.ItemState{Note: "jantar tardio"})
	s.Set(1, 2, models.ItemState{Note: "madrugar"})
	s.Set(2, 0, models.ItemState{Completed: true}) // no note: not in diary

	diary := s.Diary()
	if len(diary) != 2 {
		t.Fatalf("expected 2 diary entries, got %+v", diary)
	}
	if diary[0].Day != 1 || diary[1].Day != 3 {
		t.Fatalf("diary out of order: %+v", diary)
	}
}

func TestCompletedCount(t *testing.T) {
	s, _ := tempStore(t)
	s.Set(1, 0, models.ItemState{Completed: true})
	s.Set(1, 2, models.ItemState{Completed: true})
	s.Set(1, 1, models.ItemState{Note: "só uma nota"})

	if got := s.CompletedCount(1, 5); got != 2 {
		t.Fatalf("CompletedCount = %d, want 2", got)
	}
	if got := s.CompletedCount(2, 5); got != 0 {
		t.Fatalf("CompletedCount for other day = %d, want 0", got)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	s, path := tempStore(t)
	s.SetLastDay("3")
	s.SetTheme("dark")

	reopened, _ := Open(path)
	if reopened.LastDay() != "3" || reopened.Theme() != "dark" {
		t.Fatalf("prefs lost: lastDay=%q theme=%q", reopened.LastDay(), reopened.Theme())
	}
}
