package itemstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"roteiro/models"
)

// Store is the durable per-item completion/note store, plus the two small
// preference keys (last visited day, theme) that share its file. Keys are
// "<day>:<index>" and stay stable across restarts as long as the itinerary
// source is unchanged. An empty state is physically removed, and entries
// that fail to decode are treated as absent.
type Store struct {
	mu    sync.Mutex
	path  string
	items map[string]models.ItemState
	prefs prefs
}

type prefs struct {
	LastDay string `json:"lastDay,omitempty"`
	Theme   string `json:"theme,omitempty"`
}

type fileFormat struct {
	Items map[string]json.RawMessage `json:"items"`
	prefs
}

// Entry is one stored (day, index, state) triple, for diary aggregation.
type Entry struct {
	Day   int
	Index int
	State models.ItemState
}

// Open loads the store file, tolerating a missing or corrupt file and
// skipping individually corrupt entries.
func Open(path string) (*Store, error) {
	s := &Store{path: path, items: make(map[string]models.ItemState)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		// corrupt file: start empty rather than fail the page
		return s, nil
	}
	s.prefs = ff.prefs
	for key, rawState := range ff.Items {
		if _, _, err := parseKey(key); err != nil {
			continue
		}
		var st models.ItemState
		if err := json.Unmarshal(rawState, &st); err != nil || st.Empty() {
			continue
		}
		s.items[key] = st
	}
	return s, nil
}

func stateKey(day, index int) string {
	return strconv.Itoa(day) + ":" + strconv.Itoa(index)
}

func parseKey(key string) (day, index int, err error) {
	d, i, ok := strings.Cut(key, ":")
	if !ok {
		return 0, 0, fmt.Errorf("bad key %q", key)
	}
	if day, err = strconv.Atoi(d); err != nil {
		return 0, 0, err
	}
	if index, err = strconv.Atoi(i); err != nil {
		return 0, 0, err
	}
	return day, index, nil
}

// Get returns the stored state or the zero state when absent.
func (s *Store) Get(day, index int) models.ItemState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[stateKey(day, index)]
}

// Set stores the state; an empty state deletes the key.
func (s *Store) Set(day, index int, st models.ItemState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.Note = strings.TrimSpace(st.Note)
	key := stateKey(day, index)
	if st.Empty() {
		delete(s.items, key)
	} else {
		s.items[key] = st
	}
	return s.persist()
}

// ScanAll returns every stored entry ordered by (day, index).
func (s *Store) ScanAll() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.items))
	for key, st := range s.items {
		day, index, err := parseKey(key)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Day: day, Index: index, State: st})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		return entries[i].Index < entries[j].Index
	})
	return entries
}

// Diary aggregates all non-empty notes, ascending by day id.
func (s *Store) Diary() []models.DiaryEntry {
	var diary []models.DiaryEntry
	for _, e := range s.ScanAll() {
		if e.State.Note != "" {
			diary = append(diary, models.DiaryEntry{Day: e.Day, Note: e.State.Note})
		}
	}
	return diary
}

// CompletedCount returns how many of the day's first total items are done.
func (s *Store) CompletedCount(day, total int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	done := 0
	for i := 0; i < total; i++ {
		if s.items[stateKey(day, i)].Completed {
			done++
		}
	}
	return done
}

func (s *Store) LastDay() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.LastDay
}

func (s *Store) SetLastDay(day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.LastDay = day
	return s.persist()
}

func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Theme
}

func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Theme = theme
	return s.persist()
}

// persist writes the whole store atomically. Caller holds the lock.
func (s *Store) persist() error {
	items := make(map[string]json.RawMessage, len(s.items))
	for key, st := range s.items {
		raw, err := json.Marshal(st)
		if err != nil {
			return err
		}
		items[key] = raw
	}
	data, err := json.MarshalIndent(fileFormat{Items: items, prefs: s.prefs}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
