package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"rentdata/internal/model"

	"github.com/rs/zerolog"
)

const (
	// FileName is the data file looked up in the working directory.
	FileName = "rentdata.json"

	// DefaultPetCount applies until a file provides properties.petcount.
	DefaultPetCount int8 = 2

	newNamePrefix = "New_"
	// maxNameProbes bounds the New_<n> search in InsertDefault.
	maxNameProbes = 10000
)

// ErrNameExhausted is returned by InsertDefault when no free New_<n> name was found.
var ErrNameExhausted = errors.New("no unused placeholder name available")

// DefaultPath returns <cwd>/rentdata.json.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return FileName
	}
	return filepath.Join(cwd, FileName)
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// Store owns the in-memory entries and the data file they persist to.
//
// A Store is not safe for concurrent use; it is driven by one caller
// (the TUI update loop or a CLI command).
type Store struct {
	path string
	log  zerolog.Logger

	petCount  int8
	entries   []model.Entry
	sortField model.Field

	dirty  bool
	reload bool

	stamp fileStamp
}

// Open loads path into a new Store. Load problems are logged, never fatal:
// the store starts empty (pet count 2) when the file cannot be used.
func Open(path string, log zerolog.Logger) *Store {
	s := &Store{
		path:      path,
		log:       log,
		petCount:  DefaultPetCount,
		sortField: model.Name,
		reload:    true,
	}
	_ = s.Reload()
	return s
}

func (s *Store) Path() string           { return s.path }
func (s *Store) PetCount() int8         { return s.petCount }
func (s *Store) Dirty() bool            { return s.dirty }
func (s *Store) ReloadPending() bool    { return s.reload }
func (s *Store) Len() int               { return len(s.entries) }
func (s *Store) SortField() model.Field { return s.sortField }

// SetSortField selects the snapshot ordering. It is not persisted.
func (s *Store) SetSortField(f model.Field) { s.sortField = f }

// RequestReload marks the file to be reread on the next Snapshot.
func (s *Store) RequestReload() { s.reload = true }

// Snapshot returns the entries sorted by the current sort field. Pending writes
// are flushed first, then a pending reload is applied. Ties keep list order.
// The returned slice is a copy.
func (s *Store) Snapshot() []model.Entry {
	if s.dirty {
		_ = s.Flush()
	}
	if s.reload {
		_ = s.Reload()
	}

	out := make([]model.Entry, len(s.entries))
	copy(out, s.entries)
	f := s.sortField
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Compare(out[j], f) < 0
	})
	return out
}

// IsNameUnique reports whether no entry's name matches candidate, ignoring case.
func (s *Store) IsNameUnique(candidate string) bool {
	return s.index(candidate) < 0
}

// index is the first entry whose name matches, ignoring case, or -1.
func (s *Store) index(name string) int {
	for i := range s.entries {
		if s.entries[i].Is(name) {
			return i
		}
	}
	return -1
}

// Rename changes the name of the first entry matching oldName. The caller is
// responsible for checking IsNameUnique(newName) beforehand.
func (s *Store) Rename(oldName, newName string) {
	i := s.index(oldName)
	if i < 0 {
		return
	}
	s.entries[i].SetName(newName)
	s.dirty = true
}

func (s *Store) SetLink(name, link string) {
	i := s.index(name)
	if i < 0 {
		return
	}
	s.entries[i].SetLink(link)
	s.dirty = true
}

// SetInt writes Beds or Baths. These do not feed any derived field.
func (s *Store) SetInt(name string, f model.Field, v int8) {
	i := s.index(name)
	if i < 0 {
		return
	}
	s.entries[i].SetInt(f, v)
	s.dirty = true
}

// SetFloat writes a money input field and recalculates the entry.
func (s *Store) SetFloat(name string, f model.Field, v float64) {
	i := s.index(name)
	if i < 0 {
		return
	}
	s.entries[i].SetFloat(f, v)
	s.entries[i].Calculate(s.petCount)
	s.dirty = true
}

func (s *Store) Delete(name string) {
	i := s.index(name)
	if i < 0 {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.dirty = true
}

// InsertDefault appends a placeholder entry named New_<n>, probing n upward from
// the current entry count until the name is unused. It returns the chosen name.
func (s *Store) InsertDefault() (string, error) {
	n := len(s.entries)
	for probe := 0; probe < maxNameProbes; probe++ {
		name := newNamePrefix + strconv.Itoa(n+probe)
		if !s.IsNameUnique(name) {
			continue
		}
		e := model.DefaultEntry()
		e.SetName(name)
		e.Calculate(s.petCount)
		s.entries = append(s.entries, e)
		s.dirty = true
		return name, nil
	}
	return "", ErrNameExhausted
}

// SetPetCount updates the shared pet count and recalculates every entry.
func (s *Store) SetPetCount(v int8) {
	s.petCount = v
	s.recalculate()
	s.dirty = true
}

func (s *Store) recalculate() {
	for i := range s.entries {
		s.entries[i].Calculate(s.petCount)
	}
}

// Reload replaces the entries with the content of the data file. A missing file
// is created as "{}". Records that cannot be decoded are logged and skipped.
func (s *Store) Reload() error {
	s.reload = false

	b, err := s.readOrCreate()
	if err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("failed to read rent data")
		return err
	}

	doc, skipped, err := Decode(b)
	if err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("rent data is unreadable; starting empty")
		s.backupUnreadable()
		s.entries = nil
		s.stampFile()
		return err
	}
	for _, e := range skipped {
		s.log.Warn().Err(e).Msg("failed to build entry from data")
	}

	if doc.PetCount != nil {
		s.petCount = *doc.PetCount
	} else if !doc.Empty {
		s.log.Warn().Int("default", int(s.petCount)).Msg("failed to parse pet count from file")
	}
	s.entries = doc.Entries
	s.recalculate()
	s.stampFile()
	return nil
}

func (s *Store) readOrCreate() ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	empty := []byte("{}")
	if err := os.WriteFile(s.path, empty, 0o644); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.path, err)
	}
	return empty, nil
}

// backupUnreadable keeps a copy of a file we could not parse, since the next
// flush overwrites it.
func (s *Store) backupUnreadable() {
	dest := s.path + ".bak"
	if err := CopyFile(s.path, dest); err != nil {
		s.log.Error().Err(err).Str("path", dest).Msg("failed to back up unreadable rent data")
		return
	}
	s.log.Warn().Str("path", dest).Msg("backed up unreadable rent data")
}

// Flush writes the document if there are unsaved changes. On failure the
// store stays dirty.
func (s *Store) Flush() error {
	if !s.dirty {
		return nil
	}
	b, failed := Encode(s.petCount, s.entries)
	for _, err := range failed {
		s.log.Error().Err(err).Msg("failed to add entry to save file")
	}
	if err := writeFileAtomic(s.path, b); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("failed to write rent data")
		return err
	}
	s.dirty = false
	s.stampFile()
	return nil
}

// Close flushes pending changes. Call it before the process exits.
func (s *Store) Close() error {
	return s.Flush()
}

// Changed reports whether the data file was modified since this store last
// read or wrote it.
func (s *Store) Changed() bool {
	st, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	return !st.ModTime().Equal(s.stamp.modTime) || st.Size() != s.stamp.size
}

func (s *Store) stampFile() {
	st, err := os.Stat(s.path)
	if err != nil {
		s.stamp = fileStamp{}
		return
	}
	s.stamp = fileStamp{modTime: st.ModTime(), size: st.Size()}
}
