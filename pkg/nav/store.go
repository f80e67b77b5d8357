package nav

import (
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/wikinav/pkg/debug"
)

// Store persists navigation state across sessions. Persistence is a
// convenience, not a correctness requirement: implementations must return
// usable defaults on any read failure and must never surface write failures
// to interaction handlers.
type Store interface {
	Load() State
	Save(State) error
}

// File names for the two logical persistence keys. The wikinav prefix
// namespaces them against unrelated files in a shared state directory.
//
// Formats are part of the external interface:
//   - expanded: JSON array of node ids
//   - sections: JSON object mapping section name → bool
const (
	expandedFileName = "wikinav.expanded.json"
	sectionsFileName = "wikinav.sections.json"
)

// FileStore persists state as two JSON files in a directory.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir. The directory is created
// lazily on first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Load reads persisted state. Missing, unreadable, or corrupt files fall
// back to the empty default for that key without error: defaults are always
// a valid answer.
func (f *FileStore) Load() State {
	st := NewState()
	if f == nil || f.Dir == "" {
		return st
	}

	if data, err := os.ReadFile(filepath.Join(f.Dir, expandedFileName)); err == nil {
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			debug.Log("ignoring corrupt expansion state: %v", err)
		} else {
			for _, id := range ids {
				if id != "" {
					st.Expanded[id] = true
				}
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(f.Dir, sectionsFileName)); err == nil {
		var sections map[string]bool
		if err := json.Unmarshal(data, &sections); err != nil {
			debug.Log("ignoring corrupt section state: %v", err)
		} else {
			for name, v := range sections {
				st.Sections[name] = v
			}
		}
	}

	return st
}

// Save writes both keys. Errors are returned for callers that want to log
// them, but a failed save leaves any previously written state intact and
// must be treated as non-fatal. Repeated rapid saves are safe:
// last-write-wins per key.
func (f *FileStore) Save(st State) error {
	if f == nil || f.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}

	ids := make([]string, 0, len(st.Expanded))
	for id, v := range st.Expanded {
		if v {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids) // deterministic file content
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(f.Dir, expandedFileName), data, 0o644); err != nil {
		return err
	}

	sections := st.Sections
	if sections == nil {
		sections = map[string]bool{}
	}
	data, err = json.Marshal(sections)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(f.Dir, sectionsFileName), data, 0o644)
}

// MemStore is an in-memory Store for tests and for running without a
// writable state directory.
type MemStore struct {
	state State
	saved bool
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore { return &MemStore{} }

// Load returns a copy of the last saved state, or the empty default.
func (m *MemStore) Load() State {
	if !m.saved {
		return NewState()
	}
	return m.state.Clone()
}

// Save keeps a deep copy so later caller mutations don't leak in.
func (m *MemStore) Save(st State) error {
	m.state = st.Clone()
	m.saved = true
	return nil
}
