package client

import (
	"encoding/json"
	"os"
	"sync"
)

// Snapshot is the local cache giving controllers synchronous state before
// any network round-trip completes. It is a hint, never a source of truth:
// every authoritative fetch replaces it wholesale.
//
// Load must be parse-or-empty: a corrupt or missing store degrades to "no
// entries", never an error.
type Snapshot interface {
	Load(kind string) []string
	Store(kind string, ids []string)
}

// MemorySnapshot is the in-memory Snapshot, also used as the working layer
// in front of a persisted one.
type MemorySnapshot struct {
	mu   sync.Mutex
	sets map[string][]string
}

func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{sets: make(map[string][]string)}
}

func (s *MemorySnapshot) Load(kind string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.sets[kind]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func (s *MemorySnapshot) Store(kind string, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]string, len(ids))
	copy(cp, ids)
	s.sets[kind] = cp
}

// FileSnapshot persists the full set per kind as a JSON object on every
// write, mirroring the browser localStorage snapshot it replaces.
type FileSnapshot struct {
	mu   sync.Mutex
	path string
}

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

func (s *FileSnapshot) Load(kind string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()[kind]
}

func (s *FileSnapshot) Store(kind string, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets := s.read()
	if sets == nil {
		sets = make(map[string][]string)
	}
	sets[kind] = ids

	data, err := json.Marshal(sets)
	if err != nil {
		return
	}
	// Best-effort persistence; the in-memory state of the controllers is
	// what the user sees.
	_ = os.WriteFile(s.path, data, 0o644)
}

func (s *FileSnapshot) read() map[string][]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var sets map[string][]string
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil
	}
	return sets
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func withID(ids []string, id string) []string {
	if contains(ids, id) {
		return ids
	}
	return append(append([]string(nil), ids...), id)
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
