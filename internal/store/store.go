// Package store keeps dataset profiles for their retention window, in memory
// with optional JSON persistence on disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tablechat/tablechat-cli/internal/profile"
	"github.com/tablechat/tablechat-cli/internal/utils"
)

// ErrProfileNotFound is returned when no profile exists for the given id.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileExpired is returned when a profile exists but its retention
// window has lapsed. Expired profiles are evicted on access.
var ErrProfileExpired = errors.New("profile expired")

// Store holds profiles keyed by id. A non-empty dir makes Put persist each
// profile as <id>.json and Get fall back to disk on a memory miss.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*profile.DataProfile
	dir      string
	now      func() time.Time
}

// New creates a memory-only store.
func New() *Store {
	return &Store{profiles: make(map[string]*profile.DataProfile), now: time.Now}
}

// NewPersistent creates a store that mirrors profiles to dir and loads any
// profiles already present there.
func NewPersistent(dir string) (*Store, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure profiles dir: %w", err)
	}
	s := New()
	s.dir = dir

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read profiles dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		p, err := s.load(id)
		if err != nil {
			// unreadable entries are skipped, not fatal
			continue
		}
		s.profiles[p.ID] = p
	}
	return s, nil
}

// Put stores the profile and, when persistence is enabled, writes it to disk
// atomically.
func (s *Store) Put(p *profile.DataProfile) error {
	if p == nil || p.ID == "" {
		return errors.New("profile has no id")
	}
	s.mu.Lock()
	s.profiles[p.ID] = p
	s.mu.Unlock()

	if s.dir == "" {
		return nil
	}
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(s.path(p.ID), data)
}

// Get returns the profile for id, evicting and reporting it when expired.
func (s *Store) Get(id string) (*profile.DataProfile, error) {
	s.mu.RLock()
	p, ok := s.profiles[id]
	s.mu.RUnlock()

	if !ok && s.dir != "" {
		loaded, err := s.load(id)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.profiles[id] = loaded
		s.mu.Unlock()
		p, ok = loaded, true
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if p.Expired(s.now()) {
		s.evict(id)
		return nil, fmt.Errorf("%w: %s", ErrProfileExpired, id)
	}
	return p, nil
}

// Sweep evicts every expired profile and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	var expired []string
	for id, p := range s.profiles {
		if p.Expired(now) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.profiles, id)
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.removeFile(id)
	}
	return len(expired)
}

// List returns the ids of all live profiles.
func (s *Store) List() []string {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, p := range s.profiles {
		if !p.Expired(now) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Store) load(id string) (*profile.DataProfile, error) {
	b, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p profile.DataProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

func (s *Store) evict(id string) {
	s.mu.Lock()
	delete(s.profiles, id)
	s.mu.Unlock()
	s.removeFile(id)
}

func (s *Store) removeFile(id string) {
	if s.dir == "" {
		return
	}
	_ = os.Remove(s.path(id))
}

func (s *Store) path(id string) string {
	// the id becomes the file name, so path separators cannot pass through
	name := strings.ReplaceAll(id, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, name+".json")
}
