package store_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tablechat/tablechat-cli/internal/profile"
	"github.com/tablechat/tablechat-cli/internal/store"
	"github.com/tablechat/tablechat-cli/internal/utils"
)

func liveProfile(id string) *profile.DataProfile {
	now := time.Now()
	return &profile.DataProfile{
		ID:        id,
		Version:   1,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func expiredProfile(id string) *profile.DataProfile {
	now := time.Now()
	return &profile.DataProfile{
		ID:        id,
		Version:   1,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := store.New()
	p := liveProfile("prof_1")
	if err := s.Put(p); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get("prof_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "prof_1" {
		t.Fatalf("wrong profile: %s", got.ID)
	}
}

func TestPutRejectsMissingID(t *testing.T) {
	s := store.New()
	if err := s.Put(&profile.DataProfile{}); err == nil {
		t.Fatal("expected error for profile without id")
	}
	if err := s.Put(nil); err == nil {
		t.Fatal("expected error for nil profile")
	}
}

func TestGetUnknownID(t *testing.T) {
	s := store.New()
	_, err := s.Get("nope")
	if !errors.Is(err, store.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGetEvictsExpired(t *testing.T) {
	s := store.New()
	if err := s.Put(expiredProfile("old")); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, err := s.Get("old")
	if !errors.Is(err, store.ErrProfileExpired) {
		t.Fatalf("expected ErrProfileExpired, got %v", err)
	}
	// Eviction means the second access reports not-found.
	_, err = s.Get("old")
	if !errors.Is(err, store.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound after eviction, got %v", err)
	}
}

func TestSweepCountsExpired(t *testing.T) {
	s := store.New()
	for _, p := range []*profile.DataProfile{
		liveProfile("live_1"), expiredProfile("old_1"), expiredProfile("old_2"),
	} {
		if err := s.Put(p); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if n := s.Sweep(); n != 2 {
		t.Fatalf("expected 2 swept, got %d", n)
	}
	if ids := s.List(); len(ids) != 1 || ids[0] != "live_1" {
		t.Fatalf("unexpected survivors: %v", ids)
	}
}

func TestPersistentReload(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewPersistent(dir)
	if err != nil {
		t.Fatalf("new persistent: %v", err)
	}
	if err := s.Put(liveProfile("prof_disk")); err != nil {
		t.Fatalf("put: %v", err)
	}

	reloaded, err := store.NewPersistent(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := reloaded.Get("prof_disk")
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if got.ID != "prof_disk" {
		t.Fatalf("wrong profile after reload: %s", got.ID)
	}
	if ids := reloaded.List(); len(ids) != 1 {
		t.Fatalf("expected one listed profile, got %v", ids)
	}
}

func TestPersistentSkipsUnreadableEntries(t *testing.T) {
	dir := t.TempDir()
	if err := utils.SafeWriteFile(filepath.Join(dir, "garbage.json"), []byte("not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	s, err := store.NewPersistent(dir)
	if err != nil {
		t.Fatalf("new persistent: %v", err)
	}
	if ids := s.List(); len(ids) != 0 {
		t.Fatalf("garbage entries must be skipped, got %v", ids)
	}
}

func TestSweepRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewPersistent(dir)
	if err != nil {
		t.Fatalf("new persistent: %v", err)
	}
	if err := s.Put(expiredProfile("old")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if n := s.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}
	reloaded, err := store.NewPersistent(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, err := reloaded.Get("old"); !errors.Is(err, store.ErrProfileNotFound) {
		t.Fatalf("swept profile must be gone from disk, got %v", err)
	}
}
