package persist

import (
	"path/filepath"
	"testing"
)

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s := New(path)

	if err := s.Save("RUN"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load("STOP")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "RUN" {
		t.Errorf("Load() = %q, want RUN", got)
	}
}

func TestStore_LoadMissingReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	s := New(path)

	got, err := s.Load("STOP")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "STOP" {
		t.Errorf("Load() = %q, want default STOP", got)
	}
}

func TestStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "status.json")
	s := New(path)

	if err := s.Save("RUN"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, _ := s.Load("STOP"); got != "RUN" {
		t.Errorf("Load() after nested Save = %q, want RUN", got)
	}
}

func TestStore_OverwriteUpdatesValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s := New(path)

	if err := s.Save("RUN"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save("STOP"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load("RUN")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "STOP" {
		t.Errorf("Load() = %q, want STOP after overwrite", got)
	}
}
