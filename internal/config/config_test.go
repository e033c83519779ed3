package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Default() config should validate, got: %v", err)
	}
	if cfg.Admin.Listen != DefaultAdminListen {
		t.Errorf("Admin.Listen = %q, want %q", cfg.Admin.Listen, DefaultAdminListen)
	}
	if cfg.Limits.MaxMBits != DefaultMaxMBits {
		t.Errorf("Limits.MaxMBits = %d, want %d", cfg.Limits.MaxMBits, DefaultMaxMBits)
	}
}

func TestLoad_AutoCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladderctl.yaml")

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Admin.Listen != DefaultAdminListen {
		t.Errorf("Admin.Listen = %q, want %q", cfg.Admin.Listen, DefaultAdminListen)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created at %s: %v", path, err)
	}
}

func TestLoad_MissingNoAutoCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Load(path, false)
	if err == nil {
		t.Fatal("Load() should fail when file is missing and autoCreate is false")
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladderctl.yaml")
	content := []byte("admin:\n  listen: \"0.0.0.0:9999\"\nlimits:\n  max_timers: 4\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Admin.Listen != "0.0.0.0:9999" {
		t.Errorf("Admin.Listen = %q, want %q", cfg.Admin.Listen, "0.0.0.0:9999")
	}
	if cfg.Limits.MaxTimers != 4 {
		t.Errorf("Limits.MaxTimers = %d, want 4", cfg.Limits.MaxTimers)
	}
	// Unset fields fall back to documented defaults.
	if cfg.Limits.MaxMBits != DefaultMaxMBits {
		t.Errorf("Limits.MaxMBits = %d, want default %d", cfg.Limits.MaxMBits, DefaultMaxMBits)
	}
	if cfg.Scan.IntervalMs != DefaultScanIntervalMs {
		t.Errorf("Scan.IntervalMs = %d, want default %d", cfg.Scan.IntervalMs, DefaultScanIntervalMs)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("admin: [this is not a map"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path, false); err == nil {
		t.Fatal("Load() should fail on malformed YAML")
	}
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "chatty"

	if err := Validate(cfg); err == nil {
		t.Error("Validate() should reject an unknown log level")
	}
}

func TestValidate_RejectsZeroLimits(t *testing.T) {
	cfg := Default()
	cfg.Limits.MaxNodes = 0

	if err := Validate(cfg); err == nil {
		t.Error("Validate() should reject a zero node capacity")
	}
}

func TestValidate_RejectsNonPositiveIntervals(t *testing.T) {
	cfg := Default()
	cfg.Scan.IntervalMs = 0
	if err := Validate(cfg); err == nil {
		t.Error("Validate() should reject scan.interval_ms <= 0")
	}

	cfg = Default()
	cfg.Snapshot.MinIntervalMs = -1
	if err := Validate(cfg); err == nil {
		t.Error("Validate() should reject snapshot.min_interval_ms <= 0")
	}
}

func TestValidate_RejectsMissingAdminListen(t *testing.T) {
	cfg := Default()
	cfg.Admin.Listen = ""

	if err := Validate(cfg); err == nil {
		t.Error("Validate() should require admin.listen")
	}
}

func TestApplyDefaults_LeavesExplicitValuesAlone(t *testing.T) {
	cfg := &Config{}
	cfg.Limits.MaxNodes = 5
	cfg.ApplyDefaults()

	if cfg.Limits.MaxNodes != 5 {
		t.Errorf("Limits.MaxNodes = %d, want 5 (explicit value preserved)", cfg.Limits.MaxNodes)
	}
	if cfg.Limits.MaxLinks != DefaultMaxLinks {
		t.Errorf("Limits.MaxLinks = %d, want default %d", cfg.Limits.MaxLinks, DefaultMaxLinks)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty default config file")
	}
}
