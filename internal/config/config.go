package config

// Configuration loading and validation for ladderctl

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tturner/ladderctl/internal/errors"
)

// AdminConfig controls the line-oriented admin transport listener.
type AdminConfig struct {
	Listen string `yaml:"listen"`
}

// PersistConfig controls where the RUN/STOP status store is kept.
type PersistConfig struct {
	Path string `yaml:"path"`
}

// ProgramConfig points at the program document loaded on startup.
type ProgramConfig struct {
	Path string `yaml:"path"`
}

// LimitsConfig mirrors the compile-time capacity table: the maximum size of
// each memory bank and graph structure, and the P2 fixpoint iteration cap.
type LimitsConfig struct {
	MaxMBits        int `yaml:"max_m_bits"`
	MaxIBits        int `yaml:"max_i_bits"`
	MaxQBits        int `yaml:"max_q_bits"`
	MaxDWords       int `yaml:"max_d_words"`
	MaxTimers       int `yaml:"max_timers"`
	MaxCounters     int `yaml:"max_counters"`
	MaxNodes        int `yaml:"max_nodes"`
	MaxLinks        int `yaml:"max_links"`
	P2MaxIterations int `yaml:"p2_max_iterations"`
}

// ScanConfig controls the main-loop scan tick.
type ScanConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// SnapshotConfig controls the minimum spacing between snapshot pushes.
type SnapshotConfig struct {
	MinIntervalMs int `yaml:"min_interval_ms"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level"` // silent|error|info|verbose|debug
	File  string `yaml:"file"`
}

// Config is the root ladderctl configuration document.
type Config struct {
	Admin    AdminConfig    `yaml:"admin"`
	Persist  PersistConfig  `yaml:"persist"`
	Program  ProgramConfig  `yaml:"program"`
	Limits   LimitsConfig   `yaml:"limits"`
	Scan     ScanConfig     `yaml:"scan"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
}

// Default capacity and timing values, matching the compile-time table a
// controller would otherwise hard-code.
const (
	DefaultMaxMBits        = 200
	DefaultMaxIBits        = 100
	DefaultMaxQBits        = 100
	DefaultMaxDWords       = 100
	DefaultMaxTimers       = 10
	DefaultMaxCounters     = 10
	DefaultMaxNodes        = 100
	DefaultMaxLinks        = 200
	DefaultP2MaxIterations = 10

	DefaultAdminListen        = "127.0.0.1:9110"
	DefaultPersistPath        = "/var/lib/ladderctl/status.json"
	DefaultProgramPath        = "/etc/ladderctl/program.json"
	DefaultScanIntervalMs     = 10
	DefaultSnapshotIntervalMs = 200
	DefaultLogLevel           = "info"
)

// Default returns a fully-populated Config matching the documented
// defaults. A zero-value Config is not directly usable; callers should
// start from Default() and override fields, or call ApplyDefaults on a
// YAML-decoded Config to fill in anything left unset.
func Default() *Config {
	return &Config{
		Admin:   AdminConfig{Listen: DefaultAdminListen},
		Persist: PersistConfig{Path: DefaultPersistPath},
		Program: ProgramConfig{Path: DefaultProgramPath},
		Limits: LimitsConfig{
			MaxMBits:        DefaultMaxMBits,
			MaxIBits:        DefaultMaxIBits,
			MaxQBits:        DefaultMaxQBits,
			MaxDWords:       DefaultMaxDWords,
			MaxTimers:       DefaultMaxTimers,
			MaxCounters:     DefaultMaxCounters,
			MaxNodes:        DefaultMaxNodes,
			MaxLinks:        DefaultMaxLinks,
			P2MaxIterations: DefaultP2MaxIterations,
		},
		Scan:     ScanConfig{IntervalMs: DefaultScanIntervalMs},
		Snapshot: SnapshotConfig{MinIntervalMs: DefaultSnapshotIntervalMs},
		Log:      LogConfig{Level: DefaultLogLevel},
	}
}

// WriteDefault writes a default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Load reads and validates a YAML configuration file. If the file does not
// exist and autoCreate is true, a default configuration is written to path
// first and then loaded.
func Load(path string, autoCreate bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !autoCreate {
				return nil, errors.WrapConfigError(
					fmt.Errorf("config file not found: %s", path),
					path,
				)
			}
			if err := WriteDefault(path); err != nil {
				return nil, fmt.Errorf("create default config: %w", err)
			}
			data, err = os.ReadFile(path)
			if err != nil {
				return nil, errors.WrapConfigError(
					fmt.Errorf("read created config file: %w", err),
					path,
				)
			}
		} else {
			return nil, errors.WrapConfigError(
				fmt.Errorf("read config file: %w", err),
				path,
			)
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	cfg.ApplyDefaults()

	if err := Validate(cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("validate config: %w", err), path)
	}

	return cfg, nil
}

// ApplyDefaults fills in any zero-valued field left unset by a partial YAML
// document with the documented default.
func (cfg *Config) ApplyDefaults() {
	d := Default()

	if cfg.Admin.Listen == "" {
		cfg.Admin.Listen = d.Admin.Listen
	}
	if cfg.Persist.Path == "" {
		cfg.Persist.Path = d.Persist.Path
	}
	if cfg.Program.Path == "" {
		cfg.Program.Path = d.Program.Path
	}
	if cfg.Limits.MaxMBits == 0 {
		cfg.Limits.MaxMBits = d.Limits.MaxMBits
	}
	if cfg.Limits.MaxIBits == 0 {
		cfg.Limits.MaxIBits = d.Limits.MaxIBits
	}
	if cfg.Limits.MaxQBits == 0 {
		cfg.Limits.MaxQBits = d.Limits.MaxQBits
	}
	if cfg.Limits.MaxDWords == 0 {
		cfg.Limits.MaxDWords = d.Limits.MaxDWords
	}
	if cfg.Limits.MaxTimers == 0 {
		cfg.Limits.MaxTimers = d.Limits.MaxTimers
	}
	if cfg.Limits.MaxCounters == 0 {
		cfg.Limits.MaxCounters = d.Limits.MaxCounters
	}
	if cfg.Limits.MaxNodes == 0 {
		cfg.Limits.MaxNodes = d.Limits.MaxNodes
	}
	if cfg.Limits.MaxLinks == 0 {
		cfg.Limits.MaxLinks = d.Limits.MaxLinks
	}
	if cfg.Limits.P2MaxIterations == 0 {
		cfg.Limits.P2MaxIterations = d.Limits.P2MaxIterations
	}
	if cfg.Scan.IntervalMs == 0 {
		cfg.Scan.IntervalMs = d.Scan.IntervalMs
	}
	if cfg.Snapshot.MinIntervalMs == 0 {
		cfg.Snapshot.MinIntervalMs = d.Snapshot.MinIntervalMs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
}

// Validate checks that a configuration's fields are internally consistent.
func Validate(cfg *Config) error {
	if cfg.Admin.Listen == "" {
		return fmt.Errorf("admin.listen is required")
	}
	if cfg.Persist.Path == "" {
		return fmt.Errorf("persist.path is required")
	}

	if err := validateLimits(cfg.Limits); err != nil {
		return err
	}

	if cfg.Scan.IntervalMs <= 0 {
		return fmt.Errorf("scan.interval_ms must be > 0")
	}
	if cfg.Snapshot.MinIntervalMs <= 0 {
		return fmt.Errorf("snapshot.min_interval_ms must be > 0")
	}

	if err := validateLogLevel(cfg.Log.Level); err != nil {
		return err
	}

	return nil
}

func validateLimits(l LimitsConfig) error {
	fields := map[string]int{
		"limits.max_m_bits":        l.MaxMBits,
		"limits.max_i_bits":        l.MaxIBits,
		"limits.max_q_bits":        l.MaxQBits,
		"limits.max_d_words":       l.MaxDWords,
		"limits.max_timers":        l.MaxTimers,
		"limits.max_counters":      l.MaxCounters,
		"limits.max_nodes":         l.MaxNodes,
		"limits.max_links":         l.MaxLinks,
		"limits.p2_max_iterations": l.P2MaxIterations,
	}
	for name, value := range fields {
		if value <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	return nil
}

func validateLogLevel(level string) error {
	switch level {
	case "silent", "error", "info", "verbose", "debug":
		return nil
	default:
		return fmt.Errorf("log.level %q is not one of silent|error|info|verbose|debug", level)
	}
}
