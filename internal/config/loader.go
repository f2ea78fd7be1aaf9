package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths locates config files under a base directory.
type Paths struct {
	BaseDir string
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}

func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, profile+".yaml")
}

// Loader reads YAML configs and layers default.yaml <- <profile>.yaml on
// top of the built-in defaults.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]Config // key: profile ("" for default only)
}

// NewLoader creates a loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]Config),
	}
}

// Paths returns the files a profile is built from, for watching.
func (l *Loader) Paths(profile string) []string {
	out := []string{l.paths.DefaultPath()}
	if profile != "" {
		out = append(out, l.paths.ProfilePath(profile))
	}
	return out
}

// Load returns the resolved config for profile (may be empty). Missing
// files are skipped; malformed or invalid ones are errors.
func (l *Loader) Load(profile string) (Config, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[profile]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	merged, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return Config{}, fmt.Errorf("read default: %w", err)
	}
	if profile != "" {
		prof, err := readYAML(l.paths.ProfilePath(profile))
		if err != nil {
			return Config{}, fmt.Errorf("read profile %q: %w", profile, err)
		}
		merged = mergeRaw(merged, prof)
	}
	if err := Validate(merged); err != nil {
		return Config{}, err
	}
	cfg := Resolve(merged)

	l.mu.Lock()
	l.cache[profile] = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Invalidate clears the cache. Call after the watcher reports a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]Config)
}

// readYAML loads a YAML file into Raw. Missing files return a zero Raw.
func readYAML(path string) (Raw, error) {
	var raw Raw
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Raw{}, nil
		}
		return Raw{}, err
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Raw{}, err
	}
	return raw, nil
}

// mergeRaw overlays b on a wherever b sets a value.
func mergeRaw(a, b Raw) Raw {
	out := a

	if b.Search.Workers != nil {
		out.Search.Workers = b.Search.Workers
	}
	if b.Search.ChunkSize != nil {
		out.Search.ChunkSize = b.Search.ChunkSize
	}
	if b.Search.Cap != nil {
		out.Search.Cap = b.Search.Cap
	}
	if b.Search.ProgressInterval != nil {
		out.Search.ProgressInterval = b.Search.ProgressInterval
	}

	if b.Log.Level != "" {
		out.Log.Level = b.Log.Level
	}
	if b.Log.Development != nil {
		out.Log.Development = b.Log.Development
	}

	if b.Server.HTTPAddr != "" {
		out.Server.HTTPAddr = b.Server.HTTPAddr
	}
	if b.Server.GRPCAddr != "" {
		out.Server.GRPCAddr = b.Server.GRPCAddr
	}
	if b.Server.MaxSlots != nil {
		out.Server.MaxSlots = b.Server.MaxSlots
	}
	if b.Server.MaxCap != nil {
		out.Server.MaxCap = b.Server.MaxCap
	}
	return out
}
