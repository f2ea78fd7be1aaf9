package config

import (
	"fmt"
	"strings"
	"time"
)

var levels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks semantic constraints of a Raw config and reports every
// violation at once.
func Validate(raw Raw) error {
	var errs []string

	if raw.Search.Workers != nil && *raw.Search.Workers < 0 {
		errs = append(errs, "search.workers must be >= 0")
	}
	if raw.Search.ChunkSize != nil && *raw.Search.ChunkSize == 0 {
		errs = append(errs, "search.chunk_size must be >= 1")
	}
	if raw.Search.ProgressInterval != nil {
		d, err := time.ParseDuration(*raw.Search.ProgressInterval)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("search.progress_interval: %v", err))
		case d < 0:
			errs = append(errs, "search.progress_interval must be >= 0")
		}
	}

	if raw.Log.Level != "" && !levels[raw.Log.Level] {
		errs = append(errs, "log.level must be one of: debug, info, warn, error")
	}

	if raw.Server.MaxSlots != nil && *raw.Server.MaxSlots < 0 {
		errs = append(errs, "server.max_slots must be >= 0 (0 means no limit)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Resolve applies raw on top of Default. raw must have passed Validate.
func Resolve(raw Raw) Config {
	cfg := Default()
	if raw.Search.Workers != nil {
		cfg.Search.Workers = *raw.Search.Workers
	}
	if raw.Search.ChunkSize != nil {
		cfg.Search.ChunkSize = *raw.Search.ChunkSize
	}
	if raw.Search.Cap != nil {
		cfg.Search.Cap = *raw.Search.Cap
	}
	if raw.Search.ProgressInterval != nil {
		cfg.Search.ProgressInterval, _ = time.ParseDuration(*raw.Search.ProgressInterval)
	}
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	if raw.Log.Development != nil {
		cfg.Log.Development = *raw.Log.Development
	}
	if raw.Server.HTTPAddr != "" {
		cfg.Server.HTTPAddr = raw.Server.HTTPAddr
	}
	if raw.Server.GRPCAddr != "" {
		cfg.Server.GRPCAddr = raw.Server.GRPCAddr
	}
	if raw.Server.MaxSlots != nil {
		cfg.Server.MaxSlots = *raw.Server.MaxSlots
	}
	if raw.Server.MaxCap != nil {
		cfg.Server.MaxCap = *raw.Server.MaxCap
	}
	return cfg
}
