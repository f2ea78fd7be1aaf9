// Package config loads YAML settings for the search engine, logging and the
// server.
package config

import "time"

// Raw mirrors the YAML schema. Pointer fields distinguish "unset" from zero
// so files can be layered.
type Raw struct {
	Search SearchRaw `yaml:"search"`
	Log    LogRaw    `yaml:"log"`
	Server ServerRaw `yaml:"server"`
}

type SearchRaw struct {
	Workers          *int    `yaml:"workers,omitempty"`    // 0 = GOMAXPROCS
	ChunkSize        *uint32 `yaml:"chunk_size,omitempty"` // candidates claimed per worker step
	Cap              *uint64 `yaml:"cap,omitempty"`        // 0 = unbounded
	ProgressInterval *string `yaml:"progress_interval,omitempty"`
}

type LogRaw struct {
	Level       string `yaml:"level,omitempty"`
	Development *bool  `yaml:"development,omitempty"`
}

type ServerRaw struct {
	HTTPAddr string `yaml:"http_addr,omitempty"`
	GRPCAddr string `yaml:"grpc_addr,omitempty"`
	MaxSlots *int    `yaml:"max_slots,omitempty"`
	MaxCap   *uint64 `yaml:"max_cap,omitempty"` // bounds remote caps, 0 = no bound
}

// Config is the resolved configuration with defaults applied.
type Config struct {
	Search Search
	Log    Log
	Server Server
}

type Search struct {
	Workers          int
	ChunkSize        uint32
	Cap              uint64
	ProgressInterval time.Duration
}

type Log struct {
	Level       string
	Development bool
}

type Server struct {
	HTTPAddr string
	GRPCAddr string
	MaxSlots int
	MaxCap   uint64
}

// Default is used for anything no file sets.
func Default() Config {
	return Config{
		Search: Search{
			Workers:          0,
			ChunkSize:        1 << 16,
			Cap:              100,
			ProgressInterval: 5 * time.Second,
		},
		Log: Log{Level: "info"},
		Server: Server{
			HTTPAddr: ":8080",
			GRPCAddr: ":9090",
			MaxSlots: 16,
			MaxCap:   10000,
		},
	}
}
