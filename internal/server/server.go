// Package server exposes the seed search over HTTP and gRPC.
package server

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/xtding233/ability-miner/internal/bridge"
	"github.com/xtding233/ability-miner/internal/config"
	"github.com/xtding233/ability-miner/internal/search"
)

// Server holds the search runner shared by both transports. Apply swaps it
// atomically so in-flight searches finish on the settings they started with.
type Server struct {
	runner atomic.Pointer[bridge.Runner]
	log    *zap.Logger
}

// New creates a server; a nil logger discards output.
func New(cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{log: logger}
	s.Apply(cfg)
	return s
}

// Apply rebuilds the runner from cfg.
func (s *Server) Apply(cfg config.Config) {
	engine := search.NewEngine(search.Options{
		Workers:          cfg.Search.Workers,
		ChunkSize:        cfg.Search.ChunkSize,
		ProgressInterval: cfg.Search.ProgressInterval,
	}, s.log.Named("search"))
	s.runner.Store(&bridge.Runner{
		Engine:     engine,
		DefaultCap: cfg.Search.Cap,
		MaxSlots:   cfg.Server.MaxSlots,
		MaxCap:     cfg.Server.MaxCap,
	})
	s.log.Info("search settings applied",
		zap.Int("workers", cfg.Search.Workers),
		zap.Uint32("chunk_size", cfg.Search.ChunkSize),
		zap.Uint64("cap", cfg.Search.Cap),
		zap.Int("max_slots", cfg.Server.MaxSlots),
		zap.Uint64("max_cap", cfg.Server.MaxCap),
	)
}

// Runner returns the current runner.
func (s *Server) Runner() bridge.Runner { return *s.runner.Load() }
