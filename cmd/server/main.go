package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/xtding233/ability-miner/internal/config"
	"github.com/xtding233/ability-miner/internal/logging"
	"github.com/xtding233/ability-miner/internal/server"
)

var (
	confDir = flag.String("conf", "configs", "config directory holding default.yaml and <profile>.yaml")
	profile = flag.String("profile", "", "config profile layered over default.yaml")
	watch   = flag.Duration("watch", 2*time.Second, "config poll interval, 0 disables hot reload")
)

func main() {
	flag.Parse()

	loader := config.NewLoader(*confDir)
	cfg, err := loader.Load(*profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	srv := server.New(cfg, logger)

	if *watch > 0 {
		w := config.NewFileWatcher(loader.Paths(*profile), *watch, logger, func(string) {
			loader.Invalidate()
			next, err := loader.Load(*profile)
			if err != nil {
				logger.Error("config reload rejected", zap.Error(err))
				return
			}
			srv.Apply(next)
		})
		w.Start()
		defer w.Stop()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcSrv := grpc.NewServer()
	server.RegisterMinerServer(grpcSrv, srv)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Fatal("grpc listen", zap.String("addr", cfg.Server.GRPCAddr), zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		logger.Info("grpc listening", zap.String("addr", cfg.Server.GRPCAddr))
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info("shutting down", zap.Stringer("signal", s))
	case err := <-errCh:
		logger.Error("server stopped", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	grpcSrv.GracefulStop()
}
