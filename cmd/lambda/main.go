package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/xtding233/ability-miner/internal/bridge"
	"github.com/xtding233/ability-miner/internal/config"
	"github.com/xtding233/ability-miner/internal/logging"
	"github.com/xtding233/ability-miner/internal/search"
)

func main() {
	dir := os.Getenv("MINER_CONF")
	if dir == "" {
		dir = "configs"
	}
	cfg, err := config.NewLoader(dir).Load(os.Getenv("MINER_PROFILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rn := bridge.Runner{
		Engine: search.NewEngine(search.Options{
			Workers:          cfg.Search.Workers,
			ChunkSize:        cfg.Search.ChunkSize,
			ProgressInterval: cfg.Search.ProgressInterval,
		}, logger),
		DefaultCap: cfg.Search.Cap,
		MaxSlots:   cfg.Server.MaxSlots,
		MaxCap:     cfg.Server.MaxCap,
	}
	lambda.Start(newHandler(rn))
}
