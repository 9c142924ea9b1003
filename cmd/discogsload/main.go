package main

import (
	"context"
	"fmt"
	"os"

	"discogsload/config"
	"discogsload/internal/load"
	"discogsload/pkg/logger"
)

func main() {
	log := logger.New("discogsload")
	log = log.Function("main")

	if err := run(log); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	log.Info("load complete")
}

func run(log logger.Logger) error {
	cfg, err := config.Load(os.Args[1:], log)
	if err != nil {
		return log.Err("load config", err)
	}

	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	opts := load.Options{
		BatchSize:     cfg.BatchSize,
		ConnString:    connString,
		CreateIndexes: cfg.CreateIndexes,
		InputFiles:    cfg.InputFiles,
	}

	ctx := context.Background()
	if err := load.Run(ctx, opts, log); err != nil {
		return log.Err("run load", err)
	}

	return nil
}
