package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/horario-planner/pkg/config"
	"github.com/noah-isme/horario-planner/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	app := &cliApp{cfg: cfg, logger: logr}
	defer app.Close()

	return newRootCmd(app).Execute()
}
