package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samvad-hq/samvad-portal/internal/app"
	"github.com/samvad-hq/samvad-portal/internal/config"
	"github.com/samvad-hq/samvad-portal/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "portalctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defer logger.Close()
	return newRootCmd(os.Stdout, openPortal).Execute()
}

// openPortal loads config and builds a portal whose logs go to stderr, keeping stdout for JSON.
func openPortal(ctx context.Context, flags rootFlags) (*app.Portal, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.noCache {
		cfg.StorageType = "none"
	}
	if flags.source != "" {
		cfg.ContentSource = flags.source
	}

	log, err := logger.InitTo(cfg, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.NewPortal(ctx, cfg, app.Options{Offline: flags.offline}, log)
}
