package app

import (
	"context"

	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/logger"
)

// ExecuteInitCommand writes the default configuration to path, or adds the keys an
// existing file lacks.
func ExecuteInitCommand(ctx context.Context, path string) {
	if path == "" {
		path = config.DefaultConfigFilename
	}

	created, err := config.WriteDefaultConfig(path)
	if err != nil {
		logger.Fatalf(ctx, "Failed to write configuration: %v", err)
	}

	if created {
		logger.Infof(ctx, "Configuration written to %s", path)

		return
	}

	logger.Infof(ctx, "Configuration %s already has every default key", path)
}
