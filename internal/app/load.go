package app

import (
	"context"
	"fmt"

	"github.com/vk/cargopx/internal/config"
	"github.com/vk/cargopx/internal/ctxlog"
	"github.com/vk/cargopx/internal/fsutil"
)

// LoadSettings looks for the settings file from dir upwards and loads it with
// loader. Without a settings file the defaults are returned.
func LoadSettings(ctx context.Context, loader config.Loader, dir string) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)

	path, found, err := fsutil.FindUp(dir, config.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to look for %s: %w", config.FileName, err)
	}
	if !found {
		logger.Debug("No settings file found, using defaults.", "dir", dir)
		return config.Default(), nil
	}

	logger.Debug("Loading settings file.", "path", path)
	return loader.Load(ctx, path)
}
