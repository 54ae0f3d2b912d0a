package cache

import (
	"context"
	"log/slog"

	"cookbook/internal/config"
)

// MakeCache picks blob storage when an account is configured, a directory when one is
// set, and memory otherwise.
func MakeCache(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch {
	case cfg.AzureAccountName != "":
		slog.InfoContext(ctx, "using azure blob storage for cache", "container", cfg.AzureContainerName)
		return NewBlobCache(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureContainerName)
	case cfg.Dir != "":
		slog.InfoContext(ctx, "using file cache", "dir", cfg.Dir)
		return NewFileCache(cfg.Dir), nil
	default:
		slog.InfoContext(ctx, "using in-memory cache")
		return NewInMemoryCache(), nil
	}
}
