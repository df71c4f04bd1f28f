package blob

import (
	"context"
	"fmt"

	"hmiscli/internal/config"
)

// Open selects a Store for the configured driver. root is the directory
// used by the filesystem driver.
func Open(ctx context.Context, cfg config.StorageConfig, root string) (Store, error) {
	switch Driver(cfg.Driver) {
	case "", DriverFilesystem:
		return NewFilesystem(root)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}
