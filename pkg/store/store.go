package store

import (
	"context"
	"fmt"

	"github.com/spampipe/spampipe/pkg/config"
	"github.com/spampipe/spampipe/pkg/learning"
)

// Store persists trained model snapshots
type Store interface {
	Save(ctx context.Context, snap *learning.Snapshot) error
	Load(ctx context.Context) (*learning.Snapshot, error)
}

// Open selects the store backend from configuration
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Model.Backend {
	case "file":
		return NewFileStore(cfg.Model.Path), nil
	case "redis":
		return NewRedisStore(&cfg.Model.Redis)
	default:
		return nil, fmt.Errorf("unknown model backend: %q", cfg.Model.Backend)
	}
}
