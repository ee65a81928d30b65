// Package storage opens the configured backend and answers the
// relationship queries the model classes expose as attributes elsewhere:
// a state's cities, a place's reviews and amenities, and so on.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/dbstore"
	"github.com/NateMachoka/AirBnB-clone-v2/internal/filestore"
	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// Open validates cfg and opens the backend it selects. The file backend
// is loaded from disk; the database backend is migrated.
func Open(cfg types.Config, logger *slog.Logger) (types.Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("storage config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("storage", cfg.Storage)

	switch cfg.Storage {
	case types.StorageFile:
		s, err := filestore.Open(cfg.FilePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := dbstore.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
