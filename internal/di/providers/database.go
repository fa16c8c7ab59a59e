package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/tallyapp/tally-server/internal/config"
	"github.com/tallyapp/tally-server/internal/logger"
	"github.com/tallyapp/tally-server/internal/store"
	"github.com/tallyapp/tally-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the ledger store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(filepath.Dir(cfg.Data.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sqlite.Open(cfg.Data.DatabasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Data.DatabasePath)

	return &StoreHandle{Store: db}, nil
}

// ProvideStoreInterface exposes the store behind its interface for services.
func ProvideStoreInterface(i do.Injector) (store.Store, error) {
	handle := do.MustInvoke[*StoreHandle](i)
	return handle.Store, nil
}
