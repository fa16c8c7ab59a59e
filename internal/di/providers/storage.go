package providers

import (
	"github.com/samber/do/v2"

	"github.com/tallyapp/tally-server/internal/config"
	"github.com/tallyapp/tally-server/internal/logger"
	"github.com/tallyapp/tally-server/internal/media"
)

// ProvideReceiptStore provides the receipt image store.
func ProvideReceiptStore(i do.Injector) (media.ReceiptStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	receipts, err := media.NewDiskReceiptStore(cfg.Data.ReceiptPath)
	if err != nil {
		return nil, err
	}

	log.Info("Receipt storage initialized", "path", cfg.Data.ReceiptPath)

	return receipts, nil
}
