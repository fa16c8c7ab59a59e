package providers

import (
	"github.com/samber/do/v2"

	"github.com/tallyapp/tally-server/internal/logger"
	"github.com/tallyapp/tally-server/internal/media"
	"github.com/tallyapp/tally-server/internal/notify"
	"github.com/tallyapp/tally-server/internal/service"
	"github.com/tallyapp/tally-server/internal/store"
)

// ProvideNotifier provides the outbound notifier. Log-backed until a real
// delivery channel exists.
func ProvideNotifier(i do.Injector) (notify.Notifier, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return notify.NewLogNotifier(log.Logger), nil
}

// ProvideBookService provides the account book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	st := do.MustInvoke[store.Store](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewBookService(st, log.Logger), nil
}

// ProvideAuthorityService provides the membership service.
func ProvideAuthorityService(i do.Injector) (*service.AuthorityService, error) {
	st := do.MustInvoke[store.Store](i)
	notifier := do.MustInvoke[notify.Notifier](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewAuthorityService(st, notifier, log.Logger), nil
}

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	st := do.MustInvoke[store.Store](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCategoryService(st, log.Logger), nil
}

// ProvideExpenseService provides the expense service.
func ProvideExpenseService(i do.Injector) (*service.ExpenseService, error) {
	st := do.MustInvoke[store.Store](i)
	receipts := do.MustInvoke[media.ReceiptStore](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewExpenseService(st, receipts, log.Logger), nil
}

// ProvideProportionService provides the proportion service.
func ProvideProportionService(i do.Injector) (*service.ProportionService, error) {
	st := do.MustInvoke[store.Store](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewProportionService(st, log.Logger), nil
}
