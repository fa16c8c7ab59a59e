// Package di provides dependency injection configuration for the Tally server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/tallyapp/tally-server/internal/config"
	"github.com/tallyapp/tally-server/internal/di/providers"
	"github.com/tallyapp/tally-server/internal/logger"
	"github.com/tallyapp/tally-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideStoreInterface)
	do.Provide(injector, providers.ProvideReceiptStore)

	// Identity and notifications
	do.Provide(injector, providers.ProvideVerifier)
	do.Provide(injector, providers.ProvideNotifier)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideAuthorityService)
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideExpenseService)
	do.Provide(injector, providers.ProvideProportionService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.AuthorityService](injector)
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.ExpenseService](injector)
	_ = do.MustInvoke[*service.ProportionService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
