package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/tallyapp/tally-server/internal/api"
	"github.com/tallyapp/tally-server/internal/config"
	"github.com/tallyapp/tally-server/internal/identity"
	"github.com/tallyapp/tally-server/internal/logger"
	"github.com/tallyapp/tally-server/internal/ratelimit"
	"github.com/tallyapp/tally-server/internal/service"
)

// RateLimiterHandle wraps the keyed rate limiter with Shutdownable.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client request rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	verifier := do.MustInvoke[identity.Verifier](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	bookService := do.MustInvoke[*service.BookService](i)
	authorityService := do.MustInvoke[*service.AuthorityService](i)
	categoryService := do.MustInvoke[*service.CategoryService](i)
	expenseService := do.MustInvoke[*service.ExpenseService](i)
	proportionService := do.MustInvoke[*service.ProportionService](i)

	handler := api.NewServer(
		verifier,
		bookService,
		authorityService,
		categoryService,
		expenseService,
		proportionService,
		limiter.KeyedRateLimiter,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
