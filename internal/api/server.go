// Package api provides the HTTP API server and handlers for the Tally application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tallyapp/tally-server/internal/http/response"
	"github.com/tallyapp/tally-server/internal/identity"
	"github.com/tallyapp/tally-server/internal/ratelimit"
	"github.com/tallyapp/tally-server/internal/service"
	"github.com/tallyapp/tally-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	verifier          identity.Verifier
	bookService       *service.BookService
	authorityService  *service.AuthorityService
	categoryService   *service.CategoryService
	expenseService    *service.ExpenseService
	proportionService *service.ProportionService
	limiter           *ratelimit.KeyedRateLimiter
	validate          *validation.Validator
	router            *chi.Mux
	logger            *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	verifier identity.Verifier,
	bookService *service.BookService,
	authorityService *service.AuthorityService,
	categoryService *service.CategoryService,
	expenseService *service.ExpenseService,
	proportionService *service.ProportionService,
	limiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *Server {
	s := &Server{
		verifier:          verifier,
		bookService:       bookService,
		authorityService:  authorityService,
		categoryService:   categoryService,
		expenseService:    expenseService,
		proportionService: proportionService,
		limiter:           limiter,
		validate:          validation.New(),
		router:            chi.NewRouter(),
		logger:            logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1. Everything below requires a verified identity.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", s.handleGetCurrentUser)
		})

		r.Route("/books", func(r chi.Router) {
			r.Post("/", s.handleCreateBook)
			r.Get("/", s.handleListBooks)
			r.Get("/{id}", s.handleGetBook)
			r.Patch("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
			r.Post("/{id}/leave", s.handleLeaveBook)

			r.Post("/{id}/authorities", s.handleShareBook)
			r.Get("/{id}/authorities", s.handleListAuthorities)

			r.Post("/{id}/categories", s.handleCreateCategory)
			r.Get("/{id}/categories", s.handleListCategories)

			r.Post("/{id}/expenses", s.handleCreateExpense)
			r.Get("/{id}/expenses", s.handleListExpenses)
		})

		r.Route("/authorities", func(r chi.Router) {
			r.Get("/{id}", s.handleGetAuthority)
			r.Patch("/{id}", s.handleUpdateAuthorityRole)
			r.Delete("/{id}", s.handleRemoveMember)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/{id}", s.handleGetCategory)
			r.Patch("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/{id}", s.handleGetExpense)
			r.Patch("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
			r.Post("/{id}/receipt", s.handleUploadReceipt)
			r.Get("/{id}/receipt", s.handleDownloadReceipt)

			r.Post("/{id}/proportions", s.handleCreateProportion)
			r.Get("/{id}/proportions", s.handleListProportions)
		})

		r.Route("/proportions", func(r chi.Router) {
			r.Get("/{id}", s.handleGetProportion)
			r.Patch("/{id}", s.handleUpdateProportion)
			r.Delete("/{id}", s.handleDeleteProportion)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
