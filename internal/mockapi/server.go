// Package mockapi is an in-memory storefront backend serving a subset of the API under /api.
//
// It is used by the CLI's mock-server command for local development and by tests
// that exercise the client end to end.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jub0bs/cors"
	"github.com/storefront-dev/storefront/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	ServerShutdownTimeout = 10 * time.Second
	CORSMaxAgeInSeconds   = 86400
	DefaultTokenTTL       = time.Hour
)

// Config holds the backend's settings.
type Config struct {
	Host           string
	Port           int
	Environment    string
	Secret         string
	AllowedOrigins []string
	TokenTTL       time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost. Tests lower it.
	BcryptCost int
	// SkipSeed starts the backend with no users, categories or products.
	SkipSeed bool
}

type Server struct {
	cfg      Config
	store    *store
	tokens   *tokens
	validate *validator.Validate
	logger   *slog.Logger
	router   *chi.Mux
}

// NewServer builds the router and, unless cfg.SkipSeed is set, loads the demo data.
func NewServer(cfg Config, log *slog.Logger) (*Server, error) {
	if cfg.Secret == "" {
		return nil, errors.New("a token signing secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if log == nil {
		log = logger.Discard()
	}

	st := newStore(cfg.BcryptCost)
	s := &Server{
		cfg:      cfg,
		store:    st,
		tokens:   &tokens{secret: []byte(cfg.Secret), ttl: cfg.TokenTTL, store: st},
		validate: newValidator(),
		logger:   log,
		router:   chi.NewRouter(),
	}

	corsMiddleware, err := s.corsMiddleware()
	if err != nil {
		return nil, err
	}

	s.setupMiddleware(corsMiddleware)
	s.registerRoutes()

	if !cfg.SkipSeed {
		if err := seed(st); err != nil {
			return nil, fmt.Errorf("seeding demo data: %w", err)
		}
	}
	return s, nil
}

// Handler returns the backend's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Host:cfg.Port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serverAddr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))

	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("mock api listening", slog.String("environment", s.cfg.Environment), slog.String("address", "http://"+serverAddr+"/api"))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("mock api failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("mock api shutting down")

	// force an exit if the server does not shut down within the timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ServerShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("shutdown error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (s *Server) corsMiddleware() (*cors.Middleware, error) {
	cfg := cors.Config{
		Origins: s.cfg.AllowedOrigins,
		Methods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		RequestHeaders: []string{
			"Authorization",
			"Content-Type",
			"X-Request-Id",
		},
		MaxAgeInSeconds: CORSMaxAgeInSeconds,
	}
	m, err := cors.NewMiddleware(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create CORS middleware: %w", err)
	}
	return m, nil
}

func (s *Server) setupMiddleware(corsMiddleware *cors.Middleware) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(corsMiddleware.Wrap)
}

func (s *Server) registerRoutes() {
	s.router.NotFound(s.NotFoundHandler)
	s.router.MethodNotAllowed(s.MethodNotAllowedHandler)

	s.router.Get("/health/ready", s.ReadinessHandler)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.RegisterHandler)
			r.Post("/login", s.LoginHandler)

			r.Group(func(r chi.Router) {
				r.Use(s.tokens.RequireValidAccessToken)

				r.Post("/logout", s.LogoutHandler)
				r.Post("/refresh", s.RefreshHandler)
				r.Get("/profile", s.GetProfileHandler)
				r.Put("/profile", s.UpdateProfileHandler)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.ListProductsHandler)
			r.Get("/search", s.SearchProductsHandler)
			r.Get("/{id}", s.GetProductHandler)

			r.Group(func(r chi.Router) {
				r.Use(s.tokens.RequireValidAccessToken)
				r.Use(RequireRole("seller", "admin"))

				r.Post("/", s.CreateProductHandler)
				r.Delete("/{id}", s.DeleteProductHandler)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.ListCategoriesHandler)
			r.Get("/slug/{slug}", s.GetCategoryBySlugHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.tokens.RequireValidAccessToken)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", s.GetCartHandler)
				r.Post("/add", s.AddToCartHandler)
				r.Delete("/remove/{itemId}", s.RemoveFromCartHandler)
				r.Delete("/clear", s.ClearCartHandler)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", s.GetWishlistHandler)
				r.Post("/add", s.AddToWishlistHandler)
				r.Delete("/remove/{productId}", s.RemoveFromWishlistHandler)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", s.CreateOrderHandler)
				r.Get("/my-orders", s.MyOrdersHandler)
				r.Get("/{id}", s.GetOrderHandler)
			})
		})
	})
}
