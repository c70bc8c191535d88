package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/katana-project/artwork/config"
	"github.com/katana-project/artwork/internal/errors"
	"github.com/katana-project/artwork/remote"
	"github.com/katana-project/artwork/resolver"
	"go.uber.org/zap"
	"net/http"
	"sync/atomic"
)

// Server is a REST server resolving image URLs of a media server.
type Server struct {
	backend atomic.Pointer[backend]
	logger  *zap.Logger
}

// backend is the configured state of the server, replaced as a whole on reconfiguration.
type backend struct {
	resolver *resolver.Resolver
	// remote is nil if item lookups are disabled.
	remote *remote.Client
}

// NewServer creates a new server, client can be nil to disable item lookups.
// The client must target the same media server as the resolver.
func NewServer(r *resolver.Resolver, client *remote.Client, logger *zap.Logger) (*Server, error) {
	if r == nil {
		return nil, errors.New("resolver must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{logger: logger}
	s.backend.Store(&backend{resolver: r, remote: client})

	return s, nil
}

// newBackend creates the resolver and remote client described by the configuration.
func newBackend(cfg *config.Config, logger *zap.Logger) (*backend, error) {
	r, err := resolver.New(cfg.Server.Resolver())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resolver")
	}

	var client *remote.Client
	if cfg.Remote.Enabled() {
		client, err = remote.NewClient(cfg.Server.BaseURL, remote.Options{
			Token:    cfg.Remote.Token,
			UserID:   cfg.Remote.UserID,
			CacheExp: cfg.Remote.CacheExpDuration(),
			Timeout:  cfg.Remote.TimeoutDuration(),
		}, logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create remote client")
		}
	}

	return &backend{resolver: r, remote: client}, nil
}

// NewConfiguredServer creates a new server from configuration.
func NewConfiguredServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	b, err := newBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	return NewServer(b.resolver, b.remote, logger)
}

// Resolver returns the current resolver.
func (s *Server) Resolver() *resolver.Resolver {
	return s.backend.Load().resolver
}

// Remote returns the current remote client, nil if item lookups are disabled.
func (s *Server) Remote() *remote.Client {
	return s.backend.Load().remote
}

// Reconfigure replaces the resolver and the remote client with ones created from configuration,
// in-flight requests keep the previous ones.
func (s *Server) Reconfigure(cfg *config.Config) error {
	b, err := newBackend(cfg, s.logger)
	if err != nil {
		return err
	}

	s.backend.Store(b)
	s.logger.Info(
		"server reconfigured",
		zap.String("base_url", b.resolver.BaseURL()),
		zap.Float64("pixel_ratio", b.resolver.PixelRatio()),
		zap.Int("quality", b.resolver.Quality()),
		zap.Bool("remote", b.remote != nil),
	)
	return nil
}

// NewRouter creates a new router serving the API of the server.
func NewRouter(s *Server, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(logger),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://*"},
			AllowedMethods:   []string{"GET", "POST"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/items/{itemId}/images/{type}", s.handleItemImage)
			r.Post("/images/{type}", s.handleImage)
			r.Get("/placeholder", s.handlePlaceholder)
		})
	})

	return r
}

// NewConfiguredRouter creates a new server router from configuration.
func NewConfiguredRouter(cfg *config.Config, logger *zap.Logger) (*Server, http.Handler, error) {
	s, err := NewConfiguredServer(cfg, logger)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to configure server")
	}

	return s, NewRouter(s, logger), nil
}
