package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"focusflow/config"
	"focusflow/handlers"
	"focusflow/logger"
	"focusflow/middleware"
	"focusflow/repository"
	"focusflow/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "focusflow",
		Short:         "FocusFlow habit tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the bare binary serves, as the container entrypoint expects.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newSeedCmd())
	return root
}

// setup loads configuration and builds the logger shared by every command.
func setup() (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, closer, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(log)
	return cfg, log, closer, nil
}

// openStore builds the configured backend. Mongo connects on first use.
func openStore(cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		logger.Info("using database", "driver", cfg.StoreDriver, "path", cfg.SQLitePath())
		return repository.NewSQLiteStore(cfg.SQLitePath())
	default:
		store, err := repository.NewMongoStore(cfg.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("using database", "driver", cfg.StoreDriver, "database", store.DatabaseName())
		return store, nil
	}
}

type routerConfig struct {
	Store          repository.Store
	Sessions       *session.Manager
	Logger         *slog.Logger
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func newRouter(rc routerConfig) http.Handler {
	habitHandler := handlers.NewHabitHandler(rc.Store.Habits(), rc.Logger)
	authHandler := handlers.NewAuthHandler(rc.Store.Users(), rc.Sessions, rc.Logger)

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(rc.Logger))
	r.Use(middleware.Recover(rc.Logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rc.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if rc.RequestTimeout > 0 {
		r.Use(middleware.Timeout(rc.RequestTimeout))
	}
	r.Use(middleware.LoadSession(rc.Sessions))

	// Set before any Route so mounted subrouters inherit it
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", handlers.Health(rc.Store, rc.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/info", handlers.GetInfo)

		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/register", authHandler.Register)
		r.Get("/auth/status", authHandler.Status)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", habitHandler.GetAllHabits)
			r.Get("/{id}", habitHandler.GetHabit)

			// Writes need a session
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession(rc.Logger))
				r.Post("/", habitHandler.CreateHabit)
				r.Put("/{id}", habitHandler.UpdateHabit)
				r.Delete("/{id}", habitHandler.DeleteHabit)
			})
		})

		r.NotFound(handlers.NotFound)
	})

	return r
}
