package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/auth"
	authpg "github.com/akr0407/nuxt-base-project/internal/auth/postgres"
	"github.com/akr0407/nuxt-base-project/internal/rbac"
	rbacpg "github.com/akr0407/nuxt-base-project/internal/rbac/postgres"
	"github.com/akr0407/nuxt-base-project/internal/settings"
	settingspg "github.com/akr0407/nuxt-base-project/internal/settings/postgres"
	"github.com/akr0407/nuxt-base-project/internal/tenant"
	tenantpg "github.com/akr0407/nuxt-base-project/internal/tenant/postgres"
	"github.com/akr0407/nuxt-base-project/internal/transport/rest"
	"github.com/akr0407/nuxt-base-project/internal/user"
	userpg "github.com/akr0407/nuxt-base-project/internal/user/postgres"
	"github.com/akr0407/nuxt-base-project/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if sqlDB, err := deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				deps.Logger.Error("database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	router := chi.NewRouter()
	wireRoutes(router, db, config, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}

func wireRoutes(router *chi.Mux, db *gorm.DB, config *internal.Config, lg *slog.Logger) {
	sqlDB, _ := db.DB()

	authRepo := authpg.NewRepository(db)
	rbacRepo := rbacpg.NewRepository(db)
	tenantRepo := tenantpg.NewRepository(db)
	userRepo := userpg.NewRepository(db)
	settingsRepo := settingspg.NewRepository(db)

	tokenService := auth.NewTokenService(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	rbacService := rbac.NewService(rbacRepo)
	authService := auth.NewService(authRepo, authRepo, tokenService, rbacService, config.Security.BCryptCost)
	settingsService := settings.NewService(settingsRepo)
	tenantService := tenant.NewService(tenantRepo, settingsService)
	userService := user.NewService(userRepo, config.Security.BCryptCost)

	authHandler := auth.NewHandler(authService, config.IsProduction())
	rbacHandler := rbac.NewHandler(rbacService)
	tenantHandler := tenant.NewHandler(tenantService)
	userHandler := user.NewHandler(userService)
	settingsHandler := settings.NewHandler(settingsService)

	rest.RegisterAllRoutes(
		router,
		sqlDB,
		authHandler,
		userHandler,
		rbacHandler,
		tenantHandler,
		settingsHandler,
		config.Server.AllowedOrigins,
		lg,
	)
}

// initDB opens the configured database. Postgres goes through the pgx
// stdlib driver with sqlx handling the pool bootstrap, gorm reusing the
// same *sql.DB; sqlite is for local development and tests.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	if cfg.Driver == "sqlite" {
		return gorm.Open(gormsqlite.Open(cfg.Source), gormConfig)
	}

	dbConn, err := sqlx.Connect("pgx", cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: dbConn.DB}), gormConfig)
}
