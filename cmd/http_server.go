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
	"gorm.io/gorm"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/cirruslabs-it/asset-inventory/internal/auth"
	"github.com/cirruslabs-it/asset-inventory/internal/core/events"
	"github.com/cirruslabs-it/asset-inventory/internal/equipment"
	equipmentpg "github.com/cirruslabs-it/asset-inventory/internal/equipment/postgres"
	"github.com/cirruslabs-it/asset-inventory/internal/notification"
	"github.com/cirruslabs-it/asset-inventory/internal/transport"
	"github.com/cirruslabs-it/asset-inventory/internal/transport/rest"
	"github.com/cirruslabs-it/asset-inventory/internal/user"
	userpg "github.com/cirruslabs-it/asset-inventory/internal/user/postgres"
	"github.com/cirruslabs-it/asset-inventory/pkg/logger"
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
	Config              *internal.Config
	DB                  *sqlx.DB
	Router              *chi.Mux
	Logger              *slog.Logger
	AuthHandler         *auth.Handler
	UserHandler         *user.Handler
	EquipmentHandler    *equipment.Handler
	NotificationHandler *notification.Handler
	ResetTokens         *auth.ResetTokenStore
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.ResetTokens.Stop()

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Config.Server.AllowedOrigins,
		deps.AuthHandler,
		deps.UserHandler,
		deps.EquipmentHandler,
		deps.NotificationHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
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
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
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

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM shares the pgx stdlib connection pool opened above.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)

	userRepo := userpg.NewUserRepository(gormDB)
	equipmentRepo := equipmentpg.NewEquipmentRepository(gormDB)

	// Mail transports: Graph when the tenant is configured, SMTP always.
	var primary notification.Mailer
	if config.Mail.Graph.Enabled() {
		primary = notification.NewGraphMailer(config.Mail.Graph)
	}
	secondary := notification.NewSMTPMailer(config.Mail.SMTP, config.Mail.FromAddress, config.Mail.FromName)
	dispatcher := notification.NewDispatcher(primary, secondary, config.Notification.CompanyName, lg)

	renderer := notification.NewRenderer(config.Notification.TempDir, config.Notification.CompanyName)
	workflow := notification.NewAssignmentWorkflow(renderer, dispatcher, config.Notification.CleanupDelay, lg)
	workflow.Register(bus)

	resetTokens := auth.NewResetTokenStore(config.Security.ResetTokenTTL)
	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(
		userRepo,
		tokenGen,
		resetTokens,
		dispatcher,
		config.Server.BaseURL,
		config.Security.BCryptCost,
		lg,
	)
	userService := user.NewService(userRepo, config.Security.BCryptCost, lg)
	equipmentService := equipment.NewService(equipmentRepo, bus, lg)

	base := transport.NewBaseHandler(lg)

	return &Dependencies{
		Config:              config,
		DB:                  db,
		Router:              chi.NewRouter(),
		Logger:              lg,
		AuthHandler:         auth.NewHandler(authService),
		UserHandler:         user.NewHandler(userService),
		EquipmentHandler:    equipment.NewHandler(base, equipmentService),
		NotificationHandler: notification.NewHandler(base, dispatcher, config.Mail.ProbeAddress),
		ResetTokens:         resetTokens,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.ConnMaxLifetime > 0 {
		dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
