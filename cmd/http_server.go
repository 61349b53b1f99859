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

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/alert"
	alertPostgres "github.com/dramaxav/curia-management/internal/alert/postgres"
	"github.com/dramaxav/curia-management/internal/approval"
	approvalPostgres "github.com/dramaxav/curia-management/internal/approval/postgres"
	"github.com/dramaxav/curia-management/internal/auth"
	authPostgres "github.com/dramaxav/curia-management/internal/auth/postgres"
	"github.com/dramaxav/curia-management/internal/core/events"
	"github.com/dramaxav/curia-management/internal/member"
	memberPostgres "github.com/dramaxav/curia-management/internal/member/postgres"
	"github.com/dramaxav/curia-management/internal/praesidium"
	praesidiumPostgres "github.com/dramaxav/curia-management/internal/praesidium/postgres"
	"github.com/dramaxav/curia-management/internal/transport/openapi"
	"github.com/dramaxav/curia-management/internal/transport/rest"
	"github.com/dramaxav/curia-management/pkg/logger"
	"github.com/dramaxav/curia-management/pkg/sessionstore"
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
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	AlertSvc *alert.Service
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

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

	// derive alerts in the background alongside the API
	deriverCtx, stopDeriver := context.WithCancel(context.Background())
	go deps.AlertSvc.Run(deriverCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		stopDeriver()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		stopDeriver()
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

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	// the contract file is part of the deployable; refuse to boot without it
	if _, err := openapi.Load("./api/openapi.yml"); err != nil {
		return nil, fmt.Errorf("openapi contract: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	store, err := sessionstore.New(config.Session.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	bus := events.NewEventBus(log)

	authRepo := authPostgres.NewRepository(gormDB)
	session := auth.NewSession(authRepo, store, config.Session.Key, log)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, session, config.Security.BCryptCost)

	approvalService := approval.NewService(approvalPostgres.NewApprovalRepository(gormDB), bus, log)

	// approving an account request activates the pending user; the engine
	// itself never mutates subjects, so the side effect lives here
	bus.Subscribe(events.EventTypeApprovalDecided, func(ctx context.Context, event events.Event) error {
		decided, ok := event.(*events.ApprovalDecidedEvent)
		if !ok || decided.Kind != approval.KindAccount || decided.Decision != approval.StatusApproved {
			return nil
		}
		if err := authRepo.UpdateStatus(decided.SubjectID, auth.StatusActive); err != nil {
			log.Error("account activation failed", "user_id", decided.SubjectID, "error", err)
			return err
		}
		log.Info("account activated", "user_id", decided.SubjectID, "request_id", decided.RequestID)
		return nil
	})

	memberRepo := memberPostgres.NewMemberRepository(gormDB)
	memberService := member.NewService(memberRepo, bus, log)

	praesidiumService := praesidium.NewService(praesidiumPostgres.NewPraesidiumRepository(gormDB), log)

	alertService := alert.NewService(
		alertPostgres.NewAlertRepository(gormDB),
		memberRepo,
		alert.Config{
			ProbationThresholdMonths: config.Alerts.ProbationThresholdMonths,
			MandateWarningDays:       config.Alerts.MandateWarningDays,
			MandateCriticalDays:      config.Alerts.MandateCriticalDays,
			DeriveInterval:           config.Alerts.DeriveInterval,
		},
		log,
	)

	return &Dependencies{
		Config: config,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
		Handlers: rest.Handlers{
			Auth:       auth.NewHandler(authService),
			Approval:   approval.NewHandler(approvalService),
			Member:     member.NewHandler(memberService),
			Praesidium: praesidium.NewHandler(praesidiumService),
			Alert:      alert.NewHandler(alertService),
		},
		AlertSvc: alertService,
		Logger:   log,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
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

	return dbConn, nil
}
