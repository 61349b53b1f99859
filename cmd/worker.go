package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dramaxav/curia-management/internal/alert"
	alertPostgres "github.com/dramaxav/curia-management/internal/alert/postgres"
	"github.com/dramaxav/curia-management/internal/core/events"
	memberPostgres "github.com/dramaxav/curia-management/internal/member/postgres"
	"github.com/dramaxav/curia-management/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers like the alert deriver and the event bus.`,
}

var alertWorkerCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Start the alert deriver",
	Long:  `Periodically re-derive probation alerts from member join dates`,
	Run: func(cmd *cobra.Command, args []string) {
		startAlertWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var deriveInterval time.Duration

func startAlertWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	sqlDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init db: %v\n", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init gorm: %v\n", err)
		os.Exit(1)
	}

	interval := config.Alerts.DeriveInterval
	if deriveInterval > 0 {
		interval = deriveInterval
	}

	svc := alert.NewService(
		alertPostgres.NewAlertRepository(gormDB),
		memberPostgres.NewMemberRepository(gormDB),
		alert.Config{
			ProbationThresholdMonths: config.Alerts.ProbationThresholdMonths,
			MandateWarningDays:       config.Alerts.MandateWarningDays,
			MandateCriticalDays:      config.Alerts.MandateCriticalDays,
			DeriveInterval:           interval,
		},
		log,
	)

	log.Info("starting alert deriver", "interval", interval)

	ctx, cancel := context.WithCancel(context.Background())
	go svc.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down alert deriver", "signal", sig)
	cancel()

	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", "error", err)
	}
	log.Info("alert deriver shutdown complete")
}

func startEventWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)

	eventBus.Subscribe(events.EventTypeApprovalDecided, func(ctx context.Context, event events.Event) error {
		log.Info("approval decided",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	eventBus.Subscribe(events.EventTypeMemberPromoted, func(ctx context.Context, event events.Event) error {
		log.Info("member promoted",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	log.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down event bus", "signal", sig)
	log.Info("event bus shutdown complete")
}

func init() {
	alertWorkerCmd.Flags().DurationVar(&deriveInterval, "interval", 0, "Derivation interval (overrides config)")

	workerCmd.AddCommand(alertWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
