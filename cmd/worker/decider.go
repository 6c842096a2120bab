package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmehdipour/credit-decision/internal/app"
	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmehdipour/credit-decision/internal/db"
	"github.com/jmehdipour/credit-decision/internal/kafka"
	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/metrics"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deciderCmd = &cobra.Command{
	Use:   "decider",
	Short: "Consume decision requests from Kafka and run the decision engine",
	RunE:  runDecider,
}

func runDecider(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.Init(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) DB connection (MySQL)
	dbx, err := db.NewMySQLConnection(cfg.MySQL)
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}
	defer dbx.Close()

	// 3) kafka consumer
	consumer := kafka.NewConsumer(cfg.Kafka)
	defer consumer.Close()

	w := worker.NewDecider(consumer, app.NewDecisionEngine(cfg, dbx, mlclient.New(cfg.ML, log), log), cfg.Worker.Count, log)

	// 4) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("decider started",
		zap.String("topic", consumer.Topic()),
		zap.String("group", consumer.Group()),
		zap.Int("workers", cfg.Worker.Count),
	)

	return w.Run(ctx)
}
