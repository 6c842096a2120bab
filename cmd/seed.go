package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jmehdipour/credit-decision/internal/app"
	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmehdipour/credit-decision/internal/db"
	"github.com/jmehdipour/credit-decision/internal/kafka"
	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/metrics"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/repository"
	"github.com/jmehdipour/credit-decision/internal/service/decision"
	"github.com/jmehdipour/credit-decision/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var enqueue bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate an initial decision for every company that has none",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logger.Init(cfg.Log.Level)
		defer func() { _ = log.Sync() }()

		metrics.MustRegister(prometheus.DefaultRegisterer)

		// 2) connect MySQL
		sqlDB, err := db.NewMySQLConnection(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		pending, err := repository.NewCompaniesRepository(sqlDB).ListIDsWithoutDecision(ctx)
		if err != nil {
			return fmt.Errorf("list companies without decision: %w", err)
		}
		if len(pending) == 0 {
			log.Info("every company already has a decision")
			return nil
		}

		if enqueue {
			topic := cfg.Kafka.RequestsTopic
			if topic == "" {
				topic = model.TopicDecisionRequested
			}
			producer := kafka.NewProducer(cfg.Kafka.Brokers, topic)
			defer producer.Close()

			if err := enqueueDecisions(ctx, pending, producer, time.Now()); err != nil {
				return err
			}
			log.Info("decision requests enqueued", zap.Int("companies", len(pending)), zap.String("topic", topic))
			return nil
		}

		log.Info("generating initial decisions", zap.Int("companies", len(pending)))
		engine := app.NewDecisionEngine(cfg, sqlDB, mlclient.New(cfg.ML, log), log)
		ok := seedDecisions(ctx, pending, engine, log)
		log.Info("decision seed finished", zap.Int("success", ok), zap.Int("total", len(pending)))
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&enqueue, "enqueue", false, "publish decision requests to Kafka instead of deciding inline")
}

type seedEngine interface {
	DecideFor(ctx context.Context, identifier string, trigger decision.Trigger) (*model.Decision, error)
}

type publisher interface {
	Publish(ctx context.Context, msgs ...kafka.Message) error
}

// seedDecisions decides for each company in turn; failures are logged and
// skipped. Returns the number of successes.
func seedDecisions(ctx context.Context, ids []string, engine seedEngine, log *zap.Logger) int {
	log = logger.OrNop(log)
	ok := 0
	for _, id := range ids {
		if _, err := engine.DecideFor(ctx, id, decision.TriggerSeed); err != nil {
			log.Warn("seed decision failed", zap.String("company_id", id), zap.Error(err))
			continue
		}
		ok++
	}
	return ok
}

func enqueueDecisions(ctx context.Context, ids []string, pub publisher, now time.Time) error {
	msgs := make([]kafka.Message, 0, len(ids))
	for _, id := range ids {
		m, err := worker.NewRequestMessage(id, "seed", now)
		if err != nil {
			return fmt.Errorf("build request %s: %w", id, err)
		}
		msgs = append(msgs, m)
	}
	if err := pub.Publish(ctx, msgs...); err != nil {
		return fmt.Errorf("publish decision requests: %w", err)
	}
	return nil
}
