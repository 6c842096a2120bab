package worker

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/jmehdipour/credit-decision/internal/kafka"
	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/metrics"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/service/decision"
	"go.uber.org/zap"
)

// Source is the part of kafka.Consumer the decider needs.
type Source interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

type Engine interface {
	DecideFor(ctx context.Context, identifier string, trigger decision.Trigger) (*model.Decision, error)
}

// Decider consumes decision requests and runs the engine for each one.
// Delivery is at-least-once: messages are committed after processing, and
// a redelivered request simply appends another decision.
type Decider struct {
	Consumer Source
	Engine   Engine
	Workers  int
	Log      *zap.Logger
}

func NewDecider(consumer Source, engine Engine, workers int, log *zap.Logger) *Decider {
	return &Decider{Consumer: consumer, Engine: engine, Workers: workers, Log: logger.OrNop(log)}
}

// Run blocks until ctx is cancelled and all in-flight messages are done.
func (w *Decider) Run(ctx context.Context) error {
	if w.Workers <= 0 {
		w.Workers = 8
	}
	w.Log = logger.OrNop(w.Log)

	msgCh := make(chan kafka.Message, w.Workers*2)

	go func() {
		defer close(msgCh)
		for {
			m, err := w.Consumer.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				w.Log.Warn("kafka fetch failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(200 * time.Millisecond):
				}
				continue
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < w.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range msgCh {
				w.processOne(ctx, m)
			}
		}()
	}

	wg.Wait()
	return nil
}

func (w *Decider) processOne(ctx context.Context, m kafka.Message) {
	var req model.DecisionRequest
	if err := json.Unmarshal(m.Value, &req); err != nil || strings.TrimSpace(req.CompanyID) == "" {
		metrics.WorkerMessagesTotal.WithLabelValues("poison").Inc()
		w.Log.Warn("skipping bad decision request",
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		w.commit(ctx, m)
		return
	}

	d, err := w.Engine.DecideFor(ctx, req.CompanyID, decision.TriggerWorker)
	if err != nil {
		metrics.WorkerMessagesTotal.WithLabelValues("failed").Inc()
		w.Log.Warn("decision request failed",
			zap.String("company_id", req.CompanyID),
			zap.String("source", req.Source),
			zap.Error(err),
		)
	} else {
		metrics.WorkerMessagesTotal.WithLabelValues("decided").Inc()
		w.Log.Debug("decision request handled",
			zap.String("company_id", d.CompanyID),
			zap.String("decision_id", d.ID),
		)
	}

	w.commit(ctx, m)
}

func (w *Decider) commit(ctx context.Context, m kafka.Message) {
	if err := w.Consumer.Commit(ctx, m); err != nil {
		w.Log.Warn("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
	}
}

// NewRequestMessage builds the Kafka message the decider consumes.
func NewRequestMessage(companyID, source string, at time.Time) (kafka.Message, error) {
	b, err := json.Marshal(model.DecisionRequest{CompanyID: companyID, RequestedAt: at, Source: source})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{Key: []byte(companyID), Value: b, Time: at}, nil
}
