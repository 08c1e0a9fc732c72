package events

import (
	"context"
	"time"

	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize   = 50
	DefaultMaxAttempts = 10
)

// Dispatcher drains the outbox into a Publisher.
type Dispatcher struct {
	outbox      repository.OutboxRepository
	publisher   Publisher
	metrics     *awspkg.MetricsClient
	logger      *zap.Logger
	batchSize   int
	maxAttempts int
	now         func() time.Time
}

func NewDispatcher(outbox repository.OutboxRepository, publisher Publisher, metrics *awspkg.MetricsClient, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		outbox:      outbox,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		batchSize:   DefaultBatchSize,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
}

// DispatchOnce publishes one batch of pending events oldest first. A failed
// publish is recorded on the row and retried on a later sweep.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	pending, err := d.outbox.FindPending(ctx, d.batchSize, d.maxAttempts)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, event := range pending {
		if ctx.Err() != nil {
			return dispatched, ctx.Err()
		}

		if err := d.publisher.Publish(ctx, NewEnvelope(event)); err != nil {
			d.logger.Warn("Failed to publish outbox event",
				zap.String("event_id", event.ID.Hex()),
				zap.String("event_type", event.EventType),
				zap.Int("attempts", event.Attempts+1),
				zap.Error(err),
			)
			if markErr := d.outbox.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				d.logger.Error("Failed to record outbox failure", zap.Error(markErr))
			}
			if d.metrics.IsEnabled() {
				_ = d.metrics.RecordCount(ctx, awspkg.MetricEventsFailed, map[string]string{"EventType": event.EventType})
			}
			continue
		}

		if err := d.outbox.MarkDispatched(ctx, event.ID, d.now()); err != nil {
			// published but not marked: the next sweep publishes it again
			d.logger.Error("Failed to mark outbox event dispatched", zap.String("event_id", event.ID.Hex()), zap.Error(err))
			continue
		}
		dispatched++
		if d.metrics.IsEnabled() {
			_ = d.metrics.RecordCount(ctx, awspkg.MetricEventsDispatched, map[string]string{"EventType": event.EventType})
		}
	}

	if dispatched > 0 {
		d.logger.Debug("Outbox events dispatched", zap.Int("count", dispatched))
	}
	return dispatched, nil
}

// Run sweeps every interval until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	d.logger.Info("Outbox dispatcher started", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
			d.logger.Error("Outbox sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher shutting down")
			return
		case <-ticker.C:
		}
	}
}
