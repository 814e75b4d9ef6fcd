package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/audit"
	"github.com/openplanner/gradplan-backend/internal/config"
	ws "github.com/openplanner/gradplan-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	AuditPollTimeout = 1 * time.Second
	// AuditMaxRetries bounds re-queues of a failing plan before it is dropped.
	AuditMaxRetries = 3
)

// AuditWorker drains the audit queue and re-runs fulfillment assignment for
// each queued plan. Queueing the same plan repeatedly is harmless: each pass
// clears and rebuilds the assignment from scratch.
type AuditWorker struct {
	assigner *audit.Assigner
	rdb      *redis.Client
	log      zerolog.Logger

	retries map[string]int
}

// NewAuditWorker creates a new AuditWorker.
func NewAuditWorker(assigner *audit.Assigner, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		assigner: assigner,
		rdb:      rdb,
		log:      log.With().Str("component", "audit_worker").Logger(),
		retries:  make(map[string]int),
	}
}

// Start runs the worker loop until the context is cancelled.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return

		default:
			item, err := w.rdb.BLPop(ctx, AuditPollTimeout, config.WorkerKey.AuditPlansQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			w.process(ctx, item[1])
		}
	}
}

func (w *AuditWorker) process(ctx context.Context, rawPlanID string) {
	planID, err := uuid.Parse(rawPlanID)
	if err != nil {
		w.log.Error().Str("payload", rawPlanID).Msg("Invalid plan id on queue, dropping")
		return
	}

	start := time.Now()
	err = w.assigner.AutoAssignFulfillments(ctx, planID)
	if err != nil {
		if errors.Is(err, audit.ErrPlanNotFound) {
			// Plan deleted while queued. Nothing to rebuild.
			delete(w.retries, rawPlanID)
			return
		}

		w.retries[rawPlanID]++
		if w.retries[rawPlanID] > AuditMaxRetries {
			w.log.Error().Err(err).Str("plan_id", rawPlanID).Msg("Audit failed repeatedly, dropping")
			delete(w.retries, rawPlanID)
			w.publish(ctx, planID, ws.AuditEvent{
				Event:       ws.EventAuditFailed,
				PlanID:      rawPlanID,
				CompletedAt: time.Now(),
			})
			return
		}

		w.log.Warn().Err(err).Str("plan_id", rawPlanID).Int("attempt", w.retries[rawPlanID]).Msg("Audit failed, requeueing")
		w.rdb.RPush(ctx, config.WorkerKey.AuditPlansQueue, rawPlanID)
		return
	}

	delete(w.retries, rawPlanID)

	// The cached summary is stale the moment the assignment changes.
	if err := w.rdb.Del(ctx, config.CacheKey.PlanProgressKey(rawPlanID)).Err(); err != nil {
		w.log.Warn().Err(err).Str("plan_id", rawPlanID).Msg("Progress cache invalidation failed")
	}

	w.publish(ctx, planID, ws.AuditEvent{
		Event:       ws.EventAuditCompleted,
		PlanID:      rawPlanID,
		CompletedAt: time.Now(),
	})

	w.log.Info().
		Str("plan_id", rawPlanID).
		Dur("took", time.Since(start)).
		Msg("Plan audited")
}

func (w *AuditWorker) publish(ctx context.Context, planID uuid.UUID, event ws.AuditEvent) {
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := w.rdb.Publish(ctx, config.CacheKey.PlanAuditChannel(planID.String()), raw).Err(); err != nil {
		w.log.Warn().Err(err).Str("plan_id", planID.String()).Msg("Audit event publish failed")
	}
}
