package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/retailops/session-gateway/internal/core/domain"
	"github.com/retailops/session-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// AuditDispatcher writes session audit events asynchronously through a fixed
// set of workers. Events are sharded by sid so the trail of a single browser
// session stays in order. The trail is best-effort: a full shard drops the
// event rather than block a login or a teardown.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its sid without
// blocking; when the shard is saturated the event is dropped and logged.
func (d *AuditDispatcher) Enqueue(event domain.AuditEvent) {
	select {
	case d.workers[d.shardIndex(event.SID)] <- event:
	default:
		d.log.Warn().Str("sid", event.SID).Str("kind", event.Kind).Msg("audit shard full, event dropped")
	}
}

// shardIndex maps a sid deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(sid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.Record(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("sid", event.SID).
					Str("kind", event.Kind).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
