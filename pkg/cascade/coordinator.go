// Package cascade orchestrates cross-service cascading deletion: reclaim
// every stored media object for an asset, then publish the deletion event
// so that services owning derived records purge them independently.
// Consistency across services is eventual; the coordinator's own
// responsibility ends once the broker accepts the event.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
	"github.com/filmgrid/filmgrid/pkg/eventbus"
	"github.com/filmgrid/filmgrid/pkg/events"
	"github.com/filmgrid/filmgrid/pkg/retry"
)

// Publisher is the event publishing capability the coordinator needs.
type Publisher interface {
	Publish(ctx context.Context, queue string, ev eventbus.Event) error
}

// Request describes one cascading deletion: an asset, its known quality
// variants and whether a cover image is stored alongside them.
type Request struct {
	ContentID int64
	Kind      blobstore.ContentKind
	Qualities []blobstore.Quality
	Cover     bool
}

// Keys computes the full set of object keys the request covers.
func (r Request) Keys() []string {
	variantKeys := blobstore.VariantKeys(r.Kind, r.ContentID, r.Qualities)
	keys := make([]string, 0, len(variantKeys)+1)
	for _, k := range variantKeys {
		keys = append(keys, k.String())
	}
	if r.Cover {
		keys = append(keys, blobstore.CoverKey(r.ContentID).String())
	}
	return keys
}

func (r Request) event() (string, eventbus.Event, error) {
	switch r.Kind {
	case blobstore.KindFilm:
		return events.QueueFilmDeletion, events.NewFilmDeletion(r.ContentID), nil
	case blobstore.KindEpisode:
		return events.QueueEpisodeDeletion, events.NewEpisodeDeletion(r.ContentID), nil
	default:
		return "", eventbus.Event{}, fmt.Errorf("no deletion event defined for content kind %q", r.Kind)
	}
}

// Coordinator drives the deletion sequence for one request at a time. It
// holds no cross-request state and is safe for concurrent use.
type Coordinator struct {
	store     blobstore.Store
	publisher Publisher
	logger    *slog.Logger

	deleteAttempts int
	deleteDelay    time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithReclaimPolicy bounds how often the failed subset of a bulk delete is
// retried before the residual keys are surfaced to the caller.
func WithReclaimPolicy(attempts int, delay time.Duration) Option {
	return func(c *Coordinator) {
		c.deleteAttempts = attempts
		c.deleteDelay = delay
	}
}

// NewCoordinator creates a coordinator over the given storage and
// publisher.
func NewCoordinator(store blobstore.Store, publisher Publisher, logger *slog.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		store:          store,
		publisher:      publisher,
		logger:         logger,
		deleteAttempts: 3,
		deleteDelay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Delete runs the cascading deletion sequence: reclaim all storage objects
// for the asset, then publish the deletion event. Success means the
// deletion is accepted, not that downstream services have purged their
// records yet. Residual keys that survive the bounded delete retries are
// reported via a wrapped *blobstore.PartialDeleteError and require
// out-of-band cleanup; the event is not published in that case.
func (c *Coordinator) Delete(ctx context.Context, req Request) error {
	queue, ev, err := req.event()
	if err != nil {
		return err
	}

	keys := req.Keys()
	if err := c.reclaim(ctx, keys); err != nil {
		return fmt.Errorf("reclaiming storage for %s %d: %w", req.Kind, req.ContentID, err)
	}

	if err := c.publisher.Publish(ctx, queue, ev); err != nil {
		return fmt.Errorf("publishing %s for %s %d: %w", queue, req.Kind, req.ContentID, err)
	}

	c.logger.Info("cascading deletion accepted",
		"kind", req.Kind, "content_id", req.ContentID, "objects", len(keys))
	return nil
}

// DeleteFilm removes a film's quality variants and cover image, then
// publishes film_deletion.
func (c *Coordinator) DeleteFilm(ctx context.Context, filmID int64, qualities []blobstore.Quality) error {
	return c.Delete(ctx, Request{
		ContentID: filmID,
		Kind:      blobstore.KindFilm,
		Qualities: qualities,
		Cover:     true,
	})
}

// reclaim bulk-deletes keys, retrying only the failed subset up to the
// configured bound.
func (c *Coordinator) reclaim(ctx context.Context, keys []string) error {
	pending := keys
	err := retry.Do(ctx, c.deleteAttempts, c.deleteDelay, func() error {
		err := c.store.DeleteBatch(ctx, pending)
		if err == nil {
			return nil
		}
		var partial *blobstore.PartialDeleteError
		if errors.As(err, &partial) {
			c.logger.Warn("bulk delete left residual keys, retrying failed subset",
				"failed", len(partial.Failed))
			pending = partial.Failed
		}
		return err
	})
	return err
}
