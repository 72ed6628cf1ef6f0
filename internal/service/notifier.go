package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// ReportCache stores built reports under a ReportKey. Get returns nil
// without error on a miss. InvalidateUser advances the user's generation.
type ReportCache interface {
	Generation(ctx context.Context, userID uuid.UUID) (int64, error)
	Get(ctx context.Context, key domain.ReportKey) (*domain.Report, error)
	Set(ctx context.Context, key domain.ReportKey, report *domain.Report) error
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}

// NoOpReportCache never stores anything
type NoOpReportCache struct{}

func (NoOpReportCache) Generation(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (NoOpReportCache) Get(context.Context, domain.ReportKey) (*domain.Report, error) {
	return nil, nil
}

func (NoOpReportCache) Set(context.Context, domain.ReportKey, *domain.Report) error {
	return nil
}

func (NoOpReportCache) InvalidateUser(context.Context, uuid.UUID) error {
	return nil
}

// Recorder receives report build timings and cache outcomes
type Recorder interface {
	ObserveReportBuild(kind string, d time.Duration)
	IncrCacheHit(cache string)
	IncrCacheMiss(cache string)
	IncrCacheError(cache string)
}

type noOpRecorder struct{}

func (noOpRecorder) ObserveReportBuild(string, time.Duration) {}
func (noOpRecorder) IncrCacheHit(string)                      {}
func (noOpRecorder) IncrCacheMiss(string)                     {}
func (noOpRecorder) IncrCacheError(string)                    {}

// ChangeNotifier runs after every successful mutation: it drops the user's
// cached reports and tells the user's open sessions what changed.
type ChangeNotifier struct {
	cache          ReportCache
	eventPublisher websocket.EventPublisher
}

// NewChangeNotifier creates a new ChangeNotifier. A nil cache disables invalidation.
func NewChangeNotifier(cache ReportCache) *ChangeNotifier {
	if cache == nil {
		cache = NoOpReportCache{}
	}
	return &ChangeNotifier{cache: cache}
}

// SetEventPublisher sets the event publisher for real-time updates
func (n *ChangeNotifier) SetEventPublisher(publisher websocket.EventPublisher) {
	n.eventPublisher = publisher
}

// Changed invalidates the user's reports and publishes event followed by a
// report invalidation notice. A nil notifier does nothing.
func (n *ChangeNotifier) Changed(ctx context.Context, userID uuid.UUID, event websocket.Event) {
	if n == nil {
		return
	}
	if err := n.cache.InvalidateUser(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to invalidate report cache")
	}
	if n.eventPublisher != nil {
		n.eventPublisher.Publish(userID, event)
		n.eventPublisher.Publish(userID, websocket.ReportInvalidated())
	}
}
