package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/analytics"
	"github.com/sponsorbridge/sponsorbridge/internal/config"
	"github.com/sponsorbridge/sponsorbridge/internal/db"
	"github.com/sponsorbridge/sponsorbridge/internal/models"
	"github.com/sponsorbridge/sponsorbridge/internal/observability"
)

// updateChannel is the Redis pub/sub channel dashboards subscribe to for
// near-real-time marketplace changes.
const updateChannel = "marketplace-updates"

// SessionResolver turns a raw Cookie header into an authenticated identity.
// A (nil, nil) return means the request is unauthenticated.
type SessionResolver interface {
	Resolve(ctx context.Context, cookieHeader string) (*models.Identity, error)
}

// Server groups the dependencies shared by all HTTP handlers.
type Server struct {
	Logger    *zap.Logger
	PG        *db.Postgres
	Store     *db.RedisStore
	Sessions  SessionResolver
	Analytics analytics.Service
	Metrics   observability.MetricsRegistry
	Config    config.Config
}

func NewServer(logger *zap.Logger, pg *db.Postgres, store *db.RedisStore, sessions SessionResolver, an analytics.Service, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	return &Server{
		Logger:    logger,
		PG:        pg,
		Store:     store,
		Sessions:  sessions,
		Analytics: an,
		Metrics:   metrics,
		Config:    cfg,
	}
}

// UpdateMessage is the payload published on updateChannel after a write.
type UpdateMessage struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id"`
}

// notifyUpdate publishes a change notification. Publish failures are logged
// and swallowed: the write already succeeded and must not be reported as an
// error to the client.
func (s *Server) notifyUpdate(entity, action, id string) {
	if s.Store == nil {
		return
	}
	msg, err := json.Marshal(UpdateMessage{Entity: entity, Action: action, ID: id})
	if err != nil {
		s.Logger.Error("Failed to marshal update message", zap.Error(err))
		return
	}
	if err := s.Store.Client.Publish(s.Store.Ctx, updateChannel, msg).Err(); err != nil {
		s.Logger.Error("Failed to publish update message",
			zap.String("entity", entity),
			zap.String("action", action),
			zap.Error(err))
	}
}

// recordEvent writes an analytics event, logging and swallowing failures so
// the analytics pipeline never affects request outcomes.
func (s *Server) recordEvent(ctx context.Context, ev analytics.Event) {
	if s.Analytics == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if err := s.Analytics.RecordEvent(ctx, ev); err != nil {
		s.Logger.Warn("Failed to record analytics event",
			zap.String("event_type", ev.EventType),
			zap.Error(err))
	}
}

// Instrument wraps a handler with request count and latency metrics.
func (s *Server) Instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		s.Metrics.IncrementRequests(endpoint, r.Method, strconv.Itoa(sw.status))
		s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
	}
}
