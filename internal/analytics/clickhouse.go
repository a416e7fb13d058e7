// Package analytics appends marketplace activity (bookings, unbookings,
// newsletter signups) to a ClickHouse event log. Recording is best-effort:
// handlers log failures and carry on, the event log never gates a request.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

// Marketplace event types.
const (
	EventBooking          = "booking"
	EventUnbooking        = "unbooking"
	EventNewsletterSignup = "newsletter_signup"
)

// Event mirrors a row in the events table. Entity ids are empty when the
// event type has no such dimension.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	EventType   string    `json:"event_type"`
	AdSlotID    string    `json:"ad_slot_id"`
	PublisherID string    `json:"publisher_id"`
	SponsorID   string    `json:"sponsor_id"`
	CampaignID  string    `json:"campaign_id"`
	Amount      float64   `json:"amount"`
}

// Service defines the interface for event recording. Implementations should
// return ErrUnavailable when the underlying storage is not configured.
type Service interface {
	RecordEvent(ctx context.Context, e Event) error
}

// ErrUnavailable is returned when the analytics DB is not configured.
var ErrUnavailable = fmt.Errorf("analytics unavailable")

// Analytics wraps a ClickHouse DB connection.
type Analytics struct {
	DB *sql.DB
}

// InitClickHouse connects to ClickHouse and ensures the events table exists.
func InitClickHouse(dsn string) (*Analytics, error) {
	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	db.SetMaxOpenConns(25)
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	create := `CREATE TABLE IF NOT EXISTS events (
       timestamp    DateTime,
       event_type   String,
       ad_slot_id   String,
       publisher_id String,
       sponsor_id   String,
       campaign_id  String,
       amount       Float64
   ) ENGINE=MergeTree() ORDER BY (event_type, timestamp)`
	if _, err := db.ExecContext(context.Background(), create); err != nil {
		return nil, fmt.Errorf("clickhouse create table: %w", err)
	}

	zap.L().Info("Connected to ClickHouse")
	return &Analytics{DB: db}, nil
}

// RecordEvent inserts a single event row into the events table.
func (a *Analytics) RecordEvent(ctx context.Context, e Event) error {
	if a == nil || a.DB == nil {
		return ErrUnavailable
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := a.DB.ExecContext(ctx,
		`INSERT INTO events (timestamp, event_type, ad_slot_id, publisher_id, sponsor_id, campaign_id, amount) VALUES (?,?,?,?,?,?,?)`,
		e.Timestamp, e.EventType, e.AdSlotID, e.PublisherID, e.SponsorID, e.CampaignID, e.Amount)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Close terminates the ClickHouse connection.
func (a *Analytics) Close() {
	if a != nil && a.DB != nil {
		if err := a.DB.Close(); err != nil {
			zap.L().Error("clickhouse close", zap.Error(err))
		}
	}
}
