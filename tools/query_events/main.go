// Query Events dumps recent rows from the ClickHouse marketplace event log
// as indented JSON, optionally filtered by event type or campaign.
//
// Usage:
//
//	go run ./tools/query_events -type=booking -limit=50
//	go run ./tools/query_events -campaign-id=<uuid>
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	_ "github.com/ClickHouse/clickhouse-go/v2"

	"github.com/sponsorbridge/sponsorbridge/internal/analytics"
	"github.com/sponsorbridge/sponsorbridge/internal/config"
)

func main() {
	cfg := config.Load()
	var (
		dsn        = flag.String("dsn", cfg.ClickHouseDSN, "ClickHouse DSN")
		eventType  = flag.String("type", "", "Filter by event type (booking, unbooking, newsletter_signup)")
		campaignID = flag.String("campaign-id", "", "Filter by campaign")
		limit      = flag.Int("limit", 100, "Maximum rows to print")
	)
	flag.Parse()

	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "dsn required (flag or CLICKHOUSE_DSN)")
		os.Exit(1)
	}

	events, err := sql.Open("clickhouse", *dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect clickhouse: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = events.Close()
	}()

	rows, err := query(context.Background(), events, *eventType, *campaignID, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query events: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		fmt.Fprintf(os.Stderr, "encode events: %v\n", err)
		os.Exit(1)
	}
}

func query(ctx context.Context, events *sql.DB, eventType, campaignID string, limit int) ([]analytics.Event, error) {
	q := `SELECT timestamp, event_type, ad_slot_id, publisher_id, sponsor_id, campaign_id, amount
		FROM events WHERE 1 = 1`
	var args []any
	if eventType != "" {
		q += " AND event_type = ?"
		args = append(args, eventType)
	}
	if campaignID != "" {
		q += " AND campaign_id = ?"
		args = append(args, campaignID)
	}
	q += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := events.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []analytics.Event
	for rows.Next() {
		var e analytics.Event
		if err := rows.Scan(&e.Timestamp, &e.EventType, &e.AdSlotID, &e.PublisherID, &e.SponsorID, &e.CampaignID, &e.Amount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
