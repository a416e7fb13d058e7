// Package reporting assembles campaign activity reports by combining the
// Postgres marketplace state (budget, placements) with the ClickHouse event
// log (booking history). The event log is optional: without it the report
// carries placements and budget only.
package reporting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sponsorbridge/sponsorbridge/internal/analytics"
	"github.com/sponsorbridge/sponsorbridge/internal/db"
	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

// DailyActivity is one day of booking activity for a campaign.
type DailyActivity struct {
	Date        time.Time `json:"date"`
	Bookings    int64     `json:"bookings"`
	Unbookings  int64     `json:"unbookings"`
	BookedValue float64   `json:"booked_value"`
}

// CampaignReport is the full report for one campaign over a period.
type CampaignReport struct {
	Campaign        models.Campaign    `json:"campaign"`
	BudgetRemaining float64            `json:"budget_remaining"`
	Placements      []models.Placement `json:"placements"`
	Daily           []DailyActivity    `json:"daily,omitempty"`
	TotalBookings   int64              `json:"total_bookings"`
	TotalUnbookings int64              `json:"total_unbookings"`
	TotalValue      float64            `json:"total_value"`
}

// Generate builds the report for campaignID covering the last days days.
// events may be nil when ClickHouse is not configured.
func Generate(ctx context.Context, pg *db.Postgres, events *sql.DB, campaignID string, days int) (*CampaignReport, error) {
	campaign, err := pg.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("load campaign: %w", err)
	}

	placements, err := pg.ListPlacementsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("load placements: %w", err)
	}

	report := &CampaignReport{
		Campaign:        *campaign,
		BudgetRemaining: campaign.Budget - campaign.Spent,
		Placements:      placements,
	}

	if events != nil {
		daily, err := dailyActivity(ctx, events, campaignID, days)
		if err != nil {
			return nil, fmt.Errorf("load booking activity: %w", err)
		}
		report.Daily = daily
		for _, d := range daily {
			report.TotalBookings += d.Bookings
			report.TotalUnbookings += d.Unbookings
			report.TotalValue += d.BookedValue
		}
	}

	return report, nil
}

func dailyActivity(ctx context.Context, events *sql.DB, campaignID string, days int) ([]DailyActivity, error) {
	query := `
		SELECT
			toDate(timestamp) AS date,
			countIf(event_type = ?) AS bookings,
			countIf(event_type = ?) AS unbookings,
			sumIf(amount, event_type = ?) AS booked_value
		FROM events
		WHERE campaign_id = ?
			AND timestamp >= now() - INTERVAL ? DAY
		GROUP BY date
		ORDER BY date DESC`

	rows, err := events.QueryContext(ctx, query,
		analytics.EventBooking, analytics.EventUnbooking, analytics.EventBooking,
		campaignID, days)
	if err != nil {
		return nil, fmt.Errorf("query daily activity: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var daily []DailyActivity
	for rows.Next() {
		var d DailyActivity
		if err := rows.Scan(&d.Date, &d.Bookings, &d.Unbookings, &d.BookedValue); err != nil {
			return nil, fmt.Errorf("scan daily activity: %w", err)
		}
		daily = append(daily, d)
	}
	return daily, rows.Err()
}
