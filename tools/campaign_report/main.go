// Campaign Report Tool prints a booking activity report for one campaign.
//
// It reads the campaign and its placements from Postgres and, when a
// ClickHouse DSN is available, the day-by-day booking history from the event
// log.
//
// Usage:
//
//	go run ./tools/campaign_report -campaign-id=<uuid> -days=30
//
// Configuration:
//
//	-campaign-id: Required. The campaign to report on
//	-days: Optional. Number of days of booking history (default: 7)
//	-postgres-dsn: Optional. Overrides POSTGRES_DSN
//	-clickhouse-dsn: Optional. Overrides CLICKHOUSE_DSN; empty skips history
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"

	"github.com/sponsorbridge/sponsorbridge/internal/config"
	"github.com/sponsorbridge/sponsorbridge/internal/db"
	"github.com/sponsorbridge/sponsorbridge/internal/reporting"
)

func main() {
	cfg := config.Load()
	var (
		campaignID = flag.String("campaign-id", "", "Campaign to report on")
		days       = flag.Int("days", 7, "Days of booking history to include")
		pgDSN      = flag.String("postgres-dsn", cfg.PostgresDSN, "Postgres DSN")
		chDSN      = flag.String("clickhouse-dsn", cfg.ClickHouseDSN, "ClickHouse DSN (empty skips booking history)")
	)
	flag.Parse()

	if *campaignID == "" {
		fmt.Fprintln(os.Stderr, "Error: campaign-id is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	pg, err := db.InitPostgres(*pgDSN, 5, 2, 5*time.Minute, time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to Postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	var events *sql.DB
	if *chDSN != "" {
		events, err = sql.Open("clickhouse", *chDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to ClickHouse: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = events.Close()
		}()
		if err := events.PingContext(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error pinging ClickHouse: %v\n", err)
			os.Exit(1)
		}
	}

	report, err := reporting.Generate(ctx, pg, events, *campaignID, *days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	printReport(report, *days)
}

func printReport(r *reporting.CampaignReport, days int) {
	c := r.Campaign

	fmt.Println("===============================================================")
	fmt.Println("                   CAMPAIGN ACTIVITY REPORT")
	fmt.Println("===============================================================")
	fmt.Printf("Campaign:    %s (%s)\n", c.Name, c.ID)
	if c.Sponsor != nil {
		fmt.Printf("Sponsor:     %s\n", c.Sponsor.Name)
	}
	fmt.Printf("Status:      %s\n", c.Status)
	fmt.Printf("Flight:      %s to %s\n", c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
	fmt.Printf("Generated:   %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("BUDGET")
	fmt.Println("---------------------------------------------------------------")
	fmt.Printf("Budget:      $%.2f\n", c.Budget)
	fmt.Printf("Spent:       $%.2f\n", c.Spent)
	fmt.Printf("Remaining:   $%.2f\n\n", r.BudgetRemaining)

	fmt.Printf("PLACEMENTS (%d)\n", len(r.Placements))
	fmt.Println("---------------------------------------------------------------")
	if len(r.Placements) == 0 {
		fmt.Println("No ad slots booked against this campaign.")
	}
	for _, pl := range r.Placements {
		fmt.Printf("%-12s slot %s", pl.CreatedAt.Format("2006-01-02"), pl.AdSlotID)
		if pl.Message != "" {
			fmt.Printf("  %q", pl.Message)
		}
		fmt.Println()
	}
	fmt.Println()

	if r.Daily != nil {
		fmt.Printf("BOOKING ACTIVITY (last %d days)\n", days)
		fmt.Println("---------------------------------------------------------------")
		fmt.Println("Date        | Bookings | Unbookings | Booked value")
		fmt.Println("------------|----------|------------|-------------")
		for _, d := range r.Daily {
			fmt.Printf("%-11s | %8d | %10d | $%11.2f\n",
				d.Date.Format("2006-01-02"), d.Bookings, d.Unbookings, d.BookedValue)
		}
		fmt.Printf("\nTotal: %d bookings, %d unbookings, $%.2f booked value\n",
			r.TotalBookings, r.TotalUnbookings, r.TotalValue)
	}
	fmt.Println("===============================================================")
}
