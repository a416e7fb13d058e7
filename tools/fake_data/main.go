// Command fake_data seeds the marketplace with demo sponsors, publishers,
// ad slots, campaigns and a handful of bookings so the dashboards have
// something to show on a fresh database.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/config"
	"github.com/sponsorbridge/sponsorbridge/internal/db"
	"github.com/sponsorbridge/sponsorbridge/internal/models"
	"github.com/sponsorbridge/sponsorbridge/internal/observability"
)

var (
	sponsorCount   = flag.Int("sponsors", 3, "number of sponsors")
	publisherCount = flag.Int("publishers", 3, "number of publishers")
	slotsPerPub    = flag.Int("slots", 4, "ad slots per publisher")
	campsPerSpon   = flag.Int("campaigns", 2, "campaigns per sponsor")
	bookings       = flag.Int("bookings", 3, "slots to book")
	seed           = flag.Int64("seed", time.Now().UnixNano(), "rng seed")
)

var (
	sponsorNames   = []string{"Acme Cloud", "Brightline Coffee", "Nimbus VPN", "Forge Analytics", "Lumanote", "Driftwear"}
	publisherNames = []string{"The Daily Byte", "Morning Brew Dev", "Pixels Weekly", "Backend Digest", "The Ship Log", "Terminal Times"}
	categories     = []string{"tech", "finance", "lifestyle", "gaming", "productivity"}
	positions      = []string{"header", "sidebar", "inline", "footer"}
	regions        = []string{"US", "EU", "UK", "APAC"}
)

func main() {
	flag.Parse()

	logger, err := observability.InitLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	pg, err := db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx := context.Background()
	r := rand.New(rand.NewSource(*seed))

	sponsors := make([]models.Sponsor, 0, *sponsorCount)
	for i := 0; i < *sponsorCount; i++ {
		s := models.Sponsor{
			UserID: fmt.Sprintf("demo-sponsor-%d", i+1),
			Name:   pick(r, sponsorNames) + fmt.Sprintf(" %d", i+1),
		}
		if err := pg.InsertSponsor(ctx, &s); err != nil {
			logger.Fatal("insert sponsor", zap.Error(err))
		}
		sponsors = append(sponsors, s)
	}

	var slots []models.AdSlot
	for i := 0; i < *publisherCount; i++ {
		pub := models.Publisher{
			UserID:       fmt.Sprintf("demo-publisher-%d", i+1),
			Name:         pick(r, publisherNames) + fmt.Sprintf(" %d", i+1),
			Category:     pick(r, categories),
			MonthlyViews: (r.Intn(90) + 10) * 1000,
		}
		if err := pg.InsertPublisher(ctx, &pub); err != nil {
			logger.Fatal("insert publisher", zap.Error(err))
		}

		for j := 0; j < *slotsPerPub; j++ {
			slot := randomAdSlot(r, pub.ID, j)
			if err := pg.InsertAdSlot(ctx, &slot); err != nil {
				logger.Fatal("insert ad slot", zap.Error(err))
			}
			slots = append(slots, slot)
		}
	}

	for _, sponsor := range sponsors {
		for j := 0; j < *campsPerSpon; j++ {
			camp := randomCampaign(r, sponsor.ID, j)
			if err := pg.InsertCampaign(ctx, &camp); err != nil {
				logger.Fatal("insert campaign", zap.Error(err))
			}
		}
	}

	booked := 0
	for _, slot := range slots {
		if booked >= *bookings || len(sponsors) == 0 {
			break
		}
		ok, err := pg.BookAdSlot(ctx, slot.ID)
		if err != nil {
			logger.Fatal("book ad slot", zap.Error(err))
		}
		if !ok {
			continue
		}
		sponsor := sponsors[r.Intn(len(sponsors))]
		pl := models.Placement{
			AdSlotID:  slot.ID,
			SponsorID: sponsor.ID,
			Message:   "Looking forward to working together!",
		}
		if err := pg.InsertPlacement(ctx, &pl); err != nil {
			logger.Fatal("insert placement", zap.Error(err))
		}
		booked++
	}

	logger.Info("Seed complete",
		zap.Int("sponsors", len(sponsors)),
		zap.Int("publishers", *publisherCount),
		zap.Int("ad_slots", len(slots)),
		zap.Int("campaigns", len(sponsors)**campsPerSpon),
		zap.Int("bookings", booked))
}

func pick(r *rand.Rand, options []string) string {
	return options[r.Intn(len(options))]
}

func randomAdSlot(r *rand.Rand, publisherID string, n int) models.AdSlot {
	types := models.SlotTypes()
	t := types[r.Intn(len(types))]
	slot := models.AdSlot{
		PublisherID: publisherID,
		Name:        fmt.Sprintf("%s slot %d", t, n+1),
		Description: "Premium placement with engaged readers.",
		Type:        t,
		Position:    pick(r, positions),
		BasePrice:   float64(r.Intn(950)+50) + 0.99,
		IsAvailable: true,
	}
	if t == models.SlotDisplay || t == models.SlotVideo {
		w, h := 728, 90
		if r.Intn(2) == 0 {
			w, h = 300, 250
		}
		slot.Width = &w
		slot.Height = &h
	}
	if r.Intn(2) == 0 {
		floor := float64(r.Intn(20)+5) + 0.5
		slot.CPMFloor = &floor
	}
	return slot
}

func randomCampaign(r *rand.Rand, sponsorID string, n int) models.Campaign {
	start := time.Now().AddDate(0, 0, r.Intn(14))
	statuses := models.CampaignStatuses()
	return models.Campaign{
		SponsorID:        sponsorID,
		Name:             fmt.Sprintf("Q%d push %d", (int(time.Now().Month())-1)/3+1, n+1),
		Description:      "Awareness campaign across developer media.",
		Budget:           float64(r.Intn(9000) + 1000),
		Spent:            0,
		StartDate:        start,
		EndDate:          start.AddDate(0, 1, 0),
		TargetCategories: []string{pick(r, categories)},
		TargetRegions:    []string{pick(r, regions)},
		Status:           statuses[r.Intn(len(statuses))],
	}
}
