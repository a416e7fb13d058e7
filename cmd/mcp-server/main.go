package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/db"
	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

// The MCP server exposes read-only marketplace lookups over stdio so
// assistants can answer inventory and campaign questions without touching
// the HTTP API or its session auth.

type ListAdSlotsInput struct {
	Type string `json:"type,omitempty"` // optional slot type filter
}

type AdSlotProduct struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Publisher     string  `json:"publisher"`
	Type          string  `json:"type"`
	Position      string  `json:"position,omitempty"`
	Width         int     `json:"width,omitempty"`
	Height        int     `json:"height,omitempty"`
	BasePrice     float64 `json:"base_price"`
	CPMFloor      float64 `json:"cpm_floor,omitempty"`
	MonthlyViews  int     `json:"monthly_views"`
	PlacementHits int     `json:"placement_count"`
}

type ListAdSlotsOutput struct {
	AdSlots []AdSlotProduct `json:"ad_slots"`
}

type CampaignOverviewInput struct {
	CampaignID string `json:"campaign_id"`
}

type CampaignOverviewOutput struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Sponsor         string   `json:"sponsor"`
	Status          string   `json:"status"`
	Budget          float64  `json:"budget"`
	Spent           float64  `json:"spent"`
	BudgetRemaining float64  `json:"budget_remaining"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	Placements      int      `json:"placements"`
	TargetRegions   []string `json:"target_regions,omitempty"`
}

type marketplaceServer struct {
	pg     *db.Postgres
	logger *zap.Logger
}

// ListAvailableAdSlots implements the list_available_ad_slots tool.
func (s *marketplaceServer) ListAvailableAdSlots(ctx context.Context, req *mcp.CallToolRequest, input ListAdSlotsInput) (*mcp.CallToolResult, ListAdSlotsOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slotType := models.SlotType(input.Type)
	if input.Type != "" && !slotType.Valid() {
		return nil, ListAdSlotsOutput{}, fmt.Errorf("unknown slot type %q", input.Type)
	}

	slots, err := s.pg.ListAvailableAdSlots(ctx, slotType)
	if err != nil {
		s.logger.Error("Failed to list available ad slots", zap.Error(err))
		return nil, ListAdSlotsOutput{}, fmt.Errorf("list ad slots: %w", err)
	}

	products := make([]AdSlotProduct, 0, len(slots))
	for _, slot := range slots {
		product := AdSlotProduct{
			ID:            slot.ID,
			Name:          slot.Name,
			Type:          string(slot.Type),
			Position:      slot.Position,
			BasePrice:     slot.BasePrice,
			PlacementHits: slot.PlacementCount,
		}
		if slot.Publisher != nil {
			product.Publisher = slot.Publisher.Name
			product.MonthlyViews = slot.Publisher.MonthlyViews
		}
		if slot.Width != nil {
			product.Width = *slot.Width
		}
		if slot.Height != nil {
			product.Height = *slot.Height
		}
		if slot.CPMFloor != nil {
			product.CPMFloor = *slot.CPMFloor
		}
		products = append(products, product)
	}

	return nil, ListAdSlotsOutput{AdSlots: products}, nil
}

// GetCampaignOverview implements the get_campaign_overview tool.
func (s *marketplaceServer) GetCampaignOverview(ctx context.Context, req *mcp.CallToolRequest, input CampaignOverviewInput) (*mcp.CallToolResult, CampaignOverviewOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if input.CampaignID == "" {
		return nil, CampaignOverviewOutput{}, fmt.Errorf("campaign_id is required")
	}

	campaign, err := s.pg.GetCampaign(ctx, input.CampaignID)
	if err != nil {
		s.logger.Error("Failed to fetch campaign", zap.String("campaign_id", input.CampaignID), zap.Error(err))
		return nil, CampaignOverviewOutput{}, fmt.Errorf("fetch campaign: %w", err)
	}

	out := CampaignOverviewOutput{
		ID:              campaign.ID,
		Name:            campaign.Name,
		Status:          string(campaign.Status),
		Budget:          campaign.Budget,
		Spent:           campaign.Spent,
		BudgetRemaining: campaign.Budget - campaign.Spent,
		StartDate:       campaign.StartDate.Format(time.RFC3339),
		EndDate:         campaign.EndDate.Format(time.RFC3339),
		Placements:      campaign.PlacementCount,
		TargetRegions:   campaign.TargetRegions,
	}
	if campaign.Sponsor != nil {
		out.Sponsor = campaign.Sponsor.Name
	}

	return nil, out, nil
}

func main() {
	// stdout carries the MCP protocol, so the logger must stay on stderr.
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("sponsorbridge-mcp").With(zap.String("service", "sponsorbridge-mcp"))

	postgresDSN := os.Getenv("POSTGRES_DSN")
	if postgresDSN == "" {
		logger.Fatal("POSTGRES_DSN environment variable is required")
	}

	pg, err := db.InitPostgres(postgresDSN, 10, 5, 30*time.Minute, time.Minute)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pg.Close()
	logger.Info("Connected to PostgreSQL")

	srv := &marketplaceServer{pg: pg, logger: logger}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "sponsorbridge",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_available_ad_slots",
		Description: "List currently available ad inventory across all publishers",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"DISPLAY", "VIDEO", "NATIVE", "NEWSLETTER", "PODCAST"},
					"description": "Filter by slot type (optional)",
				},
			},
		},
	}, srv.ListAvailableAdSlots)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_campaign_overview",
		Description: "Get budget, flight window and placement summary for a campaign",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"campaign_id": map[string]interface{}{
					"type":        "string",
					"description": "Campaign ID",
				},
			},
			"required": []string{"campaign_id"},
		},
	}, srv.GetCampaignOverview)

	logger.Info("MCP server running via stdio")
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
