package api

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/analytics"
	"github.com/sponsorbridge/sponsorbridge/internal/db"
	"github.com/sponsorbridge/sponsorbridge/internal/models"
	"github.com/sponsorbridge/sponsorbridge/internal/observability"
)

type stubResolver struct {
	identity *models.Identity
	err      error
}

func (s *stubResolver) Resolve(ctx context.Context, cookieHeader string) (*models.Identity, error) {
	return s.identity, s.err
}

// newTestServer wires a Server around sqlmock with the given authenticated
// identity. Redis is left nil; notifyUpdate tolerates that.
func newTestServer(t *testing.T, identity *models.Identity) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	return &Server{
		Logger:    zap.NewNop(),
		PG:        &db.Postgres{DB: mockDB},
		Sessions:  &stubResolver{identity: identity},
		Analytics: analytics.NewMockAnalytics(),
		Metrics:   observability.NewNoOpRegistry(),
	}, mock
}

func publisherIdentity(id string) *models.Identity {
	return &models.Identity{UserID: "u-" + id, Email: id + "@example.com", Role: models.RolePublisher, PublisherID: id}
}

func sponsorIdentity(id string) *models.Identity {
	return &models.Identity{UserID: "u-" + id, Email: id + "@example.com", Role: models.RoleSponsor, SponsorID: id}
}

var adSlotColumns = []string{
	"id", "publisher_id", "name", "description", "type", "position",
	"width", "height", "base_price", "cpm_floor", "is_available", "created_at", "updated_at",
	"pub_id", "pub_name", "pub_category", "pub_monthly_views", "placement_count",
}

func adSlotRow(id, publisherID string, available bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(adSlotColumns).AddRow(
		id, publisherID, "Header banner", "Top of page", "DISPLAY", "header",
		728, 90, 150.0, nil, available, now, now,
		publisherID, "The Daily Byte", "tech", 50000, 0,
	)
}

var campaignColumns = []string{
	"id", "sponsor_id", "name", "description", "budget", "spent",
	"cpm_rate", "cpc_rate", "start_date", "end_date", "target_categories", "target_regions",
	"status", "created_at", "updated_at",
	"sp_id", "sp_name", "sp_logo", "placement_count",
}

func campaignRow(id, sponsorID string, start, end time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(campaignColumns).AddRow(
		id, sponsorID, "Launch push", "Awareness", 5000.0, 0.0,
		nil, nil, start, end, "{tech}", "{US}",
		"DRAFT", now, now,
		sponsorID, "Acme Cloud", "", 0,
	)
}
