package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

func decodeCampaign(t *testing.T, body string) *models.CampaignInput {
	t.Helper()
	var in models.CampaignInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return &in
}

func TestCampaignCreate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want FieldErrors
	}{
		{
			name: "valid",
			body: `{"name":"Launch","budget":5000,"startDate":"2026-09-01","endDate":"2026-10-01"}`,
			want: nil,
		},
		{
			name: "missing required fields",
			body: `{}`,
			want: FieldErrors{
				"name":      "Name is required",
				"budget":    "Budget is required",
				"startDate": "Start date is required",
				"endDate":   "End date is required",
			},
		},
		{
			name: "end before start",
			body: `{"name":"Launch","budget":5000,"startDate":"2026-10-01","endDate":"2026-09-01"}`,
			want: FieldErrors{"endDate": "End date must be on or after start date"},
		},
		{
			name: "same day window allowed",
			body: `{"name":"Launch","budget":5000,"startDate":"2026-09-01","endDate":"2026-09-01"}`,
			want: nil,
		},
		{
			name: "garbage date",
			body: `{"name":"Launch","budget":5000,"startDate":"soon","endDate":"2026-10-01"}`,
			want: FieldErrors{"startDate": "Start date must be a valid date"},
		},
		{
			name: "rfc3339 dates accepted",
			body: `{"name":"Launch","budget":5000,"startDate":"2026-09-01T00:00:00Z","endDate":"2026-10-01T00:00:00Z"}`,
			want: nil,
		},
		{
			name: "non-positive budget",
			body: `{"name":"Launch","budget":"0","startDate":"2026-09-01","endDate":"2026-10-01"}`,
			want: FieldErrors{"budget": "Budget must be a positive number"},
		},
		{
			name: "unknown status",
			body: `{"name":"Launch","budget":5000,"startDate":"2026-09-01","endDate":"2026-10-01","status":"RUNNING"}`,
			want: FieldErrors{"status": "Status must be one of: DRAFT, PENDING_REVIEW, APPROVED, ACTIVE, PAUSED, COMPLETED, CANCELLED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Campaign(decodeCampaign(t, tt.body), Create)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCampaignUpdate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want FieldErrors
	}{
		{
			name: "status only",
			body: `{"status":"PAUSED"}`,
			want: nil,
		},
		{
			name: "single date not cross-checked here",
			body: `{"endDate":"2026-01-01"}`,
			want: nil,
		},
		{
			name: "negative spent",
			body: `{"spent":-1}`,
			want: FieldErrors{"spent": "Spent must be zero or greater"},
		},
		{
			name: "negative cpm rate",
			body: `{"cpmRate":"-2"}`,
			want: FieldErrors{"cpmRate": "CPM rate must be zero or greater"},
		},
		{
			name: "null budget rejected",
			body: `{"budget":null}`,
			want: FieldErrors{"budget": "Budget is required"},
		},
		{
			name: "both dates present and inverted",
			body: `{"startDate":"2026-10-01","endDate":"2026-09-01"}`,
			want: FieldErrors{"endDate": "End date must be on or after start date"},
		},
		{
			name: "null status rejected",
			body: `{"status":null}`,
			want: FieldErrors{"status": "Status must be one of: DRAFT, PENDING_REVIEW, APPROVED, ACTIVE, PAUSED, COMPLETED, CANCELLED"},
		},
		{
			name: "blank status rejected",
			body: `{"status":""}`,
			want: FieldErrors{"status": "Status must be one of: DRAFT, PENDING_REVIEW, APPROVED, ACTIVE, PAUSED, COMPLETED, CANCELLED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Campaign(decodeCampaign(t, tt.body), Update)
			assert.Equal(t, tt.want, got)
		})
	}
}
