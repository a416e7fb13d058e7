package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

func decodeAdSlot(t *testing.T, body string) *models.AdSlotInput {
	t.Helper()
	var in models.AdSlotInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return &in
}

func TestAdSlotCreate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want FieldErrors
	}{
		{
			name: "valid minimal",
			body: `{"name":"Header banner","type":"DISPLAY","basePrice":100}`,
			want: nil,
		},
		{
			name: "missing everything",
			body: `{}`,
			want: FieldErrors{
				"name":      "Name is required",
				"type":      "Type is required",
				"basePrice": "Base price is required",
			},
		},
		{
			name: "blank name",
			body: `{"name":"   ","type":"DISPLAY","basePrice":100}`,
			want: FieldErrors{"name": "Name is required"},
		},
		{
			name: "unknown type",
			body: `{"name":"x","type":"BANNER","basePrice":100}`,
			want: FieldErrors{"type": "Type must be one of: DISPLAY, VIDEO, NATIVE, NEWSLETTER, PODCAST"},
		},
		{
			name: "zero base price",
			body: `{"name":"x","type":"DISPLAY","basePrice":0}`,
			want: FieldErrors{"basePrice": "Base price must be a positive number"},
		},
		{
			name: "negative base price",
			body: `{"name":"x","type":"DISPLAY","basePrice":-5}`,
			want: FieldErrors{"basePrice": "Base price must be a positive number"},
		},
		{
			name: "non-numeric base price",
			body: `{"name":"x","type":"DISPLAY","basePrice":"lots"}`,
			want: FieldErrors{"basePrice": "Base price must be a positive number"},
		},
		{
			name: "numeric string base price passes",
			body: `{"name":"x","type":"DISPLAY","basePrice":"250.50"}`,
			want: nil,
		},
		{
			name: "fractional width",
			body: `{"name":"x","type":"DISPLAY","basePrice":100,"width":728.5}`,
			want: FieldErrors{"width": "Width must be a positive integer"},
		},
		{
			name: "zero height",
			body: `{"name":"x","type":"DISPLAY","basePrice":100,"height":0}`,
			want: FieldErrors{"height": "Height must be a positive integer"},
		},
		{
			name: "negative cpm floor",
			body: `{"name":"x","type":"DISPLAY","basePrice":100,"cpmFloor":-1}`,
			want: FieldErrors{"cpmFloor": "CPM floor must be zero or greater"},
		},
		{
			name: "zero cpm floor allowed",
			body: `{"name":"x","type":"DISPLAY","basePrice":100,"cpmFloor":0}`,
			want: nil,
		},
		{
			name: "multiple failures reported together",
			body: `{"name":"","type":"BANNER","basePrice":-1,"width":-10}`,
			want: FieldErrors{
				"name":      "Name is required",
				"type":      "Type must be one of: DISPLAY, VIDEO, NATIVE, NEWSLETTER, PODCAST",
				"basePrice": "Base price must be a positive number",
				"width":     "Width must be a positive integer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdSlot(decodeAdSlot(t, tt.body), Create)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdSlotUpdate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want FieldErrors
	}{
		{
			name: "absent fields are not checked",
			body: `{"description":"new copy"}`,
			want: nil,
		},
		{
			name: "null name rejected",
			body: `{"name":null}`,
			want: FieldErrors{"name": "Name is required"},
		},
		{
			name: "null base price rejected",
			body: `{"basePrice":null}`,
			want: FieldErrors{"basePrice": "Base price is required"},
		},
		{
			name: "null width allowed",
			body: `{"width":null}`,
			want: nil,
		},
		{
			name: "bad type still rejected",
			body: `{"type":"POPUP"}`,
			want: FieldErrors{"type": "Type must be one of: DISPLAY, VIDEO, NATIVE, NEWSLETTER, PODCAST"},
		},
		{
			name: "present base price still must be positive",
			body: `{"basePrice":"0"}`,
			want: FieldErrors{"basePrice": "Base price must be a positive number"},
		},
		{
			name: "null availability rejected",
			body: `{"isAvailable":null}`,
			want: FieldErrors{"isAvailable": "Availability must be true or false"},
		},
		{
			name: "explicit availability allowed",
			body: `{"isAvailable":false}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdSlot(decodeAdSlot(t, tt.body), Update)
			assert.Equal(t, tt.want, got)
		})
	}
}
