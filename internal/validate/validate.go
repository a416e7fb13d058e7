// Package validate holds the pure field validators shared by the REST
// handlers and the server-rendered forms. Validators collect every failing
// field in one pass rather than stopping at the first, so a response can
// surface all problems at once.
package validate

import (
	"math"
	"strings"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

// Mode selects the presence rules a validator applies: Create requires the
// mandatory fields, Update only checks fields present in the payload.
type Mode int

const (
	Create Mode = iota
	Update
)

// FieldErrors maps a payload field name to a human-readable message.
type FieldErrors map[string]string

// Any reports whether at least one field failed.
func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// positive reports whether n holds a parseable value greater than zero.
func positive(n models.Number) bool {
	return n.Valid && n.Value > 0
}

// nonNegative reports whether n holds a parseable value of zero or more.
func nonNegative(n models.Number) bool {
	return n.Valid && n.Value >= 0
}

// positiveInt reports whether n holds a whole number of one or more.
func positiveInt(n models.Number) bool {
	return n.Valid && n.Value >= 1 && n.Value == math.Trunc(n.Value)
}

// blank treats explicit null and whitespace-only strings the same as an
// empty form input.
func blank(f models.Field[string]) bool {
	return f.Null || strings.TrimSpace(f.Value) == ""
}

func joinSlotTypes() string {
	names := make([]string, len(models.SlotTypes()))
	for i, t := range models.SlotTypes() {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func joinCampaignStatuses() string {
	names := make([]string, len(models.CampaignStatuses()))
	for i, s := range models.CampaignStatuses() {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
