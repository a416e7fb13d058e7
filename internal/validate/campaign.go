package validate

import "github.com/sponsorbridge/sponsorbridge/internal/models"

// Campaign checks a campaign payload. Date ordering is only enforced here
// when both dates are present in the payload; updates that move a single
// date are checked against the stored row by the handler, which reuses the
// same message.
func Campaign(in *models.CampaignInput, mode Mode) FieldErrors {
	fe := FieldErrors{}

	if mode == Create && !in.Name.Set {
		fe["name"] = "Name is required"
	} else if in.Name.Set && blank(in.Name) {
		fe["name"] = "Name is required"
	}

	switch {
	case mode == Create && !in.Budget.Set:
		fe["budget"] = "Budget is required"
	case in.Budget.Set && in.Budget.Null:
		fe["budget"] = "Budget is required"
	case in.Budget.Set && !positive(in.Budget):
		fe["budget"] = "Budget must be a positive number"
	}

	if in.Spent.Set && !in.Spent.Null && !nonNegative(in.Spent) {
		fe["spent"] = "Spent must be zero or greater"
	}
	if in.CPMRate.Set && !in.CPMRate.Null && !nonNegative(in.CPMRate) {
		fe["cpmRate"] = "CPM rate must be zero or greater"
	}
	if in.CPCRate.Set && !in.CPCRate.Null && !nonNegative(in.CPCRate) {
		fe["cpcRate"] = "CPC rate must be zero or greater"
	}

	switch {
	case mode == Create && !in.StartDate.Set:
		fe["startDate"] = "Start date is required"
	case in.StartDate.Set && in.StartDate.Null:
		fe["startDate"] = "Start date is required"
	case in.StartDate.Set && !in.StartDate.Valid:
		fe["startDate"] = "Start date must be a valid date"
	}

	switch {
	case mode == Create && !in.EndDate.Set:
		fe["endDate"] = "End date is required"
	case in.EndDate.Set && in.EndDate.Null:
		fe["endDate"] = "End date is required"
	case in.EndDate.Set && !in.EndDate.Valid:
		fe["endDate"] = "End date must be a valid date"
	}

	if in.StartDate.Valid && in.EndDate.Valid && in.EndDate.Value.Before(in.StartDate.Value) {
		fe["endDate"] = "End date must be on or after start date"
	}

	// Null and "" are rejected alongside unknown values: the column has no
	// cleared state, absence is the only way to leave it alone.
	if in.Status.Set && (in.Status.Null || !models.CampaignStatus(in.Status.Value).Valid()) {
		fe["status"] = "Status must be one of: " + joinCampaignStatuses()
	}

	if fe.Any() {
		return fe
	}
	return nil
}
