package models

import "time"

// CampaignStatus is the closed set of campaign lifecycle states.
type CampaignStatus string

const (
	StatusDraft         CampaignStatus = "DRAFT"
	StatusPendingReview CampaignStatus = "PENDING_REVIEW"
	StatusApproved      CampaignStatus = "APPROVED"
	StatusActive        CampaignStatus = "ACTIVE"
	StatusPaused        CampaignStatus = "PAUSED"
	StatusCompleted     CampaignStatus = "COMPLETED"
	StatusCancelled     CampaignStatus = "CANCELLED"
)

var campaignStatuses = []CampaignStatus{
	StatusDraft, StatusPendingReview, StatusApproved, StatusActive,
	StatusPaused, StatusCompleted, StatusCancelled,
}

// CampaignStatuses returns the allowed statuses in lifecycle order.
func CampaignStatuses() []CampaignStatus {
	return campaignStatuses
}

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	for _, c := range campaignStatuses {
		if s == c {
			return true
		}
	}
	return false
}

// Campaign is a sponsor's advertising initiative with a budget and a flight
// window. Owned by exactly one sponsor; only that sponsor may read or mutate
// it.
type Campaign struct {
	ID               string         `json:"id"`
	SponsorID        string         `json:"sponsorId"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	Budget           float64        `json:"budget"`
	Spent            float64        `json:"spent"`
	CPMRate          *float64       `json:"cpmRate,omitempty"`
	CPCRate          *float64       `json:"cpcRate,omitempty"`
	StartDate        time.Time      `json:"startDate"`
	EndDate          time.Time      `json:"endDate"`
	TargetCategories []string       `json:"targetCategories"`
	TargetRegions    []string       `json:"targetRegions"`
	Status           CampaignStatus `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`

	Sponsor        *SponsorSummary `json:"sponsor,omitempty"`
	PlacementCount int             `json:"placementCount"`
}

// CampaignInput is the decoded request payload for campaign create and
// update, with the same tri-state semantics as AdSlotInput.
type CampaignInput struct {
	Name             Field[string]   `json:"name"`
	Description      Field[string]   `json:"description"`
	Budget           Number          `json:"budget"`
	Spent            Number          `json:"spent"`
	CPMRate          Number          `json:"cpmRate"`
	CPCRate          Number          `json:"cpcRate"`
	StartDate        DateTime        `json:"startDate"`
	EndDate          DateTime        `json:"endDate"`
	TargetCategories Field[[]string] `json:"targetCategories"`
	TargetRegions    Field[[]string] `json:"targetRegions"`
	Status           Field[string]   `json:"status"`

	SponsorID Field[string] `json:"sponsorId"`
}

// Empty reports whether no mutable field is present.
func (in *CampaignInput) Empty() bool {
	return !in.Name.Set && !in.Description.Set && !in.Budget.Set && !in.Spent.Set &&
		!in.CPMRate.Set && !in.CPCRate.Set && !in.StartDate.Set && !in.EndDate.Set &&
		!in.TargetCategories.Set && !in.TargetRegions.Set && !in.Status.Set
}
