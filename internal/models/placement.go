package models

import "time"

// Placement links a booked ad slot to the sponsor that booked it, and
// optionally to one of that sponsor's campaigns. One row is written per
// successful booking so the marketplace keeps referential history of who
// booked what; unbooking leaves the historical row in place.
type Placement struct {
	ID         string    `json:"id"`
	AdSlotID   string    `json:"adSlotId"`
	SponsorID  string    `json:"sponsorId"`
	CampaignID *string   `json:"campaignId,omitempty"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
