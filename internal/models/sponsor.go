package models

import "time"

// Sponsor is the buyer side of the marketplace. Each sponsor is linked 1:1
// to an external auth user via UserID and owns zero or more campaigns.
type Sponsor struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SponsorSummary is the trimmed sponsor shape embedded in campaign
// responses.
type SponsorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}
