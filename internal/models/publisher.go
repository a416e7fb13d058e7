package models

import "time"

// Publisher is the seller side of the marketplace. Each publisher is linked
// 1:1 to an external auth user via UserID and owns zero or more ad slots.
type Publisher struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	MonthlyViews int       `json:"monthlyViews,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublisherSummary is the trimmed publisher shape embedded in ad slot
// responses.
type PublisherSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	MonthlyViews int    `json:"monthlyViews,omitempty"`
}
