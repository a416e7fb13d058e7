package models

import "time"

// SlotType is the closed set of inventory formats a publisher can list.
type SlotType string

const (
	SlotDisplay    SlotType = "DISPLAY"
	SlotVideo      SlotType = "VIDEO"
	SlotNative     SlotType = "NATIVE"
	SlotNewsletter SlotType = "NEWSLETTER"
	SlotPodcast    SlotType = "PODCAST"
)

// slotTypes is the single source of allowed values; validation messages and
// membership checks both derive from it.
var slotTypes = []SlotType{SlotDisplay, SlotVideo, SlotNative, SlotNewsletter, SlotPodcast}

// SlotTypes returns the allowed slot types in display order.
func SlotTypes() []SlotType {
	return slotTypes
}

// Valid reports whether t is a known slot type.
func (t SlotType) Valid() bool {
	for _, s := range slotTypes {
		if t == s {
			return true
		}
	}
	return false
}

// AdSlot is a unit of purchasable ad inventory owned by exactly one
// publisher. Booking flips IsAvailable to false and records a Placement;
// only the owning publisher may otherwise read or mutate the slot.
type AdSlot struct {
	ID          string    `json:"id"`
	PublisherID string    `json:"publisherId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        SlotType  `json:"type"`
	Position    string    `json:"position,omitempty"`
	Width       *int      `json:"width,omitempty"`
	Height      *int      `json:"height,omitempty"`
	BasePrice   float64   `json:"basePrice"`
	CPMFloor    *float64  `json:"cpmFloor,omitempty"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Embedded summary fields for list/detail responses.
	Publisher      *PublisherSummary `json:"publisher,omitempty"`
	PlacementCount int               `json:"placementCount"`
}

// AdSlotInput is the decoded request payload for ad slot create and update.
// Every field is tri-state so updates can distinguish absent from explicit
// null; validators enforce mode-specific presence rules.
type AdSlotInput struct {
	Name        Field[string] `json:"name"`
	Description Field[string] `json:"description"`
	Type        Field[string] `json:"type"`
	Position    Field[string] `json:"position"`
	Width       Number        `json:"width"`
	Height      Number        `json:"height"`
	BasePrice   Number        `json:"basePrice"`
	CPMFloor    Number        `json:"cpmFloor"`
	IsAvailable Field[bool]   `json:"isAvailable"`

	// PublisherID is only inspected to reject payloads that try to assign
	// the slot to someone other than the authenticated caller.
	PublisherID Field[string] `json:"publisherId"`
}

// Empty reports whether no mutable field is present, which makes an update
// request a rejected no-op.
func (in *AdSlotInput) Empty() bool {
	return !in.Name.Set && !in.Description.Set && !in.Type.Set && !in.Position.Set &&
		!in.Width.Set && !in.Height.Set && !in.BasePrice.Set && !in.CPMFloor.Set &&
		!in.IsAvailable.Set
}

// AdSlotFilter narrows list queries. Zero values mean no filtering.
type AdSlotFilter struct {
	Type          SlotType
	AvailableOnly bool
}
