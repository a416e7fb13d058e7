package validate

import "github.com/sponsorbridge/sponsorbridge/internal/models"

// AdSlot checks an ad slot payload. In Create mode name, type and basePrice
// are mandatory; in Update mode only fields present in the payload are
// checked, but a required field set to null or empty is still rejected
// because the column cannot be cleared.
func AdSlot(in *models.AdSlotInput, mode Mode) FieldErrors {
	fe := FieldErrors{}

	if mode == Create && !in.Name.Set {
		fe["name"] = "Name is required"
	} else if in.Name.Set && blank(in.Name) {
		fe["name"] = "Name is required"
	}

	switch {
	case mode == Create && !in.Type.Set:
		fe["type"] = "Type is required"
	case in.Type.Set && blank(in.Type):
		fe["type"] = "Type is required"
	case in.Type.Set && !models.SlotType(in.Type.Value).Valid():
		fe["type"] = "Type must be one of: " + joinSlotTypes()
	}

	switch {
	case mode == Create && !in.BasePrice.Set:
		fe["basePrice"] = "Base price is required"
	case in.BasePrice.Set && in.BasePrice.Null:
		fe["basePrice"] = "Base price is required"
	case in.BasePrice.Set && !positive(in.BasePrice):
		fe["basePrice"] = "Base price must be a positive number"
	}

	if in.Width.Set && !in.Width.Null && !positiveInt(in.Width) {
		fe["width"] = "Width must be a positive integer"
	}
	if in.Height.Set && !in.Height.Null && !positiveInt(in.Height) {
		fe["height"] = "Height must be a positive integer"
	}
	if in.CPMFloor.Set && !in.CPMFloor.Null && !nonNegative(in.CPMFloor) {
		fe["cpmFloor"] = "CPM floor must be zero or greater"
	}
	// Availability has no cleared state; null would otherwise coerce to false.
	if in.IsAvailable.Set && in.IsAvailable.Null {
		fe["isAvailable"] = "Availability must be true or false"
	}

	if fe.Any() {
		return fe
	}
	return nil
}
