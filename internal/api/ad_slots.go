package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/analytics"
	"github.com/sponsorbridge/sponsorbridge/internal/middleware"
	"github.com/sponsorbridge/sponsorbridge/internal/models"
	"github.com/sponsorbridge/sponsorbridge/internal/validate"
)

// ListAdSlots handles GET /api/ad-slots. Results are always scoped to the
// authenticated publisher; there is no way to list another publisher's
// inventory.
func (s *Server) ListAdSlots(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var filter models.AdSlotFilter
	q := r.URL.Query()
	// An unknown type value is ignored rather than rejected so dashboards can
	// pass filters through verbatim.
	if t := models.SlotType(q.Get("type")); t.Valid() {
		filter.Type = t
	}
	filter.AvailableOnly = q.Get("available") == "true"

	slots, err := s.PG.ListAdSlots(r.Context(), identity.PublisherID, filter)
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to list ad slots", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch ad slots")
		return
	}
	if slots == nil {
		slots = []models.AdSlot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

// GetAdSlot handles GET /api/ad-slots/{id}. Existence is checked before
// ownership: a missing slot is 404 even for non-owners, an existing slot
// owned by someone else is 403.
func (s *Server) GetAdSlot(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	slot, err := s.PG.GetAdSlot(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ad slot not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to fetch ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch ad slot")
		return
	}
	if slot.PublisherID != identity.PublisherID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

// CreateAdSlot handles POST /api/ad-slots. The owner is always the
// authenticated publisher; a payload naming a different publisherId is
// rejected outright rather than silently reassigned.
func (s *Server) CreateAdSlot(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var in models.AdSlotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fe := validate.AdSlot(&in, validate.Create); fe.Any() {
		s.Metrics.IncrementValidationFailures("ad_slot")
		writeFieldErrors(w, fe)
		return
	}
	if in.PublisherID.Set && !in.PublisherID.Null && in.PublisherID.Value != "" &&
		in.PublisherID.Value != identity.PublisherID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	slot := models.AdSlot{
		PublisherID: identity.PublisherID,
		Name:        in.Name.Value,
		Description: in.Description.Value,
		Type:        models.SlotType(in.Type.Value),
		Position:    in.Position.Value,
		BasePrice:   in.BasePrice.Value,
		IsAvailable: true,
	}
	if in.Width.Set && !in.Width.Null {
		width := int(in.Width.Value)
		slot.Width = &width
	}
	if in.Height.Set && !in.Height.Null {
		height := int(in.Height.Value)
		slot.Height = &height
	}
	if in.CPMFloor.Set && !in.CPMFloor.Null {
		floor := in.CPMFloor.Value
		slot.CPMFloor = &floor
	}
	if in.IsAvailable.Set && !in.IsAvailable.Null {
		slot.IsAvailable = in.IsAvailable.Value
	}

	if err := s.PG.InsertAdSlot(r.Context(), &slot); err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to create ad slot", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create ad slot")
		return
	}
	s.notifyUpdate("ad_slot", "create", slot.ID)

	// Re-read so the response carries the publisher summary and counts.
	created, err := s.PG.GetAdSlot(r.Context(), slot.ID)
	if err != nil {
		writeJSON(w, http.StatusCreated, slot)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateAdSlot handles PUT /api/ad-slots/{id}. Fields absent from the payload
// are left untouched; an explicit null clears nullable fields. A payload with
// no recognized fields is rejected.
func (s *Server) UpdateAdSlot(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var in models.AdSlotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Empty() {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if fe := validate.AdSlot(&in, validate.Update); fe.Any() {
		s.Metrics.IncrementValidationFailures("ad_slot")
		writeFieldErrors(w, fe)
		return
	}

	existing, err := s.PG.GetAdSlot(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ad slot not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to fetch ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update ad slot")
		return
	}
	if existing.PublisherID != identity.PublisherID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	updated, err := s.PG.UpdateAdSlot(r.Context(), id, identity.PublisherID, &in)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ad slot not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to update ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update ad slot")
		return
	}
	s.notifyUpdate("ad_slot", "update", id)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteAdSlot handles DELETE /api/ad-slots/{id}. Placements referencing the
// slot are removed with it. Deleting twice yields 404 on the second call.
func (s *Server) DeleteAdSlot(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := s.PG.GetAdSlot(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ad slot not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to fetch ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete ad slot")
		return
	}
	if existing.PublisherID != identity.PublisherID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := s.PG.DeleteAdSlot(r.Context(), id, identity.PublisherID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Ad slot not found")
			return
		}
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to delete ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete ad slot")
		return
	}
	s.notifyUpdate("ad_slot", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// bookRequest is the optional body for booking a slot. campaignId links the
// resulting placement to one of the sponsor's campaigns.
type bookRequest struct {
	SponsorID  models.Field[string] `json:"sponsorId"`
	CampaignID models.Field[string] `json:"campaignId"`
	Message    models.Field[string] `json:"message"`
}

// BookAdSlot handles POST /api/ad-slots/{id}/book, sponsors only. The
// availability flip is a single conditional UPDATE so concurrent bookings of
// the same slot produce exactly one winner.
func (s *Server) BookAdSlot(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	logger := middleware.LoggerFromRequest(r, s.Logger)

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SponsorID.Set && !req.SponsorID.Null && req.SponsorID.Value != "" &&
		req.SponsorID.Value != identity.SponsorID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	slot, err := s.PG.GetAdSlot(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ad slot not found")
		return
	}
	if err != nil {
		logger.Error("Failed to fetch ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to book ad slot")
		return
	}

	var campaignID *string
	if req.CampaignID.Set && !req.CampaignID.Null && req.CampaignID.Value != "" {
		campaign, err := s.PG.GetCampaign(r.Context(), req.CampaignID.Value)
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Campaign not found")
			return
		}
		if err != nil {
			logger.Error("Failed to fetch campaign", zap.String("campaign_id", req.CampaignID.Value), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to book ad slot")
			return
		}
		if campaign.SponsorID != identity.SponsorID {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		campaignID = &campaign.ID
	}

	booked, err := s.PG.BookAdSlot(r.Context(), id)
	if err != nil {
		logger.Error("Failed to book ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to book ad slot")
		return
	}
	if !booked {
		s.Metrics.IncrementBookings("unavailable")
		writeError(w, http.StatusBadRequest, "Ad slot is no longer available")
		return
	}

	placement := models.Placement{
		AdSlotID:   id,
		SponsorID:  identity.SponsorID,
		CampaignID: campaignID,
		Message:    req.Message.Value,
	}
	if err := s.PG.InsertPlacement(r.Context(), &placement); err != nil {
		// The slot is already held for this sponsor; losing the placement row
		// is worth a loud log but not a failed booking.
		logger.Error("Failed to record placement", zap.String("ad_slot_id", id), zap.Error(err))
	}

	s.Metrics.IncrementBookings("booked")
	ev := analytics.Event{
		EventType:   analytics.EventBooking,
		AdSlotID:    id,
		PublisherID: slot.PublisherID,
		SponsorID:   identity.SponsorID,
		Amount:      slot.BasePrice,
	}
	if campaignID != nil {
		ev.CampaignID = *campaignID
	}
	s.recordEvent(r.Context(), ev)
	s.notifyUpdate("ad_slot", "book", id)

	updated, err := s.PG.GetAdSlot(r.Context(), id)
	if err != nil {
		updated = slot
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Ad slot booked successfully!",
		"adSlot":  updated,
	})
}

// UnbookAdSlot handles POST /api/ad-slots/{id}/unbook. Only the owning
// publisher can return a booked slot to the marketplace.
func (s *Server) UnbookAdSlot(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := s.PG.GetAdSlot(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ad slot not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to fetch ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to unbook ad slot")
		return
	}
	if existing.PublisherID != identity.PublisherID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := s.PG.UnbookAdSlot(r.Context(), id); err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to unbook ad slot", zap.String("ad_slot_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to unbook ad slot")
		return
	}

	s.recordEvent(r.Context(), analytics.Event{
		EventType:   analytics.EventUnbooking,
		AdSlotID:    id,
		PublisherID: identity.PublisherID,
	})
	s.notifyUpdate("ad_slot", "unbook", id)

	updated, err := s.PG.GetAdSlot(r.Context(), id)
	if err != nil {
		updated = existing
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Ad slot is now available again",
		"adSlot":  updated,
	})
}
