package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/middleware"
	"github.com/sponsorbridge/sponsorbridge/internal/models"
	"github.com/sponsorbridge/sponsorbridge/internal/validate"
)

// ListCampaigns handles GET /api/campaigns, scoped to the authenticated
// sponsor.
func (s *Server) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var status models.CampaignStatus
	if st := models.CampaignStatus(r.URL.Query().Get("status")); st.Valid() {
		status = st
	}

	campaigns, err := s.PG.ListCampaigns(r.Context(), identity.SponsorID, status)
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to list campaigns", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch campaigns")
		return
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// GetCampaign handles GET /api/campaigns/{id} with the same
// existence-then-ownership ordering as ad slots.
func (s *Server) GetCampaign(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	campaign, err := s.PG.GetCampaign(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to fetch campaign", zap.String("campaign_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch campaign")
		return
	}
	if campaign.SponsorID != identity.SponsorID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// CreateCampaign handles POST /api/campaigns. The owner is always the
// authenticated sponsor.
func (s *Server) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var in models.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fe := validate.Campaign(&in, validate.Create); fe.Any() {
		s.Metrics.IncrementValidationFailures("campaign")
		writeFieldErrors(w, fe)
		return
	}
	if in.SponsorID.Set && !in.SponsorID.Null && in.SponsorID.Value != "" &&
		in.SponsorID.Value != identity.SponsorID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	campaign := models.Campaign{
		SponsorID:        identity.SponsorID,
		Name:             in.Name.Value,
		Description:      in.Description.Value,
		Budget:           in.Budget.Value,
		StartDate:        in.StartDate.Value,
		EndDate:          in.EndDate.Value,
		TargetCategories: []string{},
		TargetRegions:    []string{},
		Status:           models.StatusDraft,
	}
	if in.Spent.Set && !in.Spent.Null {
		campaign.Spent = in.Spent.Value
	}
	if in.CPMRate.Set && !in.CPMRate.Null {
		rate := in.CPMRate.Value
		campaign.CPMRate = &rate
	}
	if in.CPCRate.Set && !in.CPCRate.Null {
		rate := in.CPCRate.Value
		campaign.CPCRate = &rate
	}
	if in.TargetCategories.Set && !in.TargetCategories.Null {
		campaign.TargetCategories = in.TargetCategories.Value
	}
	if in.TargetRegions.Set && !in.TargetRegions.Null {
		campaign.TargetRegions = in.TargetRegions.Value
	}
	if in.Status.Set && !in.Status.Null && in.Status.Value != "" {
		campaign.Status = models.CampaignStatus(in.Status.Value)
	}

	if err := s.PG.InsertCampaign(r.Context(), &campaign); err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to create campaign", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create campaign")
		return
	}
	s.notifyUpdate("campaign", "create", campaign.ID)

	created, err := s.PG.GetCampaign(r.Context(), campaign.ID)
	if err != nil {
		writeJSON(w, http.StatusCreated, campaign)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCampaign handles PUT /api/campaigns/{id}. When only one of the two
// dates is in the payload, the flight-window ordering is re-checked against
// the stored value of the other.
func (s *Server) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var in models.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Empty() {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if fe := validate.Campaign(&in, validate.Update); fe.Any() {
		s.Metrics.IncrementValidationFailures("campaign")
		writeFieldErrors(w, fe)
		return
	}

	existing, err := s.PG.GetCampaign(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to fetch campaign", zap.String("campaign_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update campaign")
		return
	}
	if existing.SponsorID != identity.SponsorID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	// Cross-field window check over the merged state, not just the payload.
	start := existing.StartDate
	if in.StartDate.Set && in.StartDate.Valid {
		start = in.StartDate.Value
	}
	end := existing.EndDate
	if in.EndDate.Set && in.EndDate.Valid {
		end = in.EndDate.Value
	}
	if end.Before(start) {
		s.Metrics.IncrementValidationFailures("campaign")
		writeFieldErrors(w, validate.FieldErrors{"endDate": "End date must be on or after start date"})
		return
	}

	updated, err := s.PG.UpdateCampaign(r.Context(), id, identity.SponsorID, &in)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to update campaign", zap.String("campaign_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update campaign")
		return
	}
	s.notifyUpdate("campaign", "update", id)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCampaign handles DELETE /api/campaigns/{id}. Placements that
// referenced the campaign survive with the link cleared, since the booked
// inventory itself is unaffected.
func (s *Server) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	existing, err := s.PG.GetCampaign(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to fetch campaign", zap.String("campaign_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete campaign")
		return
	}
	if existing.SponsorID != identity.SponsorID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := s.PG.DeleteCampaign(r.Context(), id, identity.SponsorID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Campaign not found")
			return
		}
		middleware.LoggerFromRequest(r, s.Logger).Error("Failed to delete campaign", zap.String("campaign_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete campaign")
		return
	}
	s.notifyUpdate("campaign", "delete", id)
	w.WriteHeader(http.StatusNoContent)
}
