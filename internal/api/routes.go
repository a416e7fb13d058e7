package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

// Routes builds the full API router. Role gating is wired per route so the
// mapping from endpoint to allowed role is visible in one place.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/newsletter/subscribe",
		s.Instrument("newsletter_subscribe", s.SubscribeNewsletter)).Methods(http.MethodPost)

	pub := models.RolePublisher
	api.HandleFunc("/ad-slots",
		s.Instrument("ad_slots_list", s.RequireRole(s.ListAdSlots, pub))).Methods(http.MethodGet)
	api.HandleFunc("/ad-slots",
		s.Instrument("ad_slots_create", s.RequireRole(s.CreateAdSlot, pub))).Methods(http.MethodPost)
	api.HandleFunc("/ad-slots/{id}",
		s.Instrument("ad_slots_get", s.RequireRole(s.GetAdSlot, pub))).Methods(http.MethodGet)
	api.HandleFunc("/ad-slots/{id}",
		s.Instrument("ad_slots_update", s.RequireRole(s.UpdateAdSlot, pub))).Methods(http.MethodPut)
	api.HandleFunc("/ad-slots/{id}",
		s.Instrument("ad_slots_delete", s.RequireRole(s.DeleteAdSlot, pub))).Methods(http.MethodDelete)
	api.HandleFunc("/ad-slots/{id}/book",
		s.Instrument("ad_slots_book", s.RequireRole(s.BookAdSlot, models.RoleSponsor))).Methods(http.MethodPost)
	api.HandleFunc("/ad-slots/{id}/unbook",
		s.Instrument("ad_slots_unbook", s.RequireRole(s.UnbookAdSlot, pub))).Methods(http.MethodPost)

	spon := models.RoleSponsor
	api.HandleFunc("/campaigns",
		s.Instrument("campaigns_list", s.RequireRole(s.ListCampaigns, spon))).Methods(http.MethodGet)
	api.HandleFunc("/campaigns",
		s.Instrument("campaigns_create", s.RequireRole(s.CreateCampaign, spon))).Methods(http.MethodPost)
	api.HandleFunc("/campaigns/{id}",
		s.Instrument("campaigns_get", s.RequireRole(s.GetCampaign, spon))).Methods(http.MethodGet)
	api.HandleFunc("/campaigns/{id}",
		s.Instrument("campaigns_update", s.RequireRole(s.UpdateCampaign, spon))).Methods(http.MethodPut)
	api.HandleFunc("/campaigns/{id}",
		s.Instrument("campaigns_delete", s.RequireRole(s.DeleteCampaign, spon))).Methods(http.MethodDelete)

	return r
}
