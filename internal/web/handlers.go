// Package web serves the rendered marketplace dashboards. Pages talk to the
// JSON API through a cookie-forwarding client rather than reaching into the
// database, so the backend stays the single authority on authorization and
// validation.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
	"github.com/sponsorbridge/sponsorbridge/internal/validate"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"join": strings.Join,
	"iptr": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
	"fptr": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
}).ParseFS(templatesFS, "templates/*.tmpl"))

// SessionResolver is the slice of the session layer the dashboard needs to
// route users to the right page.
type SessionResolver interface {
	Resolve(ctx context.Context, cookieHeader string) (*models.Identity, error)
}

// Server renders the dashboard pages and handles their form submissions.
type Server struct {
	Logger   *zap.Logger
	Client   *Client
	Sessions SessionResolver
}

func NewServer(logger *zap.Logger, client *Client, sessions SessionResolver) *Server {
	return &Server{Logger: logger, Client: client, Sessions: sessions}
}

// Routes mounts the page handlers on r.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/", s.Landing).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", s.Dashboard).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/newsletter", s.Newsletter).Methods(http.MethodPost)

	r.HandleFunc("/dashboard/publisher", s.PublisherDashboard).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/publisher/ad-slots", s.CreateAdSlotForm).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/publisher/ad-slots/{id}/update", s.UpdateAdSlotForm).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/publisher/ad-slots/{id}/delete", s.DeleteAdSlotForm).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/publisher/ad-slots/{id}/unbook", s.UnbookAdSlotForm).Methods(http.MethodPost)

	r.HandleFunc("/dashboard/sponsor", s.SponsorDashboard).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/sponsor/campaigns", s.CreateCampaignForm).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/sponsor/campaigns/{id}/update", s.UpdateCampaignForm).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/sponsor/campaigns/{id}/delete", s.DeleteCampaignForm).Methods(http.MethodPost)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		s.Logger.Error("Failed to render template", zap.String("template", name), zap.Error(err))
	}
}

type landingPage struct {
	Title   string
	Email   string
	Error   string
	Message string
}

// Landing serves the public home page with the newsletter widget.
func (s *Server) Landing(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "landing", landingPage{Title: "Home"})
}

// Newsletter handles the widget submit. The email is validated locally
// first; only addresses that pass the mirror reach the API.
func (s *Server) Newsletter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, "landing", landingPage{Title: "Home", Error: "Email is required"})
		return
	}
	email := validate.NormalizeEmail(r.PostFormValue("email"))
	if msg := validate.Email(email); msg != "" {
		s.render(w, http.StatusBadRequest, "landing", landingPage{Title: "Home", Email: email, Error: msg})
		return
	}

	if err := s.Client.SubscribeNewsletter(r.Context(), email); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			s.render(w, apiErr.Status, "landing", landingPage{Title: "Home", Email: email, Error: apiErr.Message})
			return
		}
		s.Logger.Error("Newsletter subscribe failed", zap.Error(err))
		s.render(w, http.StatusBadGateway, "landing", landingPage{Title: "Home", Email: email, Error: "Something went wrong, please try again"})
		return
	}
	s.render(w, http.StatusOK, "landing", landingPage{Title: "Home", Message: "Thanks for subscribing!"})
}

// identity resolves the caller, rendering the sign-in page when there is no
// usable session. The bool reports whether the caller may proceed.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, err := s.Sessions.Resolve(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		s.Logger.Error("Failed to resolve session", zap.Error(err))
	}
	if err != nil || id == nil {
		s.render(w, http.StatusUnauthorized, "signin", landingPage{Title: "Sign in"})
		return models.Identity{}, false
	}
	return *id, true
}

// Dashboard routes a signed-in user to the page for their role.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	switch id.Role {
	case models.RoleSponsor:
		http.Redirect(w, r, "/dashboard/sponsor", http.StatusSeeOther)
	case models.RolePublisher:
		http.Redirect(w, r, "/dashboard/publisher", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

type publisherPage struct {
	Title       string
	Identity    models.Identity
	Slots       []models.AdSlot
	SlotTypes   []models.SlotType
	Form        url.Values
	FieldErrors map[string]string
	Error       string
	Message     string
}

func (s *Server) publisherPage(r *http.Request, id models.Identity) publisherPage {
	page := publisherPage{
		Title:     "Publisher dashboard",
		Identity:  id,
		SlotTypes: models.SlotTypes(),
		Form:      url.Values{},
		Message:   r.URL.Query().Get("msg"),
	}
	slots, err := s.Client.ListAdSlots(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		s.Logger.Error("Failed to load ad slots", zap.Error(err))
		page.Error = "Failed to fetch ad slots"
		return page
	}
	page.Slots = slots
	return page
}

// PublisherDashboard renders the slot list with its create and edit forms.
func (s *Server) PublisherDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	if id.Role != models.RolePublisher {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "publisher", s.publisherPage(r, id))
}

// CreateAdSlotForm mirrors the backend validators before submitting, then
// renders any fieldErrors the backend still found.
func (s *Server) CreateAdSlotForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard/publisher", http.StatusSeeOther)
		return
	}

	in, payload := adSlotForm(r.PostForm, validate.Create)
	if fe := validate.AdSlot(in, validate.Create); fe.Any() {
		page := s.publisherPage(r, id)
		page.Form = r.PostForm
		page.FieldErrors = fe
		s.render(w, http.StatusBadRequest, "publisher", page)
		return
	}

	if err := s.Client.CreateAdSlot(r.Context(), r.Header.Get("Cookie"), payload); err != nil {
		s.renderPublisherError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/dashboard/publisher?msg="+url.QueryEscape("Ad slot created"), http.StatusSeeOther)
}

func (s *Server) renderPublisherError(w http.ResponseWriter, r *http.Request, id models.Identity, err error) {
	page := s.publisherPage(r, id)
	page.Form = r.PostForm
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		page.FieldErrors = apiErr.FieldErrors
		page.Error = apiErr.Message
		s.render(w, apiErr.Status, "publisher", page)
		return
	}
	s.Logger.Error("Ad slot form submit failed", zap.Error(err))
	page.Error = "Something went wrong, please try again"
	s.render(w, http.StatusBadGateway, "publisher", page)
}

// UpdateAdSlotForm submits an edit form. Field errors from the mirror or the
// backend re-render the page.
func (s *Server) UpdateAdSlotForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	slotID := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard/publisher", http.StatusSeeOther)
		return
	}

	in, payload := adSlotForm(r.PostForm, validate.Update)
	if fe := validate.AdSlot(in, validate.Update); fe.Any() {
		page := s.publisherPage(r, id)
		page.FieldErrors = fe
		s.render(w, http.StatusBadRequest, "publisher", page)
		return
	}

	if err := s.Client.UpdateAdSlot(r.Context(), r.Header.Get("Cookie"), slotID, payload); err != nil {
		s.renderPublisherError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/dashboard/publisher?msg="+url.QueryEscape("Ad slot updated"), http.StatusSeeOther)
}

func (s *Server) DeleteAdSlotForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	slotID := mux.Vars(r)["id"]
	if err := s.Client.DeleteAdSlot(r.Context(), r.Header.Get("Cookie"), slotID); err != nil {
		s.renderPublisherError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/dashboard/publisher?msg="+url.QueryEscape("Ad slot deleted"), http.StatusSeeOther)
}

func (s *Server) UnbookAdSlotForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	slotID := mux.Vars(r)["id"]
	if err := s.Client.UnbookAdSlot(r.Context(), r.Header.Get("Cookie"), slotID); err != nil {
		s.renderPublisherError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/dashboard/publisher?msg="+url.QueryEscape("Ad slot is now available again"), http.StatusSeeOther)
}

type sponsorPage struct {
	Title            string
	Identity         models.Identity
	Campaigns        []models.Campaign
	CampaignStatuses []models.CampaignStatus
	Form             url.Values
	FieldErrors      map[string]string
	Error            string
	Message          string
}

func (s *Server) sponsorPage(r *http.Request, id models.Identity) sponsorPage {
	page := sponsorPage{
		Title:            "Sponsor dashboard",
		Identity:         id,
		CampaignStatuses: models.CampaignStatuses(),
		Form:             url.Values{},
		Message:          r.URL.Query().Get("msg"),
	}
	campaigns, err := s.Client.ListCampaigns(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		s.Logger.Error("Failed to load campaigns", zap.Error(err))
		page.Error = "Failed to fetch campaigns"
		return page
	}
	page.Campaigns = campaigns
	return page
}

// SponsorDashboard renders the campaign list with its create and edit forms.
func (s *Server) SponsorDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	if id.Role != models.RoleSponsor {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "sponsor", s.sponsorPage(r, id))
}

func (s *Server) renderSponsorError(w http.ResponseWriter, r *http.Request, id models.Identity, err error) {
	page := s.sponsorPage(r, id)
	page.Form = r.PostForm
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		page.FieldErrors = apiErr.FieldErrors
		page.Error = apiErr.Message
		s.render(w, apiErr.Status, "sponsor", page)
		return
	}
	s.Logger.Error("Campaign form submit failed", zap.Error(err))
	page.Error = "Something went wrong, please try again"
	s.render(w, http.StatusBadGateway, "sponsor", page)
}

func (s *Server) CreateCampaignForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard/sponsor", http.StatusSeeOther)
		return
	}

	in, payload := campaignForm(r.PostForm, validate.Create)
	if fe := validate.Campaign(in, validate.Create); fe.Any() {
		page := s.sponsorPage(r, id)
		page.Form = r.PostForm
		page.FieldErrors = fe
		s.render(w, http.StatusBadRequest, "sponsor", page)
		return
	}

	if err := s.Client.CreateCampaign(r.Context(), r.Header.Get("Cookie"), payload); err != nil {
		s.renderSponsorError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/dashboard/sponsor?msg="+url.QueryEscape("Campaign created"), http.StatusSeeOther)
}

func (s *Server) UpdateCampaignForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	campaignID := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard/sponsor", http.StatusSeeOther)
		return
	}

	in, payload := campaignForm(r.PostForm, validate.Update)
	if fe := validate.Campaign(in, validate.Update); fe.Any() {
		page := s.sponsorPage(r, id)
		page.FieldErrors = fe
		s.render(w, http.StatusBadRequest, "sponsor", page)
		return
	}

	if err := s.Client.UpdateCampaign(r.Context(), r.Header.Get("Cookie"), campaignID, payload); err != nil {
		s.renderSponsorError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/dashboard/sponsor?msg="+url.QueryEscape("Campaign updated"), http.StatusSeeOther)
}

func (s *Server) DeleteCampaignForm(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}
	campaignID := mux.Vars(r)["id"]
	if err := s.Client.DeleteCampaign(r.Context(), r.Header.Get("Cookie"), campaignID); err != nil {
		s.renderSponsorError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/dashboard/sponsor?msg="+url.QueryEscape("Campaign deleted"), http.StatusSeeOther)
}
