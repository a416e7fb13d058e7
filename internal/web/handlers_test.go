package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

type stubSessions struct {
	identity *models.Identity
}

func (s *stubSessions) Resolve(ctx context.Context, cookieHeader string) (*models.Identity, error) {
	return s.identity, nil
}

// apiStub fakes the marketplace API behind the dashboard client and counts
// the requests it receives, so tests can assert that mirror validation
// short-circuits before anything leaves the process.
type apiStub struct {
	mux      *http.ServeMux
	requests atomic.Int64
}

func newAPIStub() *apiStub {
	return &apiStub{mux: http.NewServeMux()}
}

func (a *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.requests.Add(1)
	a.mux.ServeHTTP(w, r)
}

func (a *apiStub) handle(pattern string, status int, body any) {
	a.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func newWebServer(t *testing.T, stub *apiStub, identity *models.Identity) *Server {
	t.Helper()
	api := httptest.NewServer(stub)
	t.Cleanup(api.Close)
	return NewServer(zap.NewNop(), NewClient(api.URL, 2*time.Second), &stubSessions{identity: identity})
}

func formRequest(target string, form url.Values, vars map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func publisherID() *models.Identity {
	return &models.Identity{UserID: "u-1", Email: "pub@example.com", Role: models.RolePublisher, PublisherID: "pub-1"}
}

func sponsorID() *models.Identity {
	return &models.Identity{UserID: "u-2", Email: "spon@example.com", Role: models.RoleSponsor, SponsorID: "spon-1"}
}

func TestDashboardRoutesByRole(t *testing.T) {
	cases := []struct {
		name     string
		identity *models.Identity
		want     string
	}{
		{"sponsor", sponsorID(), "/dashboard/sponsor"},
		{"publisher", publisherID(), "/dashboard/publisher"},
		{"no role", &models.Identity{UserID: "u-3"}, "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newWebServer(t, newAPIStub(), tc.identity)
			rec := httptest.NewRecorder()
			srv.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tc.want, rec.Header().Get("Location"))
		})
	}
}

func TestDashboardWithoutSessionRendersSignIn(t *testing.T) {
	srv := newWebServer(t, newAPIStub(), nil)
	rec := httptest.NewRecorder()
	srv.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in")
}

func TestPublisherDashboardListsSlots(t *testing.T) {
	stub := newAPIStub()
	stub.handle("/api/ad-slots", http.StatusOK, []models.AdSlot{
		{ID: "slot-1", PublisherID: "pub-1", Name: "Header banner", Type: models.SlotDisplay, BasePrice: 120, IsAvailable: true},
	})
	srv := newWebServer(t, stub, publisherID())

	rec := httptest.NewRecorder()
	srv.PublisherDashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard/publisher", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Header banner")
}

func TestPublisherDashboardRedirectsSponsor(t *testing.T) {
	srv := newWebServer(t, newAPIStub(), sponsorID())

	rec := httptest.NewRecorder()
	srv.PublisherDashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard/publisher", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestCreateAdSlotFormMirrorStopsBeforeAPI(t *testing.T) {
	stub := newAPIStub()
	stub.handle("/api/ad-slots", http.StatusOK, []models.AdSlot{})
	srv := newWebServer(t, stub, publisherID())

	form := url.Values{"name": {""}, "type": {"BILLBOARD"}, "basePrice": {"-5"}}
	rec := httptest.NewRecorder()
	srv.CreateAdSlotForm(rec, formRequest("/dashboard/publisher/ad-slots", form, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Name is required")
	assert.Contains(t, body, "Type must be one of: DISPLAY, VIDEO, NATIVE, NEWSLETTER, PODCAST")
	assert.Contains(t, body, "Base price must be a positive number")
	// Only the page re-render hit the API, never a create.
	assert.LessOrEqual(t, stub.requests.Load(), int64(1))
}

func TestCreateAdSlotFormRendersBackendFieldErrors(t *testing.T) {
	stub := newAPIStub()
	stub.mux.HandleFunc("/api/ad-slots", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"fieldErrors":{"name":"Name is required"}}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	srv := newWebServer(t, stub, publisherID())

	// A payload the mirror accepts but the backend rejects.
	form := url.Values{"name": {"Header banner"}, "type": {"DISPLAY"}, "basePrice": {"120"}}
	rec := httptest.NewRecorder()
	srv.CreateAdSlotForm(rec, formRequest("/dashboard/publisher/ad-slots", form, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name is required")
}

func TestCreateAdSlotFormRedirectsOnSuccess(t *testing.T) {
	stub := newAPIStub()
	stub.mux.HandleFunc("/api/ad-slots", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"slot-1"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	srv := newWebServer(t, stub, publisherID())

	form := url.Values{"name": {"Header banner"}, "type": {"DISPLAY"}, "basePrice": {"120"}}
	rec := httptest.NewRecorder()
	srv.CreateAdSlotForm(rec, formRequest("/dashboard/publisher/ad-slots", form, nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/publisher?msg="+url.QueryEscape("Ad slot created"), rec.Header().Get("Location"))
}

func TestUpdateCampaignFormRendersBackendDateError(t *testing.T) {
	stub := newAPIStub()
	stub.handle("/api/campaigns", http.StatusOK, []models.Campaign{})
	stub.mux.HandleFunc("/api/campaigns/camp-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"fieldErrors":{"endDate":"End date must be on or after start date"}}`))
	})
	srv := newWebServer(t, stub, sponsorID())

	form := url.Values{"endDate": {"2026-08-15"}}
	rec := httptest.NewRecorder()
	srv.UpdateCampaignForm(rec, formRequest("/dashboard/sponsor/campaigns/camp-1/update", form, map[string]string{"id": "camp-1"}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "End date must be on or after start date")
}

func TestNewsletterMirrorRejectsWithoutAPICall(t *testing.T) {
	stub := newAPIStub()
	srv := newWebServer(t, stub, nil)

	form := url.Values{"email": {"not-an-address"}}
	rec := httptest.NewRecorder()
	srv.Newsletter(rec, formRequest("/dashboard/newsletter", form, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid email address")
	assert.Zero(t, stub.requests.Load())
}

func TestNewsletterSuccess(t *testing.T) {
	stub := newAPIStub()
	stub.handle("/api/newsletter/subscribe", http.StatusOK, map[string]any{"success": true, "message": "Thanks for subscribing!"})
	srv := newWebServer(t, stub, nil)

	form := url.Values{"email": {"reader@example.com"}}
	rec := httptest.NewRecorder()
	srv.Newsletter(rec, formRequest("/dashboard/newsletter", form, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thanks for subscribing!")
}

func TestDeleteCampaignFormSurfacesNotFound(t *testing.T) {
	stub := newAPIStub()
	stub.handle("/api/campaigns", http.StatusOK, []models.Campaign{})
	stub.mux.HandleFunc("/api/campaigns/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Campaign not found"}`))
	})
	srv := newWebServer(t, stub, sponsorID())

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/dashboard/sponsor/campaigns/missing/delete", nil), map[string]string{"id": "missing"})
	srv.DeleteCampaignForm(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Campaign not found")
}
