package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

func TestListCampaignsScopedToSponsor(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, mock := newTestServer(t, identity)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM campaigns").WithArgs("spon-1").
		WillReturnRows(campaignRow("camp-1", "spon-1", start, start.AddDate(0, 1, 0)))

	rec := httptest.NewRecorder()
	srv.ListCampaigns(rec, authedRequest(http.MethodGet, "/api/campaigns", "", identity, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var campaigns []models.Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &campaigns))
	require.Len(t, campaigns, 1)
	assert.Equal(t, "spon-1", campaigns[0].SponsorID)
	assert.Equal(t, []string{"tech"}, campaigns[0].TargetCategories)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCampaignsStatusFilter(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, mock := newTestServer(t, identity)

	mock.ExpectQuery("FROM campaigns").WithArgs("spon-1", "ACTIVE").
		WillReturnRows(sqlmock.NewRows(campaignColumns))

	rec := httptest.NewRecorder()
	srv.ListCampaigns(rec, authedRequest(http.MethodGet, "/api/campaigns?status=ACTIVE", "", identity, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCampaignExistenceBeforeOwnership(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, mock := newTestServer(t, identity)

	mock.ExpectQuery("FROM campaigns").WithArgs("missing").WillReturnRows(sqlmock.NewRows(campaignColumns))

	rec := httptest.NewRecorder()
	srv.GetCampaign(rec, authedRequest(http.MethodGet, "/api/campaigns/missing", "", identity, map[string]string{"id": "missing"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Campaign not found"}`, rec.Body.String())

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM campaigns").WithArgs("camp-2").
		WillReturnRows(campaignRow("camp-2", "spon-other", start, start.AddDate(0, 1, 0)))

	rec = httptest.NewRecorder()
	srv.GetCampaign(rec, authedRequest(http.MethodGet, "/api/campaigns/camp-2", "", identity, map[string]string{"id": "camp-2"}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())
}

func TestCreateCampaignRejectsForeignOwner(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, _ := newTestServer(t, identity)

	body := `{"name":"Launch","budget":5000,"startDate":"2026-09-01","endDate":"2026-10-01","sponsorId":"spon-other"}`
	rec := httptest.NewRecorder()
	srv.CreateCampaign(rec, authedRequest(http.MethodPost, "/api/campaigns", body, identity, nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())
}

func TestCreateCampaignValidation(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, _ := newTestServer(t, identity)

	body := `{"name":"Launch","budget":5000,"startDate":"2026-10-01","endDate":"2026-09-01"}`
	rec := httptest.NewRecorder()
	srv.CreateCampaign(rec, authedRequest(http.MethodPost, "/api/campaigns", body, identity, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		FieldErrors map[string]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "End date must be on or after start date", resp.FieldErrors["endDate"])
}

func TestCreateCampaign(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, mock := newTestServer(t, identity)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO campaigns").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
	mock.ExpectQuery("FROM campaigns").
		WillReturnRows(campaignRow("camp-new", "spon-1", start, start.AddDate(0, 1, 0)))

	body := `{"name":"Launch","budget":5000,"startDate":"2026-09-01","endDate":"2026-10-01","targetCategories":["tech"]}`
	rec := httptest.NewRecorder()
	srv.CreateCampaign(rec, authedRequest(http.MethodPost, "/api/campaigns", body, identity, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	var campaign models.Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &campaign))
	assert.Equal(t, "spon-1", campaign.SponsorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCampaignEmptyPatch(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, _ := newTestServer(t, identity)

	rec := httptest.NewRecorder()
	srv.UpdateCampaign(rec, authedRequest(http.MethodPut, "/api/campaigns/camp-1", `{"sponsorId":"spon-1"}`, identity, map[string]string{"id": "camp-1"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No fields to update"}`, rec.Body.String())
}

func TestUpdateCampaignRejectsBlankStatus(t *testing.T) {
	identity := sponsorIdentity("spon-1")

	// Null and "" are not members of the enum; neither may reach the store,
	// where either would be written verbatim into the status column.
	for _, body := range []string{`{"status":null}`, `{"status":""}`} {
		srv, mock := newTestServer(t, identity)

		rec := httptest.NewRecorder()
		srv.UpdateCampaign(rec, authedRequest(http.MethodPut, "/api/campaigns/camp-1", body, identity, map[string]string{"id": "camp-1"}))

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		var resp struct {
			FieldErrors map[string]string `json:"fieldErrors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Status must be one of: DRAFT, PENDING_REVIEW, APPROVED, ACTIVE, PAUSED, COMPLETED, CANCELLED", resp.FieldErrors["status"], body)
		require.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestUpdateCampaignMergedDateWindow(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, mock := newTestServer(t, identity)

	// Stored window is Sep 1 - Sep 30; moving only endDate before the stored
	// start must fail even though the payload alone looks fine.
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM campaigns").WithArgs("camp-1").
		WillReturnRows(campaignRow("camp-1", "spon-1", start, end))

	body := `{"endDate":"2026-08-15"}`
	rec := httptest.NewRecorder()
	srv.UpdateCampaign(rec, authedRequest(http.MethodPut, "/api/campaigns/camp-1", body, identity, map[string]string{"id": "camp-1"}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		FieldErrors map[string]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "End date must be on or after start date", resp.FieldErrors["endDate"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCampaign(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, mock := newTestServer(t, identity)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	mock.ExpectQuery("FROM campaigns").WithArgs("camp-1").
		WillReturnRows(campaignRow("camp-1", "spon-1", start, end))
	mock.ExpectExec("UPDATE campaigns SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM campaigns").WithArgs("camp-1").
		WillReturnRows(campaignRow("camp-1", "spon-1", start, end))

	rec := httptest.NewRecorder()
	srv.UpdateCampaign(rec, authedRequest(http.MethodPut, "/api/campaigns/camp-1", `{"status":"PAUSED"}`, identity, map[string]string{"id": "camp-1"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCampaignDetachesPlacements(t *testing.T) {
	identity := sponsorIdentity("spon-1")
	srv, mock := newTestServer(t, identity)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM campaigns").WithArgs("camp-1").
		WillReturnRows(campaignRow("camp-1", "spon-1", start, start.AddDate(0, 1, 0)))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE placements SET campaign_id = NULL").WithArgs("camp-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM campaigns").WithArgs("camp-1", "spon-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	srv.DeleteCampaign(rec, authedRequest(http.MethodDelete, "/api/campaigns/camp-1", "", identity, map[string]string{"id": "camp-1"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
