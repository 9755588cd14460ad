package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebbyk/airwaves/internal/idp"
	"github.com/sebbyk/airwaves/internal/models"
	"github.com/sebbyk/airwaves/internal/store"
)

func (f *fakeStore) SearchStations(_ context.Context, filter store.StationFilter) ([]models.StationWithTMA, error) {
	f.lastFilter = &filter
	return []models.StationWithTMA{}, nil
}

func (f *fakeStore) CreateSubstation(_ context.Context, sub *models.Substation, owner models.Owner) (int64, error) {
	if !owner.Valid() {
		return 0, models.ErrAmbiguousOwner
	}
	sub.ID = 77
	sub.StationID = owner.StationID()
	sub.StationGroupID = owner.GroupID()
	f.createdSub = sub
	return sub.ID, nil
}

func (f *fakeStore) GetSubstation(_ context.Context, id int64) (*models.Substation, error) {
	if f.createdSub == nil || f.createdSub.ID != id {
		return nil, store.ErrNotFound
	}
	return f.createdSub, nil
}

func (f *fakeStore) DeleteNetwork(_ context.Context, _ int64) error {
	return f.deleteNetworkErr
}

func (f *fakeStore) CreateFeedback(_ context.Context, fb *models.Feedback) (int64, error) {
	fb.ID = 5
	fb.Status = models.FeedbackStatusPending
	f.createdFeedback = fb
	return fb.ID, nil
}

func (f *fakeStore) GetFeedback(_ context.Context, id int64) (*models.Feedback, error) {
	if f.createdFeedback == nil || f.createdFeedback.ID != id {
		return nil, store.ErrNotFound
	}
	return f.createdFeedback, nil
}

func (f *fakeStore) ListFeedbackByUser(_ context.Context, _ string) ([]models.Feedback, error) {
	return nil, nil
}

func doJSON(srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func adminFixture(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	fs := newFakeStore()
	fs.users["auth0|admin"] = &models.User{ID: "auth0|admin", Email: "admin@example.net", IsAdmin: true}
	provider := &fakeProvider{tokens: map[string]*idp.Claims{
		"admin-tok": {Subject: "auth0|admin"},
		"user-tok":  {Subject: "auth0|user"},
	}}
	return newTestServer(t, fs, provider), fs
}

func TestListTMAs(t *testing.T) {
	fs := newFakeStore()
	fs.tmas[1] = &models.TMA{ID: 1, Name: "Detroit", Status: models.TMAStatusComplete}
	srv := newTestServer(t, fs, &fakeProvider{})

	rec := doRequest(srv, http.MethodGet, "/api/tmas", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var tmas []models.TMA
	if err := json.Unmarshal(rec.Body.Bytes(), &tmas); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tmas) != 1 || tmas[0].Name != "Detroit" {
		t.Errorf("tmas = %+v", tmas)
	}
}

func TestGetTMANotFound(t *testing.T) {
	srv := newTestServer(t, newFakeStore(), &fakeProvider{})

	rec := doRequest(srv, http.MethodGet, "/api/tmas/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	e := decodeError(t, rec)
	if e.Error != "Not Found" {
		t.Errorf("error = %q", e.Error)
	}
}

func TestGetTMAInvalidID(t *testing.T) {
	srv := newTestServer(t, newFakeStore(), &fakeProvider{})
	for _, path := range []string{"/api/tmas/abc", "/api/tmas/0", "/api/tmas/-3"} {
		rec := doRequest(srv, http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestSearchStationsFilter(t *testing.T) {
	fs := newFakeStore()
	srv := newTestServer(t, fs, &fakeProvider{})

	rec := doRequest(srv, http.MethodGet, "/api/stations?q=wxyz&tma_id=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fs.lastFilter == nil {
		t.Fatal("filter was not passed to the store")
	}
	if fs.lastFilter.Query != "wxyz" {
		t.Errorf("Query = %q", fs.lastFilter.Query)
	}
	if fs.lastFilter.TMAID == nil || *fs.lastFilter.TMAID != 3 {
		t.Errorf("TMAID = %v", fs.lastFilter.TMAID)
	}

	// An empty result serialises as [], not null.
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestSearchStationsBadTMAID(t *testing.T) {
	srv := newTestServer(t, newFakeStore(), &fakeProvider{})
	rec := doRequest(srv, http.MethodGet, "/api/stations?tma_id=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPatchTMAStatus(t *testing.T) {
	srv, fs := adminFixture(t)
	fs.tmas[2] = &models.TMA{ID: 2, Name: "Tulsa", Status: models.TMAStatusNotImplemented}

	rec := doJSON(srv, http.MethodPatch, "/api/admin/tmas/2", "admin-tok", `{"status":"in_progress"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if fs.tmaStatusUpdates[2] != models.TMAStatusInProgress {
		t.Errorf("recorded status = %q", fs.tmaStatusUpdates[2])
	}
}

func TestPatchTMAInvalidStatus(t *testing.T) {
	srv, fs := adminFixture(t)
	fs.tmas[2] = &models.TMA{ID: 2, Name: "Tulsa"}

	rec := doJSON(srv, http.MethodPatch, "/api/admin/tmas/2", "admin-tok", `{"status":"done"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(fs.tmaStatusUpdates) != 0 {
		t.Error("store must not be touched on invalid status")
	}
}

func TestDeleteStationSuccessEnvelope(t *testing.T) {
	srv, fs := adminFixture(t)

	rec := doRequest(srv, http.MethodDelete, "/api/admin/stations/9", "admin-tok")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body["success"] {
		t.Errorf("body = %s", rec.Body.String())
	}
	if len(fs.deletedStations) != 1 || fs.deletedStations[0] != 9 {
		t.Errorf("deleted = %v", fs.deletedStations)
	}
}

func TestDeleteNetworkConflict(t *testing.T) {
	srv, fs := adminFixture(t)
	fs.deleteNetworkErr = store.ErrConflict

	rec := doRequest(srv, http.MethodDelete, "/api/admin/networks/4", "admin-tok")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	e := decodeError(t, rec)
	if e.Error != "Conflict" {
		t.Errorf("error = %q", e.Error)
	}
}

func TestCreateSubstationOwnership(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "station owner",
			body:       `{"station_id":1,"number":2,"marketing_name":"News"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "group owner",
			body:       `{"station_group_id":3,"number":1,"marketing_name":"{CALL4} PBS"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "both owners rejected",
			body:       `{"station_id":1,"station_group_id":3,"number":1,"marketing_name":"X"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no owner rejected",
			body:       `{"number":1,"marketing_name":"X"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing name rejected",
			body:       `{"station_id":1,"number":1}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := adminFixture(t)
			rec := doJSON(srv, http.MethodPost, "/api/admin/substations", "admin-tok", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestPatchUserSelfDemotionRejected(t *testing.T) {
	srv, fs := adminFixture(t)

	rec := doJSON(srv, http.MethodPatch, "/api/admin/users/auth0|admin", "admin-tok", `{"is_admin":false}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(fs.adminUpdates) != 0 {
		t.Error("store must not be touched on self-demotion")
	}
	if !fs.users["auth0|admin"].IsAdmin {
		t.Error("admin flag was cleared")
	}
}

func TestPatchUserPromote(t *testing.T) {
	srv, fs := adminFixture(t)
	fs.users["auth0|user"] = &models.User{ID: "auth0|user", Email: "user@example.net"}

	rec := doJSON(srv, http.MethodPatch, "/api/admin/users/auth0|user", "admin-tok", `{"is_admin":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !fs.adminUpdates["auth0|user"] {
		t.Error("promotion not recorded")
	}
}

func TestSubmitFeedback(t *testing.T) {
	srv, fs := adminFixture(t)
	fs.users["auth0|user"] = &models.User{ID: "auth0|user", Email: "user@example.net"}

	rec := doJSON(srv, http.MethodPost, "/api/feedback", "user-tok",
		`{"tma_name":"  Boise  ","description":"   "}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	fb := fs.createdFeedback
	if fb == nil {
		t.Fatal("feedback not created")
	}
	if fb.TMAName != "Boise" {
		t.Errorf("TMAName = %q, want trimmed", fb.TMAName)
	}
	if fb.Description != nil {
		t.Error("blank description should be stored as null")
	}
	if fb.UserID != "auth0|user" {
		t.Errorf("UserID = %q", fb.UserID)
	}
	if fb.Status != models.FeedbackStatusPending {
		t.Errorf("Status = %q", fb.Status)
	}
}

func TestSubmitFeedbackEmptyName(t *testing.T) {
	srv, fs := adminFixture(t)
	fs.users["auth0|user"] = &models.User{ID: "auth0|user"}

	rec := doJSON(srv, http.MethodPost, "/api/feedback", "user-tok", `{"tma_name":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func (f *fakeStore) UpdateFeedbackStatus(_ context.Context, id int64, status string) error {
	if f.createdFeedback == nil || f.createdFeedback.ID != id {
		return store.ErrNotFound
	}
	f.createdFeedback.Status = status
	return nil
}

func (f *fakeStore) ListFeedback(_ context.Context, status *string) ([]models.FeedbackWithUser, error) {
	f.lastFeedbackStatus = status
	return []models.FeedbackWithUser{}, nil
}

func TestPatchFeedbackStatus(t *testing.T) {
	srv, fs := adminFixture(t)
	fs.createdFeedback = &models.Feedback{ID: 5, TMAName: "Boise", Status: models.FeedbackStatusPending}

	rec := doJSON(srv, http.MethodPatch, "/api/admin/feedback/5", "admin-tok", `{"status":"approved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if fs.createdFeedback.Status != models.FeedbackStatusApproved {
		t.Errorf("feedback status = %q", fs.createdFeedback.Status)
	}
}

func TestPatchFeedbackInvalidStatus(t *testing.T) {
	srv, fs := adminFixture(t)
	fs.createdFeedback = &models.Feedback{ID: 5, Status: models.FeedbackStatusPending}

	rec := doJSON(srv, http.MethodPatch, "/api/admin/feedback/5", "admin-tok", `{"status":"maybe"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if fs.createdFeedback.Status != models.FeedbackStatusPending {
		t.Error("status must not change on invalid input")
	}
}

func TestListFeedbackStatusFilter(t *testing.T) {
	srv, fs := adminFixture(t)

	rec := doRequest(srv, http.MethodGet, "/api/admin/feedback?status=pending", "admin-tok")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fs.lastFeedbackStatus == nil || *fs.lastFeedbackStatus != models.FeedbackStatusPending {
		t.Errorf("filter = %v", fs.lastFeedbackStatus)
	}

	rec = doRequest(srv, http.MethodGet, "/api/admin/feedback?status=bogus", "admin-tok")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus filter status = %d", rec.Code)
	}
}

func TestUnknownRouteJSON404(t *testing.T) {
	srv := newTestServer(t, newFakeStore(), &fakeProvider{})

	rec := doRequest(srv, http.MethodGet, "/api/nothing/here", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
}
