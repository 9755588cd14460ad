package server

import (
	"net/http"
	"strings"

	"github.com/sebbyk/airwaves/internal/models"
	"github.com/sebbyk/airwaves/internal/store"
)

// --- markets ---

type tmaStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handlePatchTMA(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid TMA id")
		return
	}
	var req tmaStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !models.ValidTMAStatus(req.Status) {
		writeErr(w, http.StatusBadRequest, "status must be one of not_implemented, in_progress, complete")
		return
	}
	if err := s.store.UpdateTMAStatus(r.Context(), id, req.Status); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	tma, err := s.store.GetTMA(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tma)
}

// --- stations ---

type stationRequest struct {
	Callsign       string  `json:"callsign"`
	StationNumber  int     `json:"station_number"`
	MarketingName  string  `json:"marketing_name"`
	LogoURL        *string `json:"logo_url"`
	TMAID          int64   `json:"tma_id"`
	StationGroupID *int64  `json:"station_group_id"`
}

func (s *Server) handleCreateStation(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Callsign = strings.TrimSpace(req.Callsign)
	if req.Callsign == "" || req.MarketingName == "" {
		writeErr(w, http.StatusBadRequest, "callsign and marketing_name are required")
		return
	}
	if req.StationNumber <= 0 {
		writeErr(w, http.StatusBadRequest, "station_number must be positive")
		return
	}
	if req.TMAID <= 0 {
		writeErr(w, http.StatusBadRequest, "tma_id is required")
		return
	}

	st := &models.Station{
		Callsign:       req.Callsign,
		StationNumber:  req.StationNumber,
		MarketingName:  req.MarketingName,
		LogoURL:        req.LogoURL,
		TMAID:          req.TMAID,
		StationGroupID: req.StationGroupID,
	}
	id, err := s.store.CreateStation(r.Context(), st)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	created, err := s.store.GetStation(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid station id")
		return
	}
	var fields store.StationUpdate
	if !decodeJSON(w, r, &fields) {
		return
	}
	if fields.Callsign != nil && strings.TrimSpace(*fields.Callsign) == "" {
		writeErr(w, http.StatusBadRequest, "callsign cannot be empty")
		return
	}
	if fields.StationNumber != nil && *fields.StationNumber <= 0 {
		writeErr(w, http.StatusBadRequest, "station_number must be positive")
		return
	}
	if err := s.store.UpdateStation(r.Context(), id, fields); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	updated, err := s.store.GetStation(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid station id")
		return
	}
	if err := s.store.DeleteStation(r.Context(), id); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- substations ---

type substationRequest struct {
	StationID      *int64 `json:"station_id"`
	StationGroupID *int64 `json:"station_group_id"`
	Number         int    `json:"number"`
	MarketingName  string `json:"marketing_name"`
	MajorNetworkID *int64 `json:"major_network_id"`
}

func (s *Server) handleCreateSubstation(w http.ResponseWriter, r *http.Request) {
	var req substationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	owner, err := models.OwnerFromIDs(req.StationID, req.StationGroupID)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Number <= 0 {
		writeErr(w, http.StatusBadRequest, "number must be positive")
		return
	}
	if req.MarketingName == "" {
		writeErr(w, http.StatusBadRequest, "marketing_name is required")
		return
	}

	sub := &models.Substation{
		Number:         req.Number,
		MarketingName:  req.MarketingName,
		MajorNetworkID: req.MajorNetworkID,
	}
	id, err := s.store.CreateSubstation(r.Context(), sub, owner)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	created, err := s.store.GetSubstation(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSubstation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid substation id")
		return
	}
	var fields store.SubstationUpdate
	if !decodeJSON(w, r, &fields) {
		return
	}
	if fields.Number != nil && *fields.Number <= 0 {
		writeErr(w, http.StatusBadRequest, "number must be positive")
		return
	}
	if fields.MarketingName != nil && *fields.MarketingName == "" {
		writeErr(w, http.StatusBadRequest, "marketing_name cannot be empty")
		return
	}
	if err := s.store.UpdateSubstation(r.Context(), id, fields); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	updated, err := s.store.GetSubstation(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSubstation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid substation id")
		return
	}
	if err := s.store.DeleteSubstation(r.Context(), id); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- networks ---

type networkRequest struct {
	ShortName string  `json:"short_name"`
	LongName  string  `json:"long_name"`
	LogoURL   *string `json:"logo_url"`
}

func (s *Server) handleCreateNetwork(w http.ResponseWriter, r *http.Request) {
	var req networkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ShortName == "" || req.LongName == "" {
		writeErr(w, http.StatusBadRequest, "short_name and long_name are required")
		return
	}

	n := &models.MajorNetwork{
		ShortName: req.ShortName,
		LongName:  req.LongName,
		LogoURL:   req.LogoURL,
	}
	id, err := s.store.CreateNetwork(r.Context(), n)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	created, err := s.store.GetNetwork(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateNetwork(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid network id")
		return
	}
	var fields store.NetworkUpdate
	if !decodeJSON(w, r, &fields) {
		return
	}
	if fields.ShortName != nil && *fields.ShortName == "" {
		writeErr(w, http.StatusBadRequest, "short_name cannot be empty")
		return
	}
	if fields.LongName != nil && *fields.LongName == "" {
		writeErr(w, http.StatusBadRequest, "long_name cannot be empty")
		return
	}
	if err := s.store.UpdateNetwork(r.Context(), id, fields); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	updated, err := s.store.GetNetwork(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteNetwork(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid network id")
		return
	}
	if err := s.store.DeleteNetwork(r.Context(), id); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- station groups ---

type stationGroupRequest struct {
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url"`
}

func (s *Server) handleGetStationGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid station group id")
		return
	}
	detail, err := s.resolver.StationGroupDetail(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCreateStationGroup(w http.ResponseWriter, r *http.Request) {
	var req stationGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeErr(w, http.StatusBadRequest, "name is required")
		return
	}

	g := &models.StationGroup{Name: req.Name, LogoURL: req.LogoURL}
	id, err := s.store.CreateStationGroup(r.Context(), g)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	created, err := s.store.GetStationGroup(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStationGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid station group id")
		return
	}
	var fields store.StationGroupUpdate
	if !decodeJSON(w, r, &fields) {
		return
	}
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		writeErr(w, http.StatusBadRequest, "name cannot be empty")
		return
	}
	if err := s.store.UpdateStationGroup(r.Context(), id, fields); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	updated, err := s.store.GetStationGroup(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStationGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid station group id")
		return
	}
	if err := s.store.DeleteStationGroup(r.Context(), id); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- users ---

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

type userPatchRequest struct {
	IsAdmin *bool `json:"is_admin"`
}

func (s *Server) handlePatchUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeErr(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req userPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IsAdmin == nil {
		writeErr(w, http.StatusBadRequest, "is_admin is required")
		return
	}
	// An admin cannot remove their own admin flag; another admin must do it.
	if caller := userFrom(r.Context()); caller != nil && caller.ID == id && !*req.IsAdmin {
		writeErr(w, http.StatusBadRequest, "You cannot revoke your own admin access")
		return
	}
	if err := s.store.SetUserAdmin(r.Context(), id, *req.IsAdmin); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// --- feedback moderation ---

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	var status *string
	if v := r.URL.Query().Get("status"); v != "" {
		if !models.ValidFeedbackStatus(v) {
			writeErr(w, http.StatusBadRequest, "status must be one of pending, approved, rejected")
			return
		}
		status = &v
	}
	items, err := s.store.ListFeedback(r.Context(), status)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	if items == nil {
		items = []models.FeedbackWithUser{}
	}
	writeJSON(w, http.StatusOK, items)
}

type feedbackStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handlePatchFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid feedback id")
		return
	}
	var req feedbackStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !models.ValidFeedbackStatus(req.Status) {
		writeErr(w, http.StatusBadRequest, "status must be one of pending, approved, rejected")
		return
	}
	if err := s.store.UpdateFeedbackStatus(r.Context(), id, req.Status); err != nil {
		s.writeStoreErr(w, err)
		return
	}
	fb, err := s.store.GetFeedback(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}
