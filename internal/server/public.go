package server

import (
	"net/http"

	"github.com/sebbyk/airwaves/internal/models"
	"github.com/sebbyk/airwaves/internal/store"
)

// --- markets ---

func (s *Server) handleListTMAs(w http.ResponseWriter, r *http.Request) {
	tmas, err := s.store.ListTMAs(r.Context())
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	if tmas == nil {
		tmas = []models.TMA{}
	}
	writeJSON(w, http.StatusOK, tmas)
}

func (s *Server) handleGetTMA(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid TMA id")
		return
	}
	tma, err := s.store.GetTMA(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tma)
}

func (s *Server) handleTMAStations(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid TMA id")
		return
	}
	tma, err := s.store.GetTMA(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	stations, err := s.store.ListStationsByTMA(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	if stations == nil {
		stations = []models.StationWithTMA{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tma":      tma,
		"stations": stations,
	})
}

// --- stations ---

func (s *Server) handleSearchStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.StationFilter{Query: q.Get("q")}
	if v := q.Get("tma_id"); v != "" {
		id, ok := parseQueryID(v)
		if !ok {
			writeErr(w, http.StatusBadRequest, "Invalid tma_id")
			return
		}
		filter.TMAID = &id
	}

	stations, err := s.store.SearchStations(r.Context(), filter)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	if stations == nil {
		stations = []models.StationWithTMA{}
	}
	writeJSON(w, http.StatusOK, stations)
}

func (s *Server) handleGetStation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid station id")
		return
	}
	detail, err := s.resolver.StationDetail(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// --- station groups ---

func (s *Server) handleListStationGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListStationGroups(r.Context())
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	if groups == nil {
		groups = []models.StationGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

// --- networks ---

func (s *Server) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	networks, err := s.store.ListNetworks(r.Context())
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	if networks == nil {
		networks = []models.NetworkWithCount{}
	}
	writeJSON(w, http.StatusOK, networks)
}

func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "Invalid network id")
		return
	}
	detail, err := s.resolver.NetworkDetail(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
