package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/sebbyk/airwaves/internal/models"
)

// --- OAuth proxy ---
//
// The SPA drives the PKCE flow against the provider directly for the
// authorize redirect, but code exchange, refresh, and revocation go through
// these endpoints so the client secret never ships to the browser.

type tokenRequest struct {
	Code        string `json:"code"`
	Verifier    string `json:"code_verifier"`
	RedirectURI string `json:"redirect_uri"`
}

func (s *Server) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" || req.Verifier == "" || req.RedirectURI == "" {
		writeErr(w, http.StatusBadRequest, "code, code_verifier, and redirect_uri are required")
		return
	}

	tok, err := s.idp.Exchange(r.Context(), req.Code, req.Verifier, req.RedirectURI)
	if err != nil {
		s.log.Warn().Err(err).Msg("code exchange failed")
		writeErr(w, http.StatusUnauthorized, "Authorization code exchange failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  tok.AccessToken,
		"refresh_token": tok.RefreshToken,
		"token_type":    tok.TokenType,
		"expires_in":    int(time.Until(tok.Expiry).Seconds()),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleAuthRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		writeErr(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	tok, err := s.idp.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("token refresh failed")
		writeErr(w, http.StatusUnauthorized, "Token refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  tok.AccessToken,
		"refresh_token": tok.RefreshToken,
		"token_type":    tok.TokenType,
		"expires_in":    int(time.Until(tok.Expiry).Seconds()),
	})
}

type revokeRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleAuthRevoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeErr(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := s.idp.Revoke(r.Context(), req.Token); err != nil {
		s.log.Warn().Err(err).Msg("token revocation failed")
	}
	// Drop any cached validation so the token dies immediately, not at TTL.
	s.validator.Forget(r.Context(), req.Token)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- authenticated user ---

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

// --- feedback ---

type feedbackRequest struct {
	TMAName     string  `json:"tma_name"`
	Description *string `json:"description"`
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.TMAName)
	if name == "" {
		writeErr(w, http.StatusBadRequest, "tma_name is required")
		return
	}
	var desc *string
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			desc = &d
		}
	}

	user := userFrom(r.Context())
	fb := &models.Feedback{
		UserID:      user.ID,
		TMAName:     name,
		Description: desc,
	}
	id, err := s.store.CreateFeedback(r.Context(), fb)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	created, err := s.store.GetFeedback(r.Context(), id)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleMyFeedback(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	items, err := s.store.ListFeedbackByUser(r.Context(), user.ID)
	if err != nil {
		s.writeStoreErr(w, err)
		return
	}
	if items == nil {
		items = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, items)
}
