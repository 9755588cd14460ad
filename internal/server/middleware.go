package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sebbyk/airwaves/internal/idp"
	"github.com/sebbyk/airwaves/internal/metrics"
	"github.com/sebbyk/airwaves/internal/models"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	userKey
)

// claimsFrom returns the verified identity claims attached by authenticated.
func claimsFrom(ctx context.Context) *idp.Claims {
	c, _ := ctx.Value(claimsKey).(*idp.Claims)
	return c
}

// userFrom returns the local user attached by authenticated.
func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// extractBearer returns the token from an "Authorization: Bearer <tok>" header.
func extractBearer(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}

// authenticated gates a handler on a valid bearer token, resolving (or lazily
// creating) the local user and attaching claims and user to the context.
func (s *Server) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r.Header.Get("Authorization"))
		if token == "" {
			writeErr(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		claims, err := s.validator.Validate(r.Context(), token)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := s.directory.ResolveOrCreate(r.Context(), claims)
		if err != nil {
			s.log.Error().Err(err).Msg("resolve user")
			writeErr(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// admin gates a handler on the local is_admin flag. It never contacts the
// identity provider beyond what authenticated already did.
func (s *Server) admin(next http.HandlerFunc) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r.Context())
		if user == nil || !user.IsAdmin {
			writeErr(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS allows the configured frontend origin (plus localhost during
// development) and handles preflight OPTIONS requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (origin == s.cfg.FrontendURL || strings.HasPrefix(origin, "http://localhost:")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// withLogging logs each request with method, path, status, and duration,
// and feeds the request counter.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// withRecovery converts panics into a generic 500; no stack reaches the caller.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic recovered")
				writeErr(w, http.StatusInternalServerError, "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
