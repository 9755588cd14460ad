package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			t.Errorf("path = %q", r.URL.Path)
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			json.NewEncoder(w).Encode(map[string]string{
				"sub":          "auth0|alice",
				"email":        "alice@example.net",
				"given_name":   "Alice",
				"access_level": "admin",
			})
		case "Bearer no-subject":
			json.NewEncoder(w).Encode(map[string]string{"email": "ghost@example.net"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "cid", "secret") // trailing slash must be tolerated
	ctx := context.Background()

	claims, err := c.UserInfo(ctx, "good-token")
	if err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if claims.Subject != "auth0|alice" || claims.Email != "alice@example.net" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := c.UserInfo(ctx, "bad-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("rejected token: err = %v, want ErrInvalidToken", err)
	}

	// A 200 without a subject claim is still not a valid identity.
	if _, err := c.UserInfo(ctx, "no-subject"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty sub: err = %v, want ErrInvalidToken", err)
	}
}

func TestRevokeSendsForm(t *testing.T) {
	var gotToken, gotClientID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/revoke" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		r.ParseForm()
		gotToken = r.PostFormValue("token")
		gotClientID = r.PostFormValue("client_id")
	}))
	defer srv.Close()

	c := New(srv.URL, "cid", "secret")
	if err := c.Revoke(context.Background(), "tok-x"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if gotToken != "tok-x" || gotClientID != "cid" {
		t.Errorf("form = token:%q client_id:%q", gotToken, gotClientID)
	}
}

func TestRevokeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "cid", "")
	if err := c.Revoke(context.Background(), "tok-x"); err == nil {
		t.Error("expected error for provider 500")
	}
}

func TestAuthCodeURL(t *testing.T) {
	c := New("https://auth.example.net", "cid", "")
	u := c.AuthCodeURL("state-1", "verifier-verifier-verifier-verifier-43chars", "https://app.example.net/callback")

	for _, want := range []string{
		"https://auth.example.net/authorize?",
		"client_id=cid",
		"code_challenge_method=S256",
		"state=state-1",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("url %q missing %q", u, want)
		}
	}
}
