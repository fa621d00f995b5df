package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"401 unwraps to ErrUnauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"403 unwraps to ErrForbidden", http.StatusForbidden, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}

			_, err = client.GetClaims(context.Background())
			if err == nil {
				t.Fatal("GetClaims() succeeded against an error status")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", err)
			}
		})
	}
}

func TestAPIErrorBodyCapture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"url is not reachable"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.StartCheckup(context.Background(), "not-a-url")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", apiErr.Status)
	}
	if apiErr.Body == "" {
		t.Error("Body not captured")
	}
}

func TestSessionCookiePersists(t *testing.T) {
	const cookieName = "session"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "abc123", Path: "/"})
			w.WriteHeader(http.StatusOK)
		case "/auth/claims":
			if c, err := r.Cookie(cookieName); err != nil || c.Value != "abc123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"user":{"user_id":1,"email":"a@b.c"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	if err := client.Login(ctx, LoginData{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := client.GetClaims(ctx)
	if err != nil {
		t.Fatalf("GetClaims after login: %v", err)
	}
	if claims.User.Email != "a@b.c" {
		t.Errorf("claims email = %q, want a@b.c", claims.User.Email)
	}
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"healthy", `{"status":"ok"}`, false},
		{"degraded", `{"status":"degraded"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			client, _ := NewClient(srv.URL)
			err := client.Healthz(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Healthz() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
