package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/geocoder89/bookapi/internal/http/handlers"
)

func TestReadyz(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("no reachable servers") }

	tests := []struct {
		name   string
		checks map[string]handlers.Pinger
		want   int
	}{
		{"all_up", map[string]handlers.Pinger{"store": ok, "redis": ok}, http.StatusOK},
		{"nil_check_skipped", map[string]handlers.Pinger{"store": ok, "redis": nil}, http.StatusOK},
		{"store_down", map[string]handlers.Pinger{"store": down}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.checks)
			r := setupRouter(http.MethodGet, "/readyz", h.Readyz)

			w := doJSON(r, http.MethodGet, "/readyz", "")
			if w.Code != tt.want {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestHome(t *testing.T) {
	h := handlers.NewHealthHandler(nil)
	r := setupRouter(http.MethodGet, "/", h.Home)

	w := doJSON(r, http.MethodGet, "/", "")
	if w.Code != http.StatusOK || w.Body.String() != "BOOKAPI Endpoint Home" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}
