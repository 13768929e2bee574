package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&domain.ValidationError{Field: "handle", Message: "bad"}, http.StatusBadRequest},
		{domain.ErrMissingEmail, http.StatusBadRequest},
		{domain.ErrSelfDonation, http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrHandleTaken, http.StatusConflict},
		{domain.ErrAlreadyOnboarded, http.StatusConflict},
		{domain.ErrNotOnboarded, http.StatusConflict},
		{domain.ErrDuplicateIdentity, http.StatusConflict},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{domain.ErrIdentityProvider, http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", domain.ErrHandleTaken), http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got, _ := statusForError(tc.err); got != tc.want {
			t.Fatalf("statusForError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorHidesInternals(t *testing.T) {
	app := &App{Log: zerolog.Nop()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)

	app.error(rec, req, fmt.Errorf("pq: secret table missing"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "internal error" {
		t.Fatalf("error body = %q, want generic message", body.Error)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	app := &App{Log: zerolog.Nop()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/donations", strings.NewReader(`{"nope": true}`))

	var dst donationRequest
	if app.decode(rec, req, &dst) {
		t.Fatal("decode accepted an unknown field")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthWithoutPool(t *testing.T) {
	app := &App{Log: zerolog.Nop()}
	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %q, want ok", body["status"])
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/profiles?page=3&page_size=junk", nil)
	if got := queryInt(req, "page", 1); got != 3 {
		t.Fatalf("page = %d, want 3", got)
	}
	if got := queryInt(req, "page_size", 10); got != 10 {
		t.Fatalf("page_size = %d, want fallback 10", got)
	}
	if got := queryInt(req, "missing", 7); got != 7 {
		t.Fatalf("missing = %d, want fallback 7", got)
	}
}
