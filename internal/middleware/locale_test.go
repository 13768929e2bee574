package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name           string
		xLocale        string
		acceptLanguage string
		want           string
	}{
		{"explicit header wins", "es", "pt-BR", "es"},
		{"accept language", "", "pt-BR,pt;q=0.9,en;q=0.8", "pt"},
		{"unsupported falls back", "", "xx", "en"},
		{"no headers", "", "", "en"},
		{"indonesian", "", "id-ID", "id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.xLocale != "" {
				req.Header.Set("X-Locale", tc.xLocale)
			}
			if tc.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tc.acceptLanguage)
			}
			if got := detectLocale(req, "en"); got != tc.want {
				t.Fatalf("detectLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveCountry(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-IPCountry", "de")
	if got := ResolveCountry(req, nil); got != "DE" {
		t.Fatalf("ResolveCountry() = %q, want %q", got, "DE")
	}

	lookup := func(ip string) (string, error) {
		if ip == "203.0.113.1" {
			return "BR", nil
		}
		return "", errors.New("unknown ip")
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.1:443"
	if got := ResolveCountry(req, lookup); got != "BR" {
		t.Fatalf("ResolveCountry() = %q, want %q", got, "BR")
	}

	req.RemoteAddr = "198.51.100.7:443"
	if got := ResolveCountry(req, lookup); got != "" {
		t.Fatalf("ResolveCountry() = %q, want empty on lookup failure", got)
	}
}

func TestLocaleMiddleware(t *testing.T) {
	var gotLocale, gotCountry string
	handler := Locale("en", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = LocaleFromContext(r.Context())
		gotCountry = CountryFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "es-MX")
	req.Header.Set("X-Country-Code", "mx")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotLocale != "es" {
		t.Fatalf("locale = %q, want %q", gotLocale, "es")
	}
	if gotCountry != "MX" {
		t.Fatalf("country = %q, want %q", gotCountry, "MX")
	}
	if hdr := rec.Header().Get("Content-Language"); hdr != "es" {
		t.Fatalf("Content-Language = %q, want %q", hdr, "es")
	}
}
