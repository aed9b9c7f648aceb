package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-api/telemetry"
)

func geoSuccessServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"status":     "success",
			"country":    "Germany",
			"city":       "Berlin",
			"regionName": "Berlin",
			"isp":        "Acme Telecom",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNormalizeIP(t *testing.T) {
	tests := []struct{ in, want string }{
		{"::ffff:203.0.113.9", "203.0.113.9"},
		{"203.0.113.9", "203.0.113.9"},
		{"  ::ffff:10.0.0.1 ", "10.0.0.1"},
		{"2001:db8::1", "2001:db8::1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeIP(tt.in); got != tt.want {
			t.Errorf("normalizeIP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIPAPIResolverSuccess(t *testing.T) {
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{
			"status":     "success",
			"country":    "Germany",
			"city":       "Berlin",
			"regionName": "Berlin",
			"isp":        "Acme Telecom",
		})
	}))
	defer srv.Close()

	resolver := newIPAPIResolver(srv.URL)
	data, err := resolver.Resolve(context.Background(), "203.0.113.9")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if requestedPath != "/203.0.113.9" {
		t.Errorf("requested path = %q, want /203.0.113.9", requestedPath)
	}
	want := GeoData{Country: "Germany", City: "Berlin", Region: "Berlin", ISP: "Acme Telecom"}
	if data != want {
		t.Errorf("Resolve = %+v, want %+v", data, want)
	}
}

func TestIPAPIResolverFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "fail", "message": "private range"})
	}))
	defer srv.Close()

	if _, err := newIPAPIResolver(srv.URL).Resolve(context.Background(), "10.0.0.1"); err == nil {
		t.Fatal("Resolve returned nil error for a failed lookup")
	}
}

func TestIPAPIResolverHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newIPAPIResolver(srv.URL).Resolve(context.Background(), "203.0.113.9"); err == nil {
		t.Fatal("Resolve returned nil error for a 503 response")
	}
}

func TestIPAPIResolverBlankFieldsBecomeUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "country": "Germany"})
	}))
	defer srv.Close()

	data, err := newIPAPIResolver(srv.URL).Resolve(context.Background(), "203.0.113.9")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if data.City != "Unknown" || data.Region != "Unknown" || data.ISP != "Unknown" {
		t.Errorf("blank fields = %+v, want Unknown fallbacks", data)
	}
}

func TestEnricherLookupFallsBackToUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := newEnricher(newIPAPIResolver(srv.URL))
	if got := e.Lookup(context.Background(), "203.0.113.9"); got != unknownGeoData() {
		t.Errorf("Lookup = %+v, want all-Unknown fallback", got)
	}
}

func TestEnricherLookupWithoutResolver(t *testing.T) {
	e := newEnricher(nil)
	if got := e.Lookup(context.Background(), "203.0.113.9"); got != unknownGeoData() {
		t.Errorf("Lookup = %+v, want all-Unknown fallback", got)
	}
	if got := e.Lookup(context.Background(), ""); got != unknownGeoData() {
		t.Errorf("Lookup of empty address = %+v, want all-Unknown fallback", got)
	}
}

func TestEnricherLookupTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	e := newEnricher(newIPAPIResolver(srv.URL))
	e.timeout = 50 * time.Millisecond

	start := time.Now()
	got := e.Lookup(context.Background(), "203.0.113.9")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Lookup took %v, want bounded by the timeout", elapsed)
	}
	if got != unknownGeoData() {
		t.Errorf("Lookup = %+v, want all-Unknown fallback", got)
	}
}

func TestEnrichOverwritesClientPlaceholders(t *testing.T) {
	srv := geoSuccessServer(t)
	e := newEnricher(newIPAPIResolver(srv.URL))

	record := &telemetry.Record{}
	record.LocationLanguage.Country = "detected-by-backend"
	record.LocationLanguage.City = "detected-by-backend"

	e.Enrich(context.Background(), "203.0.113.9", record)

	if record.LocationLanguage.Country != "Germany" {
		t.Errorf("Country = %q, want %q", record.LocationLanguage.Country, "Germany")
	}
	if record.LocationLanguage.City != "Berlin" {
		t.Errorf("City = %q, want %q", record.LocationLanguage.City, "Berlin")
	}
	if record.LocationLanguage.Region != "Berlin" {
		t.Errorf("Region = %q, want %q", record.LocationLanguage.Region, "Berlin")
	}
	if record.LocationLanguage.ISP != "Acme Telecom" {
		t.Errorf("ISP = %q, want %q", record.LocationLanguage.ISP, "Acme Telecom")
	}
}

func TestEnrichToleratesNilRecord(t *testing.T) {
	srv := geoSuccessServer(t)
	e := newEnricher(newIPAPIResolver(srv.URL))

	got := e.Enrich(context.Background(), "203.0.113.9", nil)
	if got.Country != "Germany" {
		t.Errorf("Country = %q, want %q", got.Country, "Germany")
	}
}

func TestOrUnknown(t *testing.T) {
	if got := orUnknown(""); got != "Unknown" {
		t.Errorf("orUnknown(\"\") = %q", got)
	}
	if got := orUnknown("Berlin"); got != "Berlin" {
		t.Errorf("orUnknown(\"Berlin\") = %q", got)
	}
}
