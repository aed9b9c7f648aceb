package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"

	"portfolio-api/telemetry"
)

// GeoData is the coarse location resolved for a source address.
type GeoData struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Region  string `json:"region"`
	ISP     string `json:"isp"`
}

func unknownGeoData() GeoData {
	return GeoData{Country: "Unknown", City: "Unknown", Region: "Unknown", ISP: "Unknown"}
}

// normalizeIP strips the IPv6-mapped-IPv4 prefix so lookups and rate-limiter
// keys see the plain IPv4 form.
func normalizeIP(ip string) string {
	return strings.TrimPrefix(strings.TrimSpace(ip), "::ffff:")
}

// GeoResolver resolves a normalized address to coarse location metadata.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) (GeoData, error)
}

// ipAPIResolver queries an ip-api.com style endpoint. The HTTP client carries
// its own timeout so a slow lookup can never stall a submission beyond it.
type ipAPIResolver struct {
	baseURL string
	client  *http.Client
}

const geoLookupTimeout = 5 * time.Second

func newIPAPIResolver(baseURL string) *ipAPIResolver {
	if baseURL == "" {
		baseURL = "http://ip-api.com/json"
	}
	return &ipAPIResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: geoLookupTimeout},
	}
}

func (r *ipAPIResolver) Resolve(ctx context.Context, ip string) (GeoData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/"+ip, nil)
	if err != nil {
		return GeoData{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return GeoData{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeoData{}, fmt.Errorf("geolocation lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Status     string `json:"status"`
		Country    string `json:"country"`
		City       string `json:"city"`
		RegionName string `json:"regionName"`
		ISP        string `json:"isp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return GeoData{}, err
	}
	if body.Status != "success" {
		return GeoData{}, fmt.Errorf("geolocation lookup status %q", body.Status)
	}

	return GeoData{
		Country: orUnknown(body.Country),
		City:    orUnknown(body.City),
		Region:  orUnknown(body.RegionName),
		ISP:     orUnknown(body.ISP),
	}, nil
}

// maxmindResolver answers from local MaxMind databases instead of the remote
// service. The City database is required; the ASN database fills in the
// network operator when present.
type maxmindResolver struct {
	city *geoip2.Reader
	asn  *geoip2.Reader
}

func newMaxmindResolver(cityPath, asnPath string) (*maxmindResolver, error) {
	city, err := geoip2.Open(cityPath)
	if err != nil {
		return nil, fmt.Errorf("open city database: %w", err)
	}

	var asn *geoip2.Reader
	if asnPath != "" {
		asn, err = geoip2.Open(asnPath)
		if err != nil {
			city.Close()
			return nil, fmt.Errorf("open asn database: %w", err)
		}
	}
	return &maxmindResolver{city: city, asn: asn}, nil
}

func (r *maxmindResolver) Resolve(_ context.Context, ipStr string) (GeoData, error) {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return GeoData{}, fmt.Errorf("invalid ip address: %s", ipStr)
	}

	record, err := r.city.City(ip)
	if err != nil {
		return GeoData{}, err
	}

	data := GeoData{
		Country: orUnknown(record.Country.Names["en"]),
		City:    orUnknown(record.City.Names["en"]),
		Region:  "Unknown",
		ISP:     "Unknown",
	}
	if len(record.Subdivisions) > 0 {
		data.Region = orUnknown(record.Subdivisions[0].Names["en"])
	}
	if r.asn != nil {
		if a, err := r.asn.ASN(ip); err == nil {
			data.ISP = orUnknown(a.AutonomousSystemOrganization)
		}
	}
	return data, nil
}

func (r *maxmindResolver) Close() {
	r.city.Close()
	if r.asn != nil {
		r.asn.Close()
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// Enricher overlays server-resolved location onto a submission's telemetry.
// It runs inside the request, before persistence, and degrades to "Unknown"
// values instead of failing: enrichment never blocks a submission.
type Enricher struct {
	resolver GeoResolver
	timeout  time.Duration
}

func newEnricher(resolver GeoResolver) *Enricher {
	return &Enricher{resolver: resolver, timeout: geoLookupTimeout}
}

// Lookup resolves the address under a deadline. Any failure, timeout, or
// non-success response yields the Unknown fallback.
func (e *Enricher) Lookup(ctx context.Context, ip string) GeoData {
	if e.resolver == nil || ip == "" || ip == "Unknown" {
		return unknownGeoData()
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	data, err := e.resolver.Resolve(ctx, ip)
	if err != nil {
		log.Printf("Geolocation fetch failed: %v", err)
		return unknownGeoData()
	}
	return data
}

// Enrich resolves the address and overwrites the client-supplied placeholder
// fields. Server-resolved values always win.
func (e *Enricher) Enrich(ctx context.Context, ip string, record *telemetry.Record) GeoData {
	geo := e.Lookup(ctx, ip)
	if record != nil {
		record.LocationLanguage.Country = geo.Country
		record.LocationLanguage.City = geo.City
		record.LocationLanguage.Region = geo.Region
		record.LocationLanguage.ISP = geo.ISP
	}
	return geo
}
