package telemetry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Environment exposes the raw signals of the host platform (a browser
// runtime, a webview bridge, or a test double). Every method is allowed to
// fail or panic; the collector degrades each one independently.
type Environment interface {
	UserAgent() string
	Screen() (Screen, error)
	Locale() (Locale, error)
	Technical() (Technical, error)
	CanvasFingerprint() (string, error)
	WebGLFingerprint() (WebGL, error)
	AudioFingerprint() (string, error)
	InstalledFonts() ([]string, error)
	BrowserPlugins() ([]Plugin, error)
	Viewport() (Viewport, error)
}

// Locale is the raw timezone/language probe result.
type Locale struct {
	Timezone       string
	TimezoneOffset int
	Language       string
	Languages      []string
	Locale         string
}

// Viewport is the raw window/document geometry probe result.
type Viewport struct {
	Width          int
	Height         int
	DocumentWidth  int
	DocumentHeight int
}

// ErrPermissionDenied is returned by a GeoProvider when the user refused the
// location prompt.
var ErrPermissionDenied = errors.New("geolocation permission denied")

// Position is a device location fix.
type Position struct {
	Latitude         float64
	Longitude        float64
	Accuracy         *float64
	Altitude         *float64
	AltitudeAccuracy *float64
	Heading          *float64
	Speed            *float64
	Timestamp        time.Time
}

// PositionOptions mirror the browser geolocation request options.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// GeoProvider resolves the current device position. Implementations must
// honor the context deadline.
type GeoProvider interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (*Position, error)
}

// Sentinel written by fingerprint probes that fail.
const unavailable = "unavailable"

// DefaultGeoTimeout bounds the one asynchronous sub-collector. Low accuracy
// and a short deadline keep form submission responsive.
const DefaultGeoTimeout = 3 * time.Second

// defaultMaximumAge accepts a cached position up to one minute old.
const defaultMaximumAge = time.Minute

// result is the tagged outcome of a single sub-collector: a usable value, or
// the fallback plus the reason it degraded.
type result[T any] struct {
	value  T
	ok     bool
	reason string
}

// run executes one probe, converting errors and panics into the fallback.
// No sub-collector failure ever propagates to the caller.
func run[T any](fallback T, fn func() (T, error)) (res result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = result[T]{value: fallback, reason: fmt.Sprint(r)}
		}
	}()
	v, err := fn()
	if err != nil {
		return result[T]{value: fallback, reason: err.Error()}
	}
	return result[T]{value: v, ok: true}
}

// Collector produces telemetry snapshots. The synchronous probes run first
// and never fail collection; the geolocation request runs last under a
// deadline, so Collect always returns within GeoTimeout plus probe time.
type Collector struct {
	env     Environment
	geo     GeoProvider
	session *Session
	visits  VisitStore

	// GeoTimeout overrides DefaultGeoTimeout when positive.
	GeoTimeout time.Duration

	now func() time.Time
}

// NewCollector wires a collector to its host environment. geo may be nil when
// the platform has no location capability; the snapshot then reports
// permissionStatus "unsupported".
func NewCollector(env Environment, geo GeoProvider, session *Session, visits VisitStore) *Collector {
	return &Collector{
		env:     env,
		geo:     geo,
		session: session,
		visits:  visits,
		now:     time.Now,
	}
}

// Collect builds one Record. It never returns an error: every sub-collector
// degrades to "unknown"/"unavailable"/null values on failure.
func (c *Collector) Collect(ctx context.Context) Record {
	ua := run("", func() (string, error) { return c.env.UserAgent(), nil }).value

	screen := run(fallbackScreen(), c.env.Screen)
	locale := run(fallbackLocale(), c.env.Locale)
	technical := run(fallbackTechnical(), c.env.Technical)
	viewport := run(Viewport{}, c.env.Viewport)

	canvas := run(unavailable, c.env.CanvasFingerprint)
	webgl := run(WebGL{Renderer: unavailable, Vendor: unavailable}, c.env.WebGLFingerprint)
	audio := run(unavailable, c.env.AudioFingerprint)
	fonts := run([]string{}, c.env.InstalledFonts)
	plugins := run([]Plugin{}, c.env.BrowserPlugins)

	behavioral := c.collectBehavioral()
	gps := c.collectGPS(ctx)

	browserName, browserVersion := parseBrowser(ua)

	return Record{
		DeviceBrowser: DeviceBrowser{
			BrowserName:     browserName,
			BrowserVersion:  browserVersion,
			OperatingSystem: parseOS(ua),
			DeviceType:      parseDeviceType(ua),
			UserAgent:       ua,
			Screen:          screen.value,
		},
		LocationLanguage: LocationLanguage{
			Timezone:       locale.value.Timezone,
			TimezoneOffset: locale.value.TimezoneOffset,
			Language:       locale.value.Language,
			Languages:      locale.value.Languages,
			Locale:         locale.value.Locale,
			// Placeholders; the server overwrites these from the source IP.
			Country:     "detected-by-backend",
			City:        "detected-by-backend",
			GPSLocation: gps,
		},
		Technical:  technical.value,
		Behavioral: behavioral,
		Fingerprint: Fingerprint{
			Canvas:  canvas.value,
			WebGL:   webgl.value,
			Audio:   audio.value,
			Fonts:   fonts.value,
			Plugins: plugins.value,
		},
		Metadata: Metadata{
			CollectionTimestamp: c.now().UTC().Format(time.RFC3339),
			ViewportWidth:       viewport.value.Width,
			ViewportHeight:      viewport.value.Height,
			DocumentWidth:       viewport.value.DocumentWidth,
			DocumentHeight:      viewport.value.DocumentHeight,
			BatteryLevel:        "request-permission",
			NetworkInformation:  technical.value.ConnectionType,
		},
	}
}

func (c *Collector) collectBehavioral() Behavioral {
	pages, currentURL, maxScroll := c.session.snapshot()
	seconds := int(c.session.Duration().Round(time.Second).Seconds())
	return Behavioral{
		PagesVisited:           pages,
		SessionDuration:        fmt.Sprintf("%dm %ds", seconds/60, seconds%60),
		SessionDurationSeconds: seconds,
		Referrer:               c.session.referrer,
		CurrentURL:             currentURL,
		MaxScrollDepth:         maxScroll,
		NumberOfVisits:         c.visits.VisitCount(),
		IsReturningVisitor:     c.visits.HasVisited(),
	}
}

// collectGPS is the only suspension point in a collection. It resolves with
// a permission status instead of failing, whatever the provider does.
func (c *Collector) collectGPS(ctx context.Context) GPSLocation {
	if c.geo == nil {
		msg := "Geolocation not supported"
		return GPSLocation{
			PermissionStatus: PermissionUnsupported,
			ErrorMessage:     &msg,
		}
	}

	timeout := c.GeoTimeout
	if timeout <= 0 {
		timeout = DefaultGeoTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pos, err := c.geo.CurrentPosition(ctx, PositionOptions{
		HighAccuracy: false,
		Timeout:      timeout,
		MaximumAge:   defaultMaximumAge,
	})
	if err != nil {
		status := PermissionError
		if errors.Is(err, ErrPermissionDenied) {
			status = PermissionDenied
		}
		msg := err.Error()
		ts := c.now().UTC().Format(time.RFC3339)
		return GPSLocation{
			Timestamp:        &ts,
			PermissionStatus: status,
			ErrorMessage:     &msg,
		}
	}

	ts := pos.Timestamp.UTC().Format(time.RFC3339)
	return GPSLocation{
		Coordinates: Coordinates{
			Latitude:  &pos.Latitude,
			Longitude: &pos.Longitude,
		},
		Accuracy:         pos.Accuracy,
		Altitude:         pos.Altitude,
		AltitudeAccuracy: pos.AltitudeAccuracy,
		Heading:          pos.Heading,
		Speed:            pos.Speed,
		Timestamp:        &ts,
		PermissionStatus: PermissionGranted,
	}
}

func fallbackScreen() Screen {
	return Screen{PixelRatio: 1, Orientation: "unknown"}
}

func fallbackLocale() Locale {
	return Locale{
		Timezone: "unknown",
		Language: "unknown",
		Locale:   "unknown",
	}
}

func fallbackTechnical() Technical {
	return Technical{
		DoNotTrack:          "unknown",
		ConnectionType:      "unknown",
		ConnectionDownlink:  "unknown",
		ConnectionRtt:       "unknown",
		HardwareConcurrency: "unknown",
		DeviceMemory:        "unknown",
	}
}

var (
	reFirefox = regexp.MustCompile(`Firefox/(\d+\.\d+)`)
	reEdge    = regexp.MustCompile(`Edg/(\d+\.\d+)`)
	reChrome  = regexp.MustCompile(`Chrome/(\d+\.\d+)`)
	reSafari  = regexp.MustCompile(`Version/(\d+\.\d+)`)
	reOpera   = regexp.MustCompile(`(?:Opera|OPR)/(\d+\.\d+)`)

	reMobile = regexp.MustCompile(`Mobile|Android|iP(hone|od)|IEMobile|BlackBerry|Kindle|Silk-Accelerated|(hpw|web)OS|Opera M(obi|ini)`)
)

func parseBrowser(ua string) (name, version string) {
	name, version = "Unknown", "Unknown"

	var re *regexp.Regexp
	switch {
	case strings.Contains(ua, "Firefox"):
		name, re = "Firefox", reFirefox
	case strings.Contains(ua, "Edg"):
		name, re = "Edge", reEdge
	case strings.Contains(ua, "Chrome"):
		name, re = "Chrome", reChrome
	case strings.Contains(ua, "Safari"):
		name, re = "Safari", reSafari
	case strings.Contains(ua, "Opera") || strings.Contains(ua, "OPR"):
		name, re = "Opera", reOpera
	default:
		return name, version
	}
	if m := re.FindStringSubmatch(ua); m != nil {
		version = m[1]
	}
	return name, version
}

func parseOS(ua string) string {
	switch {
	case strings.Contains(ua, "Win"):
		return "Windows"
	case strings.Contains(ua, "Mac"):
		return "macOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "iOS"), strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"):
		return "iOS"
	}
	return "Unknown"
}

func parseDeviceType(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "tablet"),
		strings.Contains(lower, "ipad"),
		strings.Contains(lower, "playbook"),
		strings.Contains(lower, "silk"),
		strings.Contains(lower, "android") && !strings.Contains(lower, "mobi"):
		return "Tablet"
	case reMobile.MatchString(ua):
		return "Mobile"
	}
	return "Desktop"
}
