// Package telemetry collects device, locale, technical, fingerprint,
// geolocation and behavioral signals into a single record that rides along
// with a contact form submission.
package telemetry

// Record is one telemetry snapshot. It is built fresh per submission attempt
// and embedded under the "trackingData" key of the contact payload. The
// country/city/region/isp fields of LocationLanguage are placeholders on the
// client; the server overwrites them after IP geolocation.
type Record struct {
	DeviceBrowser    DeviceBrowser    `json:"deviceBrowser"`
	LocationLanguage LocationLanguage `json:"locationLanguage"`
	Technical        Technical        `json:"technical"`
	Fingerprint      Fingerprint      `json:"fingerprint"`
	Behavioral       Behavioral       `json:"behavioral"`
	Metadata         Metadata         `json:"metadata"`
}

type DeviceBrowser struct {
	BrowserName     string `json:"browserName"`
	BrowserVersion  string `json:"browserVersion"`
	OperatingSystem string `json:"operatingSystem"`
	DeviceType      string `json:"deviceType"`
	UserAgent       string `json:"userAgent"`
	Screen          Screen `json:"screen"`
}

type Screen struct {
	Width       int     `json:"screenWidth"`
	Height      int     `json:"screenHeight"`
	Resolution  string  `json:"screenResolution"`
	AvailWidth  int     `json:"availWidth"`
	AvailHeight int     `json:"availHeight"`
	ColorDepth  int     `json:"colorDepth"`
	PixelDepth  int     `json:"pixelDepth"`
	PixelRatio  float64 `json:"pixelRatio"`
	Orientation string  `json:"orientation"`
}

type LocationLanguage struct {
	Timezone       string      `json:"timezone"`
	TimezoneOffset int         `json:"timezoneOffset"`
	Language       string      `json:"language"`
	Languages      []string    `json:"languages"`
	Locale         string      `json:"locale"`
	Country        string      `json:"country"`
	City           string      `json:"city"`
	Region         string      `json:"region"`
	ISP            string      `json:"isp"`
	GPSLocation    GPSLocation `json:"gpsLocation"`
}

// Permission states reported by the GPS sub-collector.
const (
	PermissionGranted     = "granted"
	PermissionDenied      = "denied"
	PermissionUnsupported = "unsupported"
	PermissionError       = "error"
)

// GPSLocation carries precise coordinates when the user granted permission.
// All measurement fields are nullable; PermissionStatus explains why they
// are absent.
type GPSLocation struct {
	Coordinates      Coordinates `json:"coordinates"`
	Accuracy         *float64    `json:"accuracy"`
	Altitude         *float64    `json:"altitude"`
	AltitudeAccuracy *float64    `json:"altitudeAccuracy"`
	Heading          *float64    `json:"heading"`
	Speed            *float64    `json:"speed"`
	Timestamp        *string     `json:"timestamp"`
	PermissionStatus string      `json:"permissionStatus"`
	ErrorMessage     *string     `json:"errorMessage"`
}

type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Technical struct {
	CookieEnabled       bool   `json:"cookieEnabled"`
	DoNotTrack          string `json:"doNotTrack"`
	OnLine              bool   `json:"onLine"`
	MaxTouchPoints      int    `json:"maxTouchPoints"`
	TouchSupport        bool   `json:"touchSupport"`
	ConnectionType      string `json:"connectionType"`
	ConnectionDownlink  string `json:"connectionDownlink"`
	ConnectionRtt       string `json:"connectionRtt"`
	ConnectionSaveData  bool   `json:"connectionSaveData"`
	HardwareConcurrency string `json:"hardwareConcurrency"`
	DeviceMemory        string `json:"deviceMemory"`
	Platform            string `json:"platform"`
	Vendor              string `json:"vendor"`
	AppName             string `json:"appName"`
	AppVersion          string `json:"appVersion"`
	Product             string `json:"product"`
	ProductSub          string `json:"productSub"`
}

type Fingerprint struct {
	Canvas  string   `json:"canvas"`
	WebGL   WebGL    `json:"webgl"`
	Audio   string   `json:"audio"`
	Fonts   []string `json:"fonts"`
	Plugins []Plugin `json:"plugins"`
}

type WebGL struct {
	Renderer               string `json:"renderer"`
	Vendor                 string `json:"vendor"`
	Version                string `json:"version"`
	ShadingLanguageVersion string `json:"shadingLanguageVersion"`
}

type Plugin struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
}

type Behavioral struct {
	PagesVisited           []PageVisit `json:"pagesVisited"`
	SessionDuration        string      `json:"sessionDuration"`
	SessionDurationSeconds int         `json:"sessionDurationSeconds"`
	Referrer               string      `json:"referrer"`
	CurrentURL             string      `json:"currentUrl"`
	MaxScrollDepth         int         `json:"maxScrollDepth"`
	NumberOfVisits         int         `json:"numberOfVisits"`
	IsReturningVisitor     bool        `json:"isReturningVisitor"`
}

type PageVisit struct {
	Page      string `json:"page"`
	Timestamp string `json:"timestamp"`
}

type Metadata struct {
	CollectionTimestamp string `json:"collectionTimestamp"`
	ViewportWidth       int    `json:"viewportWidth"`
	ViewportHeight      int    `json:"viewportHeight"`
	DocumentWidth       int    `json:"documentWidth"`
	DocumentHeight      int    `json:"documentHeight"`
	BatteryLevel        string `json:"batteryLevel"`
	NetworkInformation  string `json:"networkInformation"`
}
