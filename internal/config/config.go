package config

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Detail selects how rich the rendered report is.
type Detail string

const (
	DetailBasic Detail = "basic"
	DetailFull  Detail = "full"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Defaults mirror the knobs exposed on the command line.
const (
	DefaultDays        = 7
	DefaultGeoTTL      = 30 * 24 * time.Hour
	DefaultWeatherTTL  = 10 * time.Minute
	DefaultTimeout     = 8 * time.Second
	DefaultRetries     = 2
	DefaultHourlySteps = 24
)

// Error reports an invalid or incomplete configuration. It is always fatal
// and never retried.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "config: " + e.Reason
}

// Config is assembled once at startup from flags and environment and passed
// by value into every component. Nothing below main reads ambient env.
type Config struct {
	Place       string        `validate:"required"`
	CacheDir    string        `validate:"required"`
	GeoTTL      time.Duration `validate:"min=0"`
	WeatherTTL  time.Duration `validate:"min=0"`
	Timeout     time.Duration `validate:"gt=0"`
	Retries     int           `validate:"min=0"`
	Days        int           `validate:"min=1,max=15"`
	HourlySteps int           `validate:"min=1,max=360"`
	Detail      Detail        `validate:"oneof=basic full"`
	Format      Format        `validate:"oneof=text json"`
	AmapKey     string
	CaiyunToken string
	IncludeRaw  bool
	Mock        bool
	Debug       bool
}

var validate = validator.New()

// fieldHints maps struct fields to the flag names and ranges users see.
var fieldHints = map[string]string{
	"Place":       "place must not be empty",
	"CacheDir":    "cache-dir must not be empty",
	"GeoTTL":      "geo-ttl-hours must not be negative",
	"WeatherTTL":  "weather-ttl-minutes must not be negative",
	"Timeout":     "timeout must be positive",
	"Retries":     "retries must not be negative",
	"Days":        "days must be between 1 and 15",
	"HourlySteps": "hourly-steps must be between 1 and 360",
	"Detail":      "detail must be basic or full",
	"Format":      "format must be text or json",
}

// Validate checks parameter ranges and, outside mock mode, credential
// presence. All violations are reported as *Error before any network I/O.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			if hint, found := fieldHints[verrs[0].Field()]; found {
				return &Error{Reason: hint}
			}
			return &Error{Reason: verrs[0].Error()}
		}
		return &Error{Reason: err.Error()}
	}

	if !c.Mock {
		if c.AmapKey == "" {
			return &Error{Reason: "missing Amap key; set AMAP_API_KEY or --amap-key"}
		}
		if c.CaiyunToken == "" {
			return &Error{Reason: "missing Caiyun token; set CAIYUN_API_TOKEN or --caiyun-token"}
		}
	}
	return nil
}

// EffectiveHourlySteps returns the hourly step count actually requested
// upstream: the configured value in full detail, a fixed 6 otherwise.
func (c Config) EffectiveHourlySteps() int {
	if c.Detail == DetailFull {
		return c.HourlySteps
	}
	return 6
}

// Namespace separates mock-mode cache entries from live ones so the two can
// never collide.
func (c Config) Namespace() string {
	if c.Mock {
		return "mock"
	}
	return "live"
}

// Trailing punctuation stripped from place strings, full-width and half-width.
const placeTerminators = "，。,.;；：:、"

// NormalizePlace canonicalizes a free-text place description: every
// whitespace run is removed outright, trailing terminator punctuation is
// stripped, and a single trailing possessive 的 is dropped.
func NormalizePlace(place string) string {
	var b strings.Builder
	b.Grow(len(place))
	for _, r := range place {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	s := strings.TrimRight(b.String(), placeTerminators)
	s = strings.TrimSuffix(s, "的")
	return s
}

// String renders the config for debug logging with credentials elided.
func (c Config) String() string {
	return fmt.Sprintf(
		"place=%q cache-dir=%q days=%d detail=%s format=%s hourly-steps=%d mock=%t",
		c.Place, c.CacheDir, c.Days, c.Detail, c.Format, c.HourlySteps, c.Mock,
	)
}
