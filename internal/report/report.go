// Package report shapes raw weather payloads into a fixed schema and renders
// it as JSON or compact text. Extraction is tolerant by design: once a
// payload has been fetched, malformed or missing fields degrade to nulls and
// empty lists, never to errors.
package report

import (
	"encoding/json"
	"time"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/config"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/geocode"
)

// Coord is the resolved coordinate pair echoed into the report.
type Coord struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Realtime is the current-conditions block. Missing upstream fields stay
// null in the JSON rendering.
type Realtime struct {
	Temperature         *float64 `json:"temperature"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Skycon              string   `json:"skycon"`
	HumidityPercent     *int     `json:"humidity_percent"`
	WindSpeed           *float64 `json:"wind_speed"`
	WindDirection       *float64 `json:"wind_direction"`
	AQIChn              *float64 `json:"aqi_chn"`
	PM25                *float64 `json:"pm25"`
}

// DailyEntry is one day of the forecast.
type DailyEntry struct {
	Date   string   `json:"date"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Skycon string   `json:"skycon"`
}

// HourlyEntry is one hour of the forecast.
type HourlyEntry struct {
	Datetime                 string   `json:"datetime"`
	Temperature              *float64 `json:"temperature"`
	Skycon                   string   `json:"skycon"`
	Precipitation            *float64 `json:"precipitation"`
	PrecipitationProbability *float64 `json:"precipitation_probability"`
}

// Alert is one weather warning.
type Alert struct {
	Title        *string  `json:"title"`
	Code         *string  `json:"code"`
	Status       *string  `json:"status"`
	Description  *string  `json:"description"`
	Pubtimestamp *float64 `json:"pubtimestamp"`
}

// Minutely summarizes the minute-level precipitation curve.
type Minutely struct {
	Description    *string  `json:"description"`
	MaxProbability *float64 `json:"max_probability"`
}

// Report is the normalized output schema. It is derived fresh on every
// invocation and never cached.
type Report struct {
	QueryTime       string          `json:"query_time"`
	Place           string          `json:"place"`
	ResolvedAddress string          `json:"resolved_address"`
	Coord           Coord           `json:"coord"`
	Days            int             `json:"days"`
	Realtime        Realtime        `json:"realtime"`
	Daily           []DailyEntry    `json:"daily"`
	Hourly          []HourlyEntry   `json:"hourly,omitempty"`
	Minutely        *Minutely       `json:"minutely,omitempty"`
	Alerts          []Alert         `json:"alerts,omitempty"`
	LifeIndex       map[string]any  `json:"life_index,omitempty"`
	Raw             json.RawMessage `json:"raw,omitempty"`
}

// Build assembles a Report from the resolved location and raw payload. It is
// a pure function of its inputs aside from the query timestamp.
func Build(place string, days int, detail config.Detail, geo geocode.GeoResult, raw json.RawMessage, includeRaw bool) Report {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		doc = map[string]any{}
	}

	resolved := geo.ResolvedAddress
	if resolved == "" {
		resolved = place
	}

	if days < 1 {
		days = 1
	}

	rep := Report{
		QueryTime:       time.Now().Format("2006-01-02 15:04:05"),
		Place:           place,
		ResolvedAddress: resolved,
		Coord:           Coord{Lng: geo.Lng, Lat: geo.Lat},
		Days:            days,
		Realtime:        extractRealtime(doc),
		Daily:           extractDaily(doc, days),
	}

	hourlyLimit := 6
	if detail == config.DetailFull {
		hourlyLimit = 24
	}
	if hourly := extractHourly(doc, hourlyLimit); len(hourly) > 0 {
		rep.Hourly = hourly
	}

	if detail == config.DetailFull {
		minutely := extractMinutely(doc)
		rep.Minutely = &minutely
		if alerts := extractAlerts(doc); len(alerts) > 0 {
			rep.Alerts = alerts
		}
		if life := extractLifeIndex(doc); len(life) > 0 {
			rep.LifeIndex = life
		}
	}

	if includeRaw {
		rep.Raw = raw
	}
	return rep
}
