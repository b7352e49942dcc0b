package report

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Tolerant accessors: anywhere a container is expected but something else
// arrives, the value is treated as empty rather than an error.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func asNumber(v any) (float64, bool) {
	n, ok := v.(float64)
	return n, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func numberPtr(v any) *float64 {
	if n, ok := asNumber(v); ok {
		return &n
	}
	return nil
}

func stringPtr(v any) *string {
	if s, ok := asString(v); ok {
		return &s
	}
	return nil
}

func resultSection(doc map[string]any, key string) map[string]any {
	return asMap(asMap(doc["result"])[key])
}

// normalizeProbabilityPercent accepts either a 0-1 fraction or an already
// scaled 0-100 percentage and returns a percentage with one decimal. Values
// at or below 1 are treated as fractions.
func normalizeProbabilityPercent(v any) *float64 {
	n, ok := asNumber(v)
	if !ok {
		return nil
	}
	if n <= 1 {
		n *= 100
	}
	n = math.Round(n*10) / 10
	return &n
}

// normalizeDate drops any time-of-day suffix from a date string.
func normalizeDate(text string) string {
	if i := strings.IndexByte(text, 'T'); i >= 0 {
		return text[:i]
	}
	return text
}

var minutePrecisionRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2})`)

// normalizeDatetime reduces a timestamp to minute precision.
func normalizeDatetime(text string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, "T", " ")
	if m := minutePrecisionRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

func extractRealtime(doc map[string]any) Realtime {
	realtime := resultSection(doc, "realtime")
	airQuality := asMap(realtime["air_quality"])
	aqi := asMap(airQuality["aqi"])
	wind := asMap(realtime["wind"])

	var humidityPercent *int
	if h, ok := asNumber(realtime["humidity"]); ok {
		p := int(math.Round(h * 100))
		humidityPercent = &p
	}

	return Realtime{
		Temperature:         numberPtr(realtime["temperature"]),
		ApparentTemperature: numberPtr(realtime["apparent_temperature"]),
		Skycon:              skyconText(realtime["skycon"]),
		HumidityPercent:     humidityPercent,
		WindSpeed:           numberPtr(wind["speed"]),
		WindDirection:       numberPtr(wind["direction"]),
		AQIChn:              numberPtr(aqi["chn"]),
		PM25:                numberPtr(airQuality["pm25"]),
	}
}

// extractDaily pairs temperature and sky-condition entries positionally up
// to min(days, available). Upstream arrays are assumed aligned; a misaligned
// upstream would silently mispair, which is a known fragility of the format.
func extractDaily(doc map[string]any, days int) []DailyEntry {
	daily := resultSection(doc, "daily")
	temps := asList(daily["temperature"])
	sky := asList(daily["skycon"])

	limit := days
	if len(temps) < limit {
		limit = len(temps)
	}

	entries := make([]DailyEntry, 0, limit)
	for i := 0; i < limit; i++ {
		t := asMap(temps[i])
		var s map[string]any
		if i < len(sky) {
			s = asMap(sky[i])
		}

		date, ok := asString(t["date"])
		if !ok || date == "" {
			if date, ok = asString(s["date"]); !ok || date == "" {
				date = fmt.Sprintf("D+%d", i)
			}
		}

		entries = append(entries, DailyEntry{
			Date:   normalizeDate(date),
			Min:    numberPtr(t["min"]),
			Max:    numberPtr(t["max"]),
			Skycon: skyconText(s["value"]),
		})
	}
	return entries
}

// extractHourly pairs temperature, sky and precipitation entries positionally
// up to min(limit, available).
func extractHourly(doc map[string]any, limit int) []HourlyEntry {
	hourly := resultSection(doc, "hourly")
	temps := asList(hourly["temperature"])
	sky := asList(hourly["skycon"])
	precip := asList(hourly["precipitation"])

	n := limit
	if len(temps) < n {
		n = len(temps)
	}

	entries := make([]HourlyEntry, 0, n)
	for i := 0; i < n; i++ {
		t := asMap(temps[i])
		var s, p map[string]any
		if i < len(sky) {
			s = asMap(sky[i])
		}
		if i < len(precip) {
			p = asMap(precip[i])
		}

		dt, ok := asString(t["datetime"])
		if !ok || dt == "" {
			if dt, ok = asString(s["datetime"]); !ok || dt == "" {
				if dt, ok = asString(p["datetime"]); !ok || dt == "" {
					dt = fmt.Sprintf("H+%d", i)
				}
			}
		}

		entries = append(entries, HourlyEntry{
			Datetime:                 normalizeDatetime(dt),
			Temperature:              numberPtr(t["value"]),
			Skycon:                   skyconText(s["value"]),
			Precipitation:            numberPtr(p["value"]),
			PrecipitationProbability: normalizeProbabilityPercent(p["probability"]),
		})
	}
	return entries
}

// extractAlerts reads result.alert.content, falling back to a top-level
// alert block. Absent or non-list content yields an empty list.
func extractAlerts(doc map[string]any) []Alert {
	alertRoot := asMap(doc["result"])["alert"]
	if len(asMap(alertRoot)) == 0 && len(asList(alertRoot)) == 0 {
		alertRoot = doc["alert"]
	}
	content, ok := asMap(alertRoot)["content"].([]any)
	if !ok {
		return nil
	}

	alerts := make([]Alert, 0, len(content))
	for _, item := range content {
		m := asMap(item)
		if m == nil {
			continue
		}
		description := stringPtr(m["description"])
		if description == nil {
			description = stringPtr(m["desc"])
		}
		alerts = append(alerts, Alert{
			Title:        stringPtr(m["title"]),
			Code:         stringPtr(m["code"]),
			Status:       stringPtr(m["status"]),
			Description:  description,
			Pubtimestamp: numberPtr(m["pubtimestamp"]),
		})
	}
	return alerts
}

// extractLifeIndex summarizes each life-index category by its first
// forecast entry, skipping categories with an empty value list.
func extractLifeIndex(doc map[string]any) map[string]any {
	life := asMap(resultSection(doc, "daily")["life_index"])
	if len(life) == 0 {
		return nil
	}

	summary := make(map[string]any, len(life))
	for key, values := range life {
		list := asList(values)
		if len(list) == 0 {
			continue
		}
		first := list[0]
		if m := asMap(first); m != nil {
			if v := firstNonEmpty(m, "desc", "index", "value"); v != nil {
				summary[key] = v
			} else {
				summary[key] = nil
			}
			continue
		}
		summary[key] = first
	}
	return summary
}

func firstNonEmpty(m map[string]any, keys ...string) any {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := asString(v); isStr && s == "" {
			continue
		}
		return v
	}
	return nil
}

// extractMinutely reports the description and the maximum of the numeric
// probability curve (absent curve yields a null max).
func extractMinutely(doc map[string]any) Minutely {
	minutely := resultSection(doc, "minutely")

	var maxProb *float64
	for _, v := range asList(minutely["probability"]) {
		n, ok := asNumber(v)
		if !ok {
			continue
		}
		if maxProb == nil || n > *maxProb {
			val := n
			maxProb = &val
		}
	}
	if maxProb != nil {
		rounded := math.Round(*maxProb*1000) / 1000
		maxProb = &rounded
	}

	return Minutely{
		Description:    stringPtr(minutely["description"]),
		MaxProbability: maxProb,
	}
}
