package report

import (
	"testing"
)

func TestNormalizeProbabilityPercent(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"fraction scaled", 0.42, 42.0},
		{"percentage passed through", 73.0, 73.0},
		{"one treated as fraction", 1.0, 100.0},
		{"zero", 0.0, 0.0},
		{"rounded to one decimal", 0.12345, 12.3},
		{"large percentage rounded", 73.46, 73.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeProbabilityPercent(tt.in)
			if got == nil {
				t.Fatal("expected a value, got nil")
			}
			if *got != tt.want {
				t.Errorf("normalizeProbabilityPercent(%v) = %v, want %v", tt.in, *got, tt.want)
			}
		})
	}

	for _, bad := range []any{nil, "0.5", true, []any{1.0}} {
		if got := normalizeProbabilityPercent(bad); got != nil {
			t.Errorf("normalizeProbabilityPercent(%v) = %v, want nil", bad, *got)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	if got := normalizeDate("2026-08-31T00:00+08:00"); got != "2026-08-31" {
		t.Errorf("expected date prefix, got %q", got)
	}
	if got := normalizeDate("2026-08-31"); got != "2026-08-31" {
		t.Errorf("date-only string should pass through, got %q", got)
	}
}

func TestNormalizeDatetime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-08-31T10:30:45+08:00", "2026-08-31 10:30"},
		{"2026-08-31 10:30", "2026-08-31 10:30"},
		{"H+3", "H+3"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeDatetime(tt.in); got != tt.want {
			t.Errorf("normalizeDatetime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractRealtime(t *testing.T) {
	doc := map[string]any{
		"result": map[string]any{
			"realtime": map[string]any{
				"temperature":          20.5,
				"apparent_temperature": 19.8,
				"skycon":               "LIGHT_RAIN",
				"humidity":             0.62,
				"wind":                 map[string]any{"speed": 12.0, "direction": 85.0},
				"air_quality": map[string]any{
					"aqi":  map[string]any{"chn": 58.0},
					"pm25": 16.0,
				},
			},
		},
	}

	rt := extractRealtime(doc)
	if rt.Temperature == nil || *rt.Temperature != 20.5 {
		t.Errorf("unexpected temperature: %v", rt.Temperature)
	}
	if rt.HumidityPercent == nil || *rt.HumidityPercent != 62 {
		t.Errorf("humidity fraction should become a rounded percentage: %v", rt.HumidityPercent)
	}
	if rt.Skycon != "小雨" {
		t.Errorf("skycon code should be translated, got %q", rt.Skycon)
	}
	if rt.AQIChn == nil || *rt.AQIChn != 58 {
		t.Errorf("unexpected aqi: %v", rt.AQIChn)
	}
}

func TestExtractRealtimeMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{"empty document", map[string]any{}},
		{"result not a map", map[string]any{"result": "nope"}},
		{"realtime not a map", map[string]any{"result": map[string]any{"realtime": []any{1}}}},
		{"wind not a map", map[string]any{"result": map[string]any{"realtime": map[string]any{"wind": 3.0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := extractRealtime(tt.doc)
			if rt.Temperature != nil || rt.HumidityPercent != nil || rt.WindSpeed != nil {
				t.Errorf("malformed input should yield nulls: %+v", rt)
			}
			if rt.Skycon != "未知" {
				t.Errorf("absent skycon should read 未知, got %q", rt.Skycon)
			}
		})
	}
}

func TestSkyconText(t *testing.T) {
	if got := skyconText("CLEAR_DAY"); got != "晴" {
		t.Errorf("mapped code: got %q", got)
	}
	if got := skyconText("SOMETHING_NEW"); got != "SOMETHING_NEW" {
		t.Errorf("unmapped code should pass through, got %q", got)
	}
	if got := skyconText(nil); got != "未知" {
		t.Errorf("absent code should read 未知, got %q", got)
	}
}

func TestExtractDailyPositionalPairing(t *testing.T) {
	doc := map[string]any{
		"result": map[string]any{
			"daily": map[string]any{
				"temperature": []any{
					map[string]any{"date": "2026-08-31T00:00", "min": 15.0, "max": 22.0},
					map[string]any{"date": "2026-09-01", "min": 16.0, "max": 23.0},
				},
				"skycon": []any{
					map[string]any{"date": "2026-08-31", "value": "CLEAR_DAY"},
					map[string]any{"date": "2026-09-01", "value": "LIGHT_RAIN"},
				},
			},
		},
	}

	entries := extractDaily(doc, 7)
	if len(entries) != 2 {
		t.Fatalf("expected min(requested, available) = 2 entries, got %d", len(entries))
	}
	if entries[0].Date != "2026-08-31" {
		t.Errorf("date should be normalized to its date prefix, got %q", entries[0].Date)
	}
	if entries[0].Skycon != "晴" || entries[1].Skycon != "小雨" {
		t.Errorf("positional pairing broken: %q, %q", entries[0].Skycon, entries[1].Skycon)
	}

	if got := extractDaily(doc, 1); len(got) != 1 {
		t.Errorf("requested days should cap the list, got %d entries", len(got))
	}
}

func TestExtractDailyRobustness(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{"empty document", map[string]any{}},
		{"missing daily", map[string]any{"result": map[string]any{}}},
		{"daily not a map", map[string]any{"result": map[string]any{"daily": 7.0}}},
		{"temperature not a list", map[string]any{"result": map[string]any{"daily": map[string]any{"temperature": "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractDaily(tt.doc, 7); len(got) != 0 {
				t.Errorf("expected empty daily list, got %d entries", len(got))
			}
		})
	}
}

func TestExtractDailySkyconShorterThanTemps(t *testing.T) {
	doc := map[string]any{
		"result": map[string]any{
			"daily": map[string]any{
				"temperature": []any{
					map[string]any{"date": "2026-08-31", "min": 1.0, "max": 2.0},
					map[string]any{"date": "2026-09-01", "min": 1.0, "max": 2.0},
				},
				"skycon": []any{
					map[string]any{"date": "2026-08-31", "value": "CLOUDY"},
				},
			},
		},
	}

	entries := extractDaily(doc, 7)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Skycon != "未知" {
		t.Errorf("missing paired skycon should degrade to 未知, got %q", entries[1].Skycon)
	}
}

func TestExtractHourly(t *testing.T) {
	doc := map[string]any{
		"result": map[string]any{
			"hourly": map[string]any{
				"temperature": []any{
					map[string]any{"datetime": "2026-08-31T10:00", "value": 20.0},
					map[string]any{"datetime": "2026-08-31T11:00", "value": 21.0},
				},
				"skycon": []any{
					map[string]any{"datetime": "2026-08-31T10:00", "value": "CLOUDY"},
					map[string]any{"datetime": "2026-08-31T11:00", "value": "CLEAR_DAY"},
				},
				"precipitation": []any{
					map[string]any{"datetime": "2026-08-31T10:00", "value": 0.03, "probability": 0.42},
					map[string]any{"datetime": "2026-08-31T11:00", "value": 0.0, "probability": 73.0},
				},
			},
		},
	}

	entries := extractHourly(doc, 24)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Datetime != "2026-08-31 10:00" {
		t.Errorf("datetime should have minute precision, got %q", entries[0].Datetime)
	}
	if entries[0].PrecipitationProbability == nil || *entries[0].PrecipitationProbability != 42.0 {
		t.Errorf("fraction probability should scale to percent: %v", entries[0].PrecipitationProbability)
	}
	if entries[1].PrecipitationProbability == nil || *entries[1].PrecipitationProbability != 73.0 {
		t.Errorf("percent probability should pass through: %v", entries[1].PrecipitationProbability)
	}

	if got := extractHourly(doc, 1); len(got) != 1 {
		t.Errorf("limit should cap the list, got %d entries", len(got))
	}
}

func TestExtractAlerts(t *testing.T) {
	nested := map[string]any{
		"result": map[string]any{
			"alert": map[string]any{
				"content": []any{
					map[string]any{
						"title":        "雷电黄色预警",
						"code":         "11B02",
						"status":       "预警中",
						"desc":         "备用描述字段",
						"pubtimestamp": 1756600000.0,
					},
					"not a dict",
				},
			},
		},
	}

	alerts := extractAlerts(nested)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert (non-dict entries skipped), got %d", len(alerts))
	}
	if alerts[0].Title == nil || *alerts[0].Title != "雷电黄色预警" {
		t.Errorf("unexpected title: %v", alerts[0].Title)
	}
	if alerts[0].Description == nil || *alerts[0].Description != "备用描述字段" {
		t.Errorf("description should fall back to the desc key: %v", alerts[0].Description)
	}

	topLevel := map[string]any{
		"result": map[string]any{},
		"alert": map[string]any{
			"content": []any{map[string]any{"title": "台风预警"}},
		},
	}
	alerts = extractAlerts(topLevel)
	if len(alerts) != 1 || alerts[0].Title == nil || *alerts[0].Title != "台风预警" {
		t.Errorf("expected top-level alert fallback, got %+v", alerts)
	}

	nonList := map[string]any{
		"result": map[string]any{
			"alert": map[string]any{"content": "none"},
		},
	}
	if got := extractAlerts(nonList); len(got) != 0 {
		t.Errorf("non-list content should yield an empty list, got %d", len(got))
	}

	if got := extractAlerts(map[string]any{}); len(got) != 0 {
		t.Errorf("absent alert block should yield an empty list, got %d", len(got))
	}
}

func TestExtractLifeIndex(t *testing.T) {
	doc := map[string]any{
		"result": map[string]any{
			"daily": map[string]any{
				"life_index": map[string]any{
					"ultraviolet": []any{map[string]any{"desc": "弱", "index": "2"}},
					"dressing":    []any{map[string]any{"index": "3"}},
					"comfort":     []any{map[string]any{"value": 5.0}},
					"carWashing":  []any{},
					"scalar":      []any{"直接值"},
				},
			},
		},
	}

	summary := extractLifeIndex(doc)
	if got := summary["ultraviolet"]; got != "弱" {
		t.Errorf("desc should win, got %v", got)
	}
	if got := summary["dressing"]; got != "3" {
		t.Errorf("index should be the fallback, got %v", got)
	}
	if got := summary["comfort"]; got != 5.0 {
		t.Errorf("value should be the last fallback, got %v", got)
	}
	if _, ok := summary["carWashing"]; ok {
		t.Error("empty categories must be skipped")
	}
	if got := summary["scalar"]; got != "直接值" {
		t.Errorf("non-dict first entries pass through, got %v", got)
	}
}

func TestExtractMinutely(t *testing.T) {
	doc := map[string]any{
		"result": map[string]any{
			"minutely": map[string]any{
				"description": "未来两小时有零星小雨",
				"probability": []any{0.1, 0.35, "bad", 0.2},
			},
		},
	}

	m := extractMinutely(doc)
	if m.Description == nil || *m.Description != "未来两小时有零星小雨" {
		t.Errorf("unexpected description: %v", m.Description)
	}
	if m.MaxProbability == nil || *m.MaxProbability != 0.35 {
		t.Errorf("expected max probability 0.35, got %v", m.MaxProbability)
	}

	empty := extractMinutely(map[string]any{})
	if empty.Description != nil || empty.MaxProbability != nil {
		t.Errorf("absent minutely block should yield nulls: %+v", empty)
	}
}
