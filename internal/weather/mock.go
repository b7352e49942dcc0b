package weather

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/config"
)

// mockMaxHourlySteps bounds the generated hourly series regardless of the
// requested step count, so mock payloads stay small. Live requests are not
// subject to this cap.
const mockMaxHourlySteps = 48

// skyCycle is the fixed condition sequence the generator cycles through,
// indexed by day offset for daily entries and hour offset for hourly ones.
var skyCycle = []string{"CLEAR_DAY", "PARTLY_CLOUDY_DAY", "LIGHT_RAIN", "CLOUDY", "MODERATE_RAIN"}

// Mock generates payloads without touching the network. All numeric fields
// are a pure function of latitude and the offsets; only dates and timestamps
// track the wall clock.
type Mock struct{}

func (Mock) Name() string {
	return "mock"
}

func (Mock) Fetch(_ context.Context, req Request) (json.RawMessage, error) {
	return json.Marshal(buildMockPayload(req, time.Now()))
}

func buildMockPayload(req Request, now time.Time) map[string]any {
	baseTemp := 14.0 + math.Mod(math.Abs(req.Lat), 5)
	today := now

	tempDaily := make([]map[string]any, 0, req.Days)
	skyDaily := make([]map[string]any, 0, req.Days)
	for i := 0; i < req.Days; i++ {
		day := today.AddDate(0, 0, i).Format("2006-01-02")
		tempDaily = append(tempDaily, map[string]any{
			"date": day,
			"min":  round1(baseTemp - 4 + float64(i%2)),
			"max":  round1(baseTemp + 3 + float64(i%3)),
		})
		skyDaily = append(skyDaily, map[string]any{
			"date":  day,
			"value": skyCycle[i%len(skyCycle)],
		})
	}

	result := map[string]any{
		"realtime": map[string]any{
			"temperature":          round1(baseTemp + 0.8),
			"apparent_temperature": round1(baseTemp + 0.2),
			"skycon":               "PARTLY_CLOUDY_DAY",
			"humidity":             0.62,
			"wind":                 map[string]any{"speed": 12.0, "direction": 85},
			"air_quality": map[string]any{
				"aqi":  map[string]any{"chn": 58, "usa": 46},
				"pm25": 16,
			},
		},
		"daily": map[string]any{
			"temperature": tempDaily,
			"skycon":      skyDaily,
		},
	}

	steps := req.HourlySteps
	if steps < 1 {
		steps = 1
	}
	if steps > mockMaxHourlySteps {
		steps = mockMaxHourlySteps
	}

	hourBase := now.Truncate(time.Hour)
	hourlyTemp := make([]map[string]any, 0, steps)
	hourlySky := make([]map[string]any, 0, steps)
	hourlyPrecip := make([]map[string]any, 0, steps)
	for i := 0; i < steps; i++ {
		dt := hourBase.Add(time.Duration(i) * time.Hour).Format("2006-01-02T15:04")
		precip := round2(float64(i%5) * 0.03)
		hourlyTemp = append(hourlyTemp, map[string]any{
			"datetime": dt,
			"value":    round1(baseTemp + float64(i%4)*0.6),
		})
		hourlySky = append(hourlySky, map[string]any{
			"datetime": dt,
			"value":    skyCycle[i%len(skyCycle)],
		})
		hourlyPrecip = append(hourlyPrecip, map[string]any{
			"datetime":    dt,
			"value":       precip,
			"probability": int(math.Round(precip * 100)),
		})
	}
	result["hourly"] = map[string]any{
		"temperature":   hourlyTemp,
		"skycon":        hourlySky,
		"precipitation": hourlyPrecip,
	}

	if req.Detail == config.DetailFull {
		probs := make([]any, 120)
		for i := range probs {
			probs[i] = round2(float64(i%8) * 0.05)
		}
		result["minutely"] = map[string]any{
			"description": "未来两小时有零星小雨",
			"probability": probs,
		}
		todayStr := today.Format("2006-01-02")
		result["daily"].(map[string]any)["life_index"] = map[string]any{
			"ultraviolet": []any{map[string]any{"date": todayStr, "index": "2", "desc": "弱"}},
			"carWashing":  []any{map[string]any{"date": todayStr, "index": "2", "desc": "较适宜"}},
			"dressing":    []any{map[string]any{"date": todayStr, "index": "3", "desc": "较舒适"}},
		}
		result["alert"] = map[string]any{
			"content": []any{map[string]any{
				"title":        "雷电黄色预警",
				"code":         "11B02",
				"status":       "预警中",
				"description":  "局地可能伴随雷电活动。",
				"pubtimestamp": now.Unix(),
			}},
		}
	}

	return map[string]any{
		"status":   "ok",
		"result":   result,
		"location": []any{req.Lng, req.Lat},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
