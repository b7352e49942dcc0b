// Package weather fetches raw forecast payloads for a coordinate, either
// from the Caiyun API or from a deterministic offline mock. Payloads stay
// opaque JSON here; shaping them into a report is the report package's job.
package weather

import (
	"context"
	"encoding/json"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/config"
)

// Request identifies one weather lookup. Every field participates in the
// cache key, so two requests with different upstream responses never share
// an entry.
type Request struct {
	Lng         float64
	Lat         float64
	Days        int
	Detail      config.Detail
	HourlySteps int
}

// Source abstracts where a weather payload comes from.
type Source interface {
	Name() string
	Fetch(ctx context.Context, req Request) (json.RawMessage, error)
}
