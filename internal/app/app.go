// Package app wires the cache-or-fetch pipeline: place → coordinates → raw
// weather payload → report → rendering.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/cache"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/config"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/geocode"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/httpx"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/logger"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/report"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/weather"
)

// geoKey builds the geocode cache key. The namespace keeps mock and live
// entries apart.
func geoKey(namespace, place string) string {
	return fmt.Sprintf("%s:amap:%s", namespace, place)
}

// weatherKey builds the weather cache key from everything that shapes the
// upstream response: coordinates rounded to six decimals, day count, detail
// level and hourly step count.
func weatherKey(namespace string, geo geocode.GeoResult, days int, detail config.Detail, hourlySteps int) string {
	return fmt.Sprintf("%s:caiyun:%.6f,%.6f:d%d:detail%s:h%d",
		namespace, geo.Lng, geo.Lat, days, detail, hourlySteps)
}

// Run executes one full query and writes the rendered report to out. The
// config is assumed validated.
func Run(ctx context.Context, cfg config.Config, out io.Writer) error {
	log := logger.Get("app")
	log.Debugf("starting run: %s", cfg)

	fetcher := httpx.NewClient(cfg.Timeout, cfg.Retries)
	geoCache := cache.New(filepath.Join(cfg.CacheDir, "geocode.json"))
	weatherCache := cache.New(filepath.Join(cfg.CacheDir, "weather.json"))
	namespace := cfg.Namespace()

	geo, err := resolvePlace(ctx, cfg, fetcher, geoCache, namespace)
	if err != nil {
		return err
	}

	steps := cfg.EffectiveHourlySteps()
	raw, err := fetchWeather(ctx, cfg, fetcher, weatherCache, namespace, geo, steps)
	if err != nil {
		return err
	}

	rep := report.Build(cfg.Place, cfg.Days, cfg.Detail, geo, raw, cfg.IncludeRaw)
	if cfg.Format == config.FormatJSON {
		return report.RenderJSON(out, rep)
	}
	return report.RenderText(out, rep, cfg.Detail)
}

// resolvePlace returns the coordinates for the configured place, consulting
// the geocode cache first. Mock mode never touches the network.
func resolvePlace(ctx context.Context, cfg config.Config, fetcher *httpx.Client, geoCache *cache.Cache, namespace string) (geocode.GeoResult, error) {
	log := logger.Get("geocode")
	key := geoKey(namespace, cfg.Place)

	if cached, ok := geoCache.Get(key, cfg.GeoTTL); ok {
		var geo geocode.GeoResult
		if err := json.Unmarshal(cached, &geo); err == nil {
			log.Debugf("cache hit: %s", key)
			return geo, nil
		}
	}
	log.Debugf("cache miss: %s", key)

	var geo geocode.GeoResult
	if cfg.Mock {
		geo = geocode.MockResult(cfg.Place)
	} else {
		resolved, err := geocode.NewResolver(fetcher, cfg.AmapKey).Resolve(ctx, cfg.Place)
		if err != nil {
			return geocode.GeoResult{}, err
		}
		geo = resolved
	}

	if err := geoCache.Set(key, geo); err != nil {
		log.Warnf("caching geocode result failed: %v", err)
	}
	return geo, nil
}

// fetchWeather returns the raw payload for the resolved coordinates,
// consulting the weather cache first.
func fetchWeather(ctx context.Context, cfg config.Config, fetcher *httpx.Client, weatherCache *cache.Cache, namespace string, geo geocode.GeoResult, hourlySteps int) (json.RawMessage, error) {
	log := logger.Get("weather")
	key := weatherKey(namespace, geo, cfg.Days, cfg.Detail, hourlySteps)

	if cached, ok := weatherCache.Get(key, cfg.WeatherTTL); ok {
		log.Debugf("cache hit: %s", key)
		return cached, nil
	}
	log.Debugf("cache miss: %s", key)

	var source weather.Source = weather.NewClient(fetcher, cfg.CaiyunToken)
	if cfg.Mock {
		source = weather.Mock{}
	}

	raw, err := source.Fetch(ctx, weather.Request{
		Lng:         geo.Lng,
		Lat:         geo.Lat,
		Days:        cfg.Days,
		Detail:      cfg.Detail,
		HourlySteps: hourlySteps,
	})
	if err != nil {
		return nil, err
	}

	if err := weatherCache.Set(key, raw); err != nil {
		log.Warnf("caching weather payload failed: %v", err)
	}
	return raw, nil
}
