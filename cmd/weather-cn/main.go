package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/app"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/config"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "weather-cn: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Env fallbacks for credentials come from .env when present.
	_ = godotenv.Load()

	var (
		cacheDir     = flag.String("cache-dir", "cache", "cache directory")
		geoTTLHours  = flag.Int("geo-ttl-hours", int(config.DefaultGeoTTL.Hours()), "geocode cache TTL in hours")
		weatherTTLMn = flag.Int("weather-ttl-minutes", int(config.DefaultWeatherTTL.Minutes()), "weather cache TTL in minutes")
		timeoutSec   = flag.Int("timeout", int(config.DefaultTimeout.Seconds()), "HTTP timeout in seconds")
		retries      = flag.Int("retries", config.DefaultRetries, "HTTP retry count")
		amapKey      = flag.String("amap-key", os.Getenv("AMAP_API_KEY"), "Amap API key")
		caiyunToken  = flag.String("caiyun-token", os.Getenv("CAIYUN_API_TOKEN"), "Caiyun API token")
		detail       = flag.String("detail", string(config.DetailBasic), "detail level: basic or full")
		format       = flag.String("format", string(config.FormatText), "output format: text or json")
		hourlySteps  = flag.Int("hourly-steps", config.DefaultHourlySteps, "hourly forecast steps 1-360 (full detail only)")
		includeRaw   = flag.Bool("raw", false, "attach the raw upstream payload to json output")
		mock         = flag.Bool("mock", false, "offline mode, no network requests")
		debug        = flag.Bool("debug", false, "print debug diagnostics to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <place>\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Example: %s 北京市朝阳区\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return &config.Error{Reason: "exactly one place argument is required"}
	}

	cfg := config.Config{
		Place:       config.NormalizePlace(flag.Arg(0)),
		CacheDir:    *cacheDir,
		GeoTTL:      time.Duration(*geoTTLHours) * time.Hour,
		WeatherTTL:  time.Duration(*weatherTTLMn) * time.Minute,
		Timeout:     time.Duration(*timeoutSec) * time.Second,
		Retries:     *retries,
		Days:        config.DefaultDays,
		HourlySteps: *hourlySteps,
		Detail:      config.Detail(*detail),
		Format:      config.Format(*format),
		AmapKey:     *amapKey,
		CaiyunToken: *caiyunToken,
		IncludeRaw:  *includeRaw,
		Mock:        *mock,
		Debug:       *debug,
	}

	logger.Init(cfg.Debug)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	return app.Run(context.Background(), cfg, os.Stdout)
}
