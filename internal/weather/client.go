package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/config"
	"github.com/SaborBao/openclaw-skill-weather-cn/internal/httpx"
)

const defaultBaseURL = "https://api.caiyunapp.com"

// UpstreamError reports a well-formed Caiyun response whose status field is
// not the success sentinel. It is never retried.
type UpstreamError struct {
	Status string
	Info   string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("weather upstream returned status %q", e.Status)
	if e.Info != "" {
		msg += ": " + e.Info
	}
	return msg
}

// Client fetches live payloads from the Caiyun weather API.
type Client struct {
	client  *httpx.Client
	token   string
	baseURL string
}

// NewClient creates a Client using the given fetch client and API token.
func NewClient(client *httpx.Client, token string) *Client {
	return &Client{
		client:  client,
		token:   token,
		baseURL: defaultBaseURL,
	}
}

func (c *Client) Name() string {
	return "caiyun"
}

// Fetch performs the live request and returns the raw payload once the
// upstream status is "ok".
func (c *Client) Fetch(ctx context.Context, req Request) (json.RawMessage, error) {
	if c.token == "" {
		return nil, &config.Error{Reason: "missing Caiyun token; set CAIYUN_API_TOKEN or --caiyun-token"}
	}

	values := url.Values{}
	values.Set("dailysteps", strconv.Itoa(req.Days))
	values.Set("alert", "true")
	values.Set("hourlysteps", strconv.Itoa(req.HourlySteps))

	endpoint := fmt.Sprintf("%s/v2.6/%s/%s,%s/weather.json?%s",
		c.baseURL,
		url.PathEscape(c.token),
		strconv.FormatFloat(req.Lng, 'f', -1, 64),
		strconv.FormatFloat(req.Lat, 'f', -1, 64),
		values.Encode(),
	)

	raw, err := c.client.FetchJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &UpstreamError{Status: "unreadable"}
	}
	if envelope.Status != "ok" {
		return nil, &UpstreamError{Status: envelope.Status, Info: envelope.Error}
	}
	return raw, nil
}
