// Package kma implements the HTTP client for the KMA API hub, which serves
// the ASOS, PM10, and UV surface observation feeds as plain-text payloads.
package kma

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/config"
)

const (
	pathASOS = "/kma_sfctm2.php"
	pathPM10 = "/kma_pm10.php"
	pathUV   = "/kma_sfctm_uv.php"

	timeLayout = "200601021504"
)

// Client fetches raw observation payloads from the KMA API hub.
type Client struct {
	baseURL    string
	authKey    string
	stationID  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a KMA API client from the service configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   cfg.KMABaseURL,
		authKey:   cfg.KMAAuthKey,
		stationID: cfg.KMAStationID,
		httpClient: &http.Client{
			Timeout: cfg.KMATimeout,
		},
		logger: logger,
	}
}

// FetchASOS retrieves the ground-station payload for the given hour.
func (c *Client) FetchASOS(ctx context.Context, target time.Time) (string, error) {
	params := url.Values{
		"tm":      {normalizeHour(target).Format(timeLayout)},
		"stn":     {c.stationID},
		"authKey": {c.authKey},
	}
	return c.doRequest(ctx, pathASOS, params, "asos")
}

// FetchPM10 retrieves the particulate payload for the given time range.
func (c *Client) FetchPM10(ctx context.Context, from, to time.Time) (string, error) {
	params := url.Values{
		"tm1":     {normalizeHour(from).Format(timeLayout)},
		"tm2":     {normalizeHour(to).Format(timeLayout)},
		"stn":     {c.stationID},
		"authKey": {c.authKey},
	}
	return c.doRequest(ctx, pathPM10, params, "pm10")
}

// FetchUV retrieves the ultraviolet payload for the given hour.
func (c *Client) FetchUV(ctx context.Context, target time.Time) (string, error) {
	params := url.Values{
		"tm":      {normalizeHour(target).Format(timeLayout)},
		"stn":     {c.stationID},
		"authKey": {c.authKey},
	}
	return c.doRequest(ctx, pathUV, params, "uv")
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, source string) (string, error) {
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	c.logger.Debug("requesting kma feed", "source", source, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s fetch: %w", source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s read body: %w", source, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kma API error: status %d: %s", resp.StatusCode, body)
	}
	return string(body), nil
}

// normalizeHour truncates to the hour in UTC. The API hub serves on-the-hour
// observations only.
func normalizeHour(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}
