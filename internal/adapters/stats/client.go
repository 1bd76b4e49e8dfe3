package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eventlisting/internal/domain"
)

// wireTimeLayout is the timestamp format the stats service speaks.
const wireTimeLayout = "2006-01-02 15:04:05"

type hitRequest struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type statsHTTPClient struct {
	baseURL string
	app     string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPClient returns a StatsClient that calls the stats service over HTTP.
// app identifies this service in recorded hits.
func NewHTTPClient(baseURL, app string, client *http.Client, logger *slog.Logger) domain.StatsClient {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &statsHTTPClient{baseURL: baseURL, app: app, client: client, logger: logger}
}

// Hit records a view. Failures are logged and swallowed so an unavailable
// stats service never breaks the caller's request.
func (c *statsHTTPClient) Hit(ctx context.Context, uri, ip string, timestamp time.Time) {
	body, err := json.Marshal(hitRequest{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: timestamp.Format(wireTimeLayout),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode hit", "uri", uri, "err", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		c.logger.WarnContext(ctx, "failed to create hit request", "uri", uri, "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to record hit", "uri", uri, "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		c.logger.WarnContext(ctx, "stats service rejected hit", "uri", uri, "status", resp.StatusCode)
	}
}

func (c *statsHTTPClient) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error) {
	params := url.Values{}
	params.Set("start", start.Format(wireTimeLayout))
	params.Set("end", end.Format(wireTimeLayout))
	for _, uri := range uris {
		params.Add("uris", uri)
	}
	params.Set("unique", strconv.FormatBool(unique))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats service returned status: %d", resp.StatusCode)
	}

	var data []domain.ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}
	return data, nil
}
