// Package tuya implements the signed HTTP client for the Tuya cloud API.
// Every call returns the upstream envelope's result on success, or an error
// carrying the upstream message; callers map those errors onto the gateway's
// failure taxonomy.
package tuya

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Kaua-Lazarim/TesteTuya/internal/config"
	"github.com/Kaua-Lazarim/TesteTuya/internal/domain"
	"github.com/Kaua-Lazarim/TesteTuya/internal/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// tokenRefreshMargin refreshes the access token slightly before upstream
// expires it, so in-flight requests never race the expiry.
const tokenRefreshMargin = 60 * time.Second

// envelope is the tagged result every Tuya endpoint returns. Success must be
// checked before Result is touched.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Msg     string          `json:"msg"`
	Result  json.RawMessage `json:"result"`
	T       int64           `json:"t"`
}

type tokenResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpireTime   int64  `json:"expire_time"` // seconds
	UID          string `json:"uid"`
}

// StatisticsResult is the daily statistics payload. Values is a JSON object
// serialized as a string, keyed by day in YYYYMMDD form.
type StatisticsResult struct {
	StatType string `json:"stat_type"`
	Values   string `json:"values"`
}

type logsResult struct {
	Logs []logEntry `json:"logs"`
}

type logEntry struct {
	Code      string `json:"code"`
	Value     string `json:"value"`
	EventTime int64  `json:"event_time"`
}

// Client issues signed requests to the Tuya cloud API. The credentials and
// base URL are fixed at construction for the process lifetime; the cached
// access token is the only mutable state.
type Client struct {
	httpClient *resty.Client
	cfg        config.TuyaConfig
	logger     *zap.Logger

	mu          sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(cfg config.TuyaConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
}

// ListDevices returns every device bound to the configured cloud account user.
func (c *Client) ListDevices(ctx context.Context, uid string) ([]domain.Device, error) {
	raw, err := c.call(ctx, "list_devices", "GET", "/v1.0/users/"+url.PathEscape(uid)+"/devices", nil, nil)
	if err != nil {
		return nil, err
	}

	var devices []domain.Device
	if err := json.Unmarshal(raw, &devices); err != nil {
		return nil, fmt.Errorf("decode device list: %w", err)
	}
	return devices, nil
}

// GetStatus returns the full current status list for a device.
func (c *Client) GetStatus(ctx context.Context, deviceID string) ([]domain.StatusPoint, error) {
	raw, err := c.call(ctx, "get_status", "GET", "/v1.0/devices/"+url.PathEscape(deviceID)+"/status", nil, nil)
	if err != nil {
		return nil, err
	}

	var points []domain.StatusPoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("decode status list: %w", err)
	}
	return points, nil
}

// SendCommands dispatches control commands to a device.
func (c *Client) SendCommands(ctx context.Context, deviceID string, commands []domain.Command) error {
	body := map[string]any{"commands": commands}
	_, err := c.call(ctx, "send_commands", "POST", "/v1.0/devices/"+url.PathEscape(deviceID)+"/commands", nil, body)
	return err
}

// GetDailyStatistics fetches the pre-aggregated per-day statistics bucket for
// the given codes over [startDay, endDay] (YYYYMMDD).
func (c *Client) GetDailyStatistics(ctx context.Context, deviceID string, codes []string, startDay, endDay string) (*StatisticsResult, error) {
	query := url.Values{}
	query.Set("code", strings.Join(codes, ","))
	query.Set("start_day", startDay)
	query.Set("end_day", endDay)
	query.Set("stat_type", "sum")

	raw, err := c.call(ctx, "get_daily_statistics", "GET", "/v1.0/devices/"+url.PathEscape(deviceID)+"/statistics/days", query, nil)
	if err != nil {
		return nil, err
	}

	var result StatisticsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode statistics: %w", err)
	}
	return &result, nil
}

// GetLogs fetches the device report log for the given codes over
// [start, end] in ms since epoch. Upstream orders entries newest-first.
func (c *Client) GetLogs(ctx context.Context, deviceID string, codes []string, logType int, start, end int64) ([]domain.EnergyReading, error) {
	query := url.Values{}
	query.Set("codes", strings.Join(codes, ","))
	query.Set("type", strconv.Itoa(logType))
	query.Set("start_time", strconv.FormatInt(start, 10))
	query.Set("end_time", strconv.FormatInt(end, 10))
	query.Set("size", "100")

	raw, err := c.call(ctx, "get_logs", "GET", "/v1.0/devices/"+url.PathEscape(deviceID)+"/logs", query, nil)
	if err != nil {
		return nil, err
	}

	var result logsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}

	readings := make([]domain.EnergyReading, len(result.Logs))
	for i, entry := range result.Logs {
		readings[i] = domain.EnergyReading{Value: entry.Value, EventTime: entry.EventTime}
	}
	return readings, nil
}

// GetSpecifications returns the raw capability metadata for a device,
// untouched.
func (c *Client) GetSpecifications(ctx context.Context, deviceID string) (json.RawMessage, error) {
	return c.call(ctx, "get_specifications", "GET", "/v1.0/devices/"+url.PathEscape(deviceID)+"/specifications", nil, nil)
}

// call executes one signed request and unwraps the envelope. operation labels
// the upstream metrics.
func (c *Client) call(ctx context.Context, operation, method, path string, query url.Values, body any) (json.RawMessage, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(operation, "token_error").Inc()
		return nil, err
	}

	start := time.Now()
	raw, err := c.execute(ctx, method, path, query, body, token)
	metrics.UpstreamRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(operation, "error").Inc()
		c.logger.Error("Tuya API call failed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues(operation, "success").Inc()
	return raw, nil
}

// execute signs and performs a single request. An empty token means the token
// endpoint itself is being called.
func (c *Client) execute(ctx context.Context, method, path string, query url.Values, body any, token string) (json.RawMessage, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	signedPath := path
	if encoded := query.Encode(); encoded != "" {
		signedPath = path + "?" + encoded
	}

	var response envelope
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeaders(c.signHeaders(method, signedPath, bodyBytes, token)).
		SetResult(&response).
		SetError(&response)
	if bodyBytes != nil {
		req.SetBody(bodyBytes)
	}

	resp, err := req.Execute(method, signedPath)
	if err != nil {
		return nil, fmt.Errorf("tuya request: %w", err)
	}

	if !response.Success {
		msg := response.Msg
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("tuya api error (code %d): %s", response.Code, msg)
	}
	return response.Result, nil
}

// ensureToken returns a valid access token, refreshing it when missing or
// within tokenRefreshMargin of expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	token := c.accessToken
	expiry := c.tokenExpiry
	c.mu.RUnlock()

	if token != "" && time.Now().Before(expiry.Add(-tokenRefreshMargin)) {
		return token, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another request may have refreshed while we waited on the lock
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenRefreshMargin)) {
		return c.accessToken, nil
	}

	query := url.Values{}
	query.Set("grant_type", "1")
	raw, err := c.execute(ctx, "GET", "/v1.0/token", query, nil, "")
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	var result tokenResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpireTime) * time.Second)
	metrics.UpstreamTokenRefreshes.Inc()

	c.logger.Info("Tuya access token refreshed",
		zap.Time("expires_at", c.tokenExpiry))

	return c.accessToken, nil
}
