package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"playharvest/pkg/config"
	errs "playharvest/pkg/errors"
	"playharvest/pkg/logger"
	"playharvest/pkg/ratelimit"
)

// AppsPath is the listing endpoint of a google-play-scraper compatible
// REST gateway
const AppsPath = "/api/apps/"

// Source is the remote fetch boundary. Fetch returns one page (or one fixed
// list) of records for the query.
type Source interface {
	Fetch(ctx context.Context, q Query) ([]App, error)
}

// Client fetches app listings from a catalog gateway over HTTP
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// NewClient creates a gateway client. A nil limiter disables throttling and
// a nil logger falls back to the global logger.
func NewClient(cfg config.CatalogConfig, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": cfg.UserAgent,
	}
	if cfg.APIKey != "" {
		headers["X-API-Key"] = cfg.APIKey
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		headers:    headers,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    limiter,
		logger:     log,
	}
}

// Fetch requests one listing page. Category, country and size are always
// sent; start is sent for paginated queries and collection for fixed lists.
func (c *Client) Fetch(ctx context.Context, q Query) ([]App, error) {
	endpoint := c.listURL(q)

	var apps []App
	if err := c.getJSON(ctx, endpoint, &apps); err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("fetched listing", map[string]interface{}{
		"country":    q.Country,
		"category":   q.Category,
		"collection": q.Collection,
		"start":      q.Start,
		"count":      len(apps),
	})
	return apps, nil
}

func (c *Client) listURL(q Query) string {
	params := url.Values{}
	params.Set("category", q.Category)
	params.Set("country", q.Country)
	params.Set("num", strconv.Itoa(q.Num))
	if q.Collection != "" {
		params.Set("collection", q.Collection)
	} else {
		params.Set("start", strconv.Itoa(q.Start))
	}
	if q.FullDetail {
		params.Set("fullDetail", "true")
	}
	return c.baseURL + AppsPath + "?" + params.Encode()
}

// doRequest waits for the rate limiter then performs the request with the
// configured headers
func (c *Client) doRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	for key, value := range c.headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.WithError(err).WarnWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"duration": duration,
		})
		return nil, errs.New(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, duration)
	return resp, nil
}

// getJSON performs a GET request and decodes a listing body. The gateway
// answers with either a bare array or an object with a results array.
func (c *Client) getJSON(ctx context.Context, endpoint string, target *[]App) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}

	resp, err := c.doRequest(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	skipped, err := decodeListing(body, target)
	if err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          endpoint,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errs.New(errs.ErrorTypeParsing, resp.StatusCode, "failed to parse JSON: %v", err)
	}

	for _, s := range skipped {
		c.logger.DebugWithFields("skipping malformed record", map[string]interface{}{
			"url":   endpoint,
			"index": s.index,
			"error": s.err.Error(),
		})
	}
	return nil
}

type skippedRecord struct {
	index int
	err   error
}

// decodeListing decodes each record on its own. Only a body that is not a
// listing at all is an error; records that fail to decode are reported and
// left out.
func decodeListing(body []byte, target *[]App) ([]skippedRecord, error) {
	trimmed := bytes.TrimSpace(body)

	var raw []json.RawMessage
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Results []json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		raw = envelope.Results
	} else if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}

	apps := make([]App, 0, len(raw))
	var skipped []skippedRecord
	for i, msg := range raw {
		var app App
		if err := json.Unmarshal(msg, &app); err != nil {
			skipped = append(skipped, skippedRecord{index: i, err: err})
			continue
		}
		apps = append(apps, app)
	}
	*target = apps
	return skipped, nil
}

// checkResponseStatus maps a non-2xx status to a typed error
func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	errorType := errs.FromStatusCode(resp.StatusCode)
	message := fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	switch errorType {
	case errs.ErrorTypeRateLimit:
		message = "rate limit exceeded"
		if after := resp.Header.Get("Retry-After"); after != "" {
			message += " (retry after " + after + ")"
		}
	case errs.ErrorTypeAuth:
		message = "gateway rejected credentials"
	case errs.ErrorTypeNotFound:
		message = "listing not found"
	case errs.ErrorTypeServerError:
		message = "server error"
	}

	return errs.New(errorType, resp.StatusCode, "%s", message)
}
