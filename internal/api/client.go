// Package api is the HTTP transport to the logbook backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flight_logbook/internal/models"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for each request; an empty token
// sends no Authorization header
type TokenSource interface {
	Token() string
}

// Query filters a collection listing
type Query struct {
	Search   string
	Standard models.Standard // Airports only
}

// Client talks to the logbook backend
type Client struct {
	baseURL *url.URL
	http    *http.Client
	perPage int
	tokens  TokenSource
}

// NewClient creates a backend client. perPage is sent with every listing.
func NewClient(baseURL string, timeout time.Duration, perPage int, tokens TokenSource) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}
	if perPage <= 0 {
		return nil, fmt.Errorf("per_page must be greater than 0")
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		perPage: perPage,
		tokens:  tokens,
	}, nil
}

// PerPage returns the page size sent with listings
func (c *Client) PerPage() int {
	return c.perPage
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	slog.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, newAPIError(resp.StatusCode, respBody)
	}
	return respBody, resp.StatusCode, nil
}

func (c *Client) listQuery(q Query, page int) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(c.perPage))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Standard != "" {
		v.Set("standard", string(q.Standard))
	}
	return v
}

func list[T any](ctx context.Context, c *Client, resource models.Resource, q Query, page int) (*models.Page[T], error) {
	body, _, err := c.do(ctx, http.MethodGet, string(resource), c.listQuery(q, page), nil)
	if err != nil {
		return nil, err
	}
	p, err := models.DecodePage[T](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s page %d: %w", resource, page, err)
	}
	return p, nil
}

// ListFlights fetches one page of flights
func (c *Client) ListFlights(ctx context.Context, q Query, page int) (*models.Page[models.FlightWire], error) {
	return list[models.FlightWire](ctx, c, models.ResourceFlights, q, page)
}

// ListAircraft fetches one page of aircraft
func (c *Client) ListAircraft(ctx context.Context, q Query, page int) (*models.Page[models.AircraftRecord], error) {
	return list[models.AircraftRecord](ctx, c, models.ResourceAircraft, q, page)
}

// ListAirports fetches one page of airports; q.Standard selects the code naming standard
func (c *Client) ListAirports(ctx context.Context, q Query, page int) (*models.Page[models.AirportRecord], error) {
	return list[models.AirportRecord](ctx, c, models.ResourceAirports, q, page)
}

type roleDTO struct {
	Name string `json:"name"`
}

// ListRoles fetches the user's crew role labels
func (c *Client) ListRoles(ctx context.Context) (models.RoleSet, error) {
	body, _, err := c.do(ctx, http.MethodGet, "roles", nil, nil)
	if err != nil {
		return models.RoleSet{}, err
	}
	p, err := models.DecodePage[roleDTO](body)
	if err != nil {
		return models.RoleSet{}, fmt.Errorf("failed to decode roles: %w", err)
	}
	if p == nil {
		return models.NewRoleSet(nil), nil
	}
	labels := make([]string, 0, len(p.Items))
	for _, r := range p.Items {
		labels = append(labels, r.Name)
	}
	return models.NewRoleSet(labels), nil
}
