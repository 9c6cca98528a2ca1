// Package mealdb talks to a TheMealDB compatible recipe service.
package mealdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamidzr/recipemenu/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// Client looks up recipes by name. It never caches and never retries.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another service root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient replaces the underlying http client. Its timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the per request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit caps outgoing requests per second. Non-positive values disable it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a client for the public service unless configured otherwise.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: model.DefaultServiceURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// mealsKey holds the recipe array of a search.php body. The service answers
// "no results" with an explicit null under this key.
const mealsKey = "meals"

// decodeSearchResponse accepts exactly one JSON object carrying mealsKey.
// Anything else, including trailing data, is a ParseError.
func decodeSearchResponse(target string, body []byte) ([]model.Recipe, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ParseError{URL: target, Err: errors.Wrap(err, "decoding search response")}
	}
	if envelope == nil {
		return nil, &ParseError{URL: target, Err: errors.New("search response is null")}
	}
	raw, ok := envelope[mealsKey]
	if !ok {
		return nil, &ParseError{URL: target, Err: errors.Errorf("search response has no %q key", mealsKey)}
	}
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	recipes := []model.Recipe{}
	if err := json.Unmarshal(raw, &recipes); err != nil {
		return nil, &ParseError{URL: target, Err: errors.Wrapf(err, "decoding %q", mealsKey)}
	}
	return recipes, nil
}

// SearchURL returns the lookup url for term.
func (c *Client) SearchURL(term string) string {
	return c.baseURL + "/search.php?s=" + url.QueryEscape(term)
}

// LookupByName returns the recipes whose name matches term.
// An explicit "no results" answer yields an empty slice and a nil error.
func (c *Client) LookupByName(ctx context.Context, term string) ([]model.Recipe, error) {
	target := c.SearchURL(term)
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	recipes, err := decodeSearchResponse(target, body)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		logrus.WithField("term", term).Debug("recipe service reported no results")
		return []model.Recipe{}, nil
	}
	logrus.WithFields(logrus.Fields{"term": term, "count": len(recipes)}).Debug("recipe lookup done")
	return recipes, nil
}

// FetchImage downloads a thumbnail.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	return c.get(ctx, imageURL)
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{URL: target, Err: errors.Wrap(err, "waiting for rate limiter")}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: errors.Wrap(err, "building request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: target, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: errors.Wrapf(err, "reading body of %s", target)}
	}
	return body, nil
}
