package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flex_reviews/internal/adapters/httpretry"
	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

// Client talks to the Google Places web service. The free tier allows
// 1000 requests per day, so callers are expected to cache details payloads;
// the client itself only enforces a request-per-second ceiling.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (c *Client) Configured() bool { return c.key != "" }

// PlaceDetails fetches the place's name, aggregate rating and up-to-five
// most helpful reviews. Google reports lookup failures in the body status,
// not the HTTP status.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	if c.key == "" {
		return domain.PlaceDetails{}, domain.ErrNotConfigured
	}
	u := fmt.Sprintf("%s/details/json?place_id=%s&fields=name,rating,user_ratings_total,reviews&key=%s",
		c.base, url.QueryEscape(placeID), url.QueryEscape(c.key))

	var body struct {
		Status string `json:"status"`
		Result struct {
			Name             string               `json:"name"`
			Rating           float64              `json:"rating"`
			UserRatingsTotal int                  `json:"user_ratings_total"`
			Reviews          []domain.PlaceReview `json:"reviews"`
		} `json:"result"`
	}
	if err := c.get(ctx, "details", u, &body); err != nil {
		return domain.PlaceDetails{}, err
	}
	switch body.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return domain.PlaceDetails{}, domain.ErrNotFound
	case "REQUEST_DENIED":
		return domain.PlaceDetails{}, domain.ErrUnauthorized
	default:
		return domain.PlaceDetails{}, fmt.Errorf("places: status %q", body.Status)
	}
	return domain.PlaceDetails{
		PlaceID:          placeID,
		Name:             body.Result.Name,
		Rating:           body.Result.Rating,
		UserRatingsTotal: body.Result.UserRatingsTotal,
		Reviews:          body.Result.Reviews,
	}, nil
}

// FindPlace resolves a free-text query to place candidates.
func (c *Client) FindPlace(ctx context.Context, query string) ([]domain.PlaceCandidate, error) {
	if c.key == "" {
		return nil, domain.ErrNotConfigured
	}
	u := fmt.Sprintf("%s/findplacefromtext/json?input=%s&inputtype=textquery&fields=place_id,name,formatted_address&key=%s",
		c.base, url.QueryEscape(query), url.QueryEscape(c.key))

	var body struct {
		Status     string                  `json:"status"`
		Candidates []domain.PlaceCandidate `json:"candidates"`
	}
	if err := c.get(ctx, "findplace", u, &body); err != nil {
		return nil, err
	}
	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, domain.ErrNotFound
	case "REQUEST_DENIED":
		return nil, domain.ErrUnauthorized
	default:
		return nil, fmt.Errorf("places: status %q", body.Status)
	}
	if len(body.Candidates) == 0 {
		return nil, domain.ErrNotFound
	}
	return body.Candidates, nil
}

// get performs a GET with client-side rate limiting, retries on 429 and
// transient 5xx (honoring Retry-After), and decodes JSON into out.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "flex-reviews/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("google_places", endpoint, 0, time.Since(start))
			lastErr = err
			if i < 3 && httpretry.Sleep(ctx, httpretry.Backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		observability.ObserveExternal("google_places", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrNotFound

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := httpretry.After(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = httpretry.Backoff(i)
			}
			lastErr = fmt.Errorf("places: remote %d", resp.StatusCode)
			if i < 3 && httpretry.Sleep(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("places: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}
