package hostaway

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flex_reviews/internal/adapters/httpretry"
	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

//go:embed mock_reviews.json
var fixture []byte

// Provider serves the canonical review set. With an API key it calls the
// Hostaway reviews endpoint; without one it serves the embedded fixture
// snapshot (the sandbox account exposes no reviews).
type Provider struct {
	base    string
	account string
	key     string
	hc      *http.Client
	rl      *rate.Limiter
}

func New(base, account, key string, rps int) *Provider {
	if rps <= 0 {
		rps = 5
	}
	return &Provider{
		base:    strings.TrimRight(base, "/"),
		account: account,
		key:     key,
		hc:      &http.Client{Timeout: 20 * time.Second},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (p *Provider) FetchReviews(ctx context.Context) ([]domain.Review, error) {
	if p.key == "" {
		return fixtureReviews()
	}
	return p.fetchRemote(ctx)
}

// fixtureReviews decodes a fresh copy per call so callers can never reach
// the embedded snapshot through a shared backing array.
func fixtureReviews() ([]domain.Review, error) {
	var out []domain.Review
	if err := json.Unmarshal(fixture, &out); err != nil {
		return nil, fmt.Errorf("decode embedded reviews: %w", err)
	}
	return out, nil
}

func (p *Provider) fetchRemote(ctx context.Context) ([]domain.Review, error) {
	url := fmt.Sprintf("%s/reviews?accountId=%s", p.base, p.account)
	var body struct {
		Status string          `json:"status"`
		Result []domain.Review `json:"result"`
	}
	if err := p.get(ctx, url, &body); err != nil {
		return nil, err
	}
	if body.Status != "" && body.Status != "success" {
		return nil, fmt.Errorf("hostaway: status %q", body.Status)
	}
	return body.Result, nil
}

// get performs a GET with client-side rate limiting, retries on 429 and
// transient 5xx (honoring Retry-After), and decodes JSON into out.
func (p *Provider) get(ctx context.Context, url string, out any) error {
	if err := p.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+p.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "flex-reviews/1.0")

		start := time.Now()
		resp, err := p.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("hostaway", "reviews", 0, time.Since(start))
			lastErr = err
			if i < 3 && httpretry.Sleep(ctx, httpretry.Backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		observability.ObserveExternal("hostaway", "reviews", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return domain.ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return domain.ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := httpretry.After(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = httpretry.Backoff(i)
			}
			lastErr = fmt.Errorf("hostaway: remote %d", resp.StatusCode)
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
			return fmt.Errorf("hostaway: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}
