// Package supabase is the PostgREST transport for the hosted database.
package supabase

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/observability"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

// New builds a client for a PostgREST base URL, e.g.
// https://xyz.supabase.co/rest/v1. rps caps outbound request rate.
func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Filter is a single column=eq.value predicate.
type Filter struct {
	Column string
	Value  string
}

// Query shapes a SELECT against one table.
type Query struct {
	Columns string // projection, defaults to *
	Filters []Filter
	Order   string // e.g. "id.asc"
	Limit   int    // 0 means no Range header
	Offset  int
}

func Eq(column, value string) Filter { return Filter{Column: column, Value: value} }

// ---- Public API ----

func (c *Client) Select(ctx context.Context, table string, q Query) ([]map[string]any, error) {
	cols := q.Columns
	if cols == "" {
		cols = "*"
	}
	vals := url.Values{}
	vals.Set("select", cols)
	for _, f := range q.Filters {
		vals.Set(f.Column, "eq."+f.Value)
	}
	if q.Order != "" {
		vals.Set("order", q.Order)
	}

	hdr := http.Header{}
	if q.Limit > 0 {
		// PostgREST range is inclusive on both ends.
		hdr.Set("Range-Unit", "items")
		hdr.Set("Range", fmt.Sprintf("%d-%d", q.Offset, q.Offset+q.Limit-1))
	}

	var out []map[string]any
	err := c.do(ctx, http.MethodGet, c.url(table, vals), nil, hdr, &out)
	return out, err
}

// Insert posts one row and returns the stored representation (PostgREST
// echoes created rows as an array).
func (c *Client) Insert(ctx context.Context, table string, row any) ([]map[string]any, error) {
	body, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Prefer", "return=representation")

	var out []map[string]any
	err = c.do(ctx, http.MethodPost, c.url(table, nil), body, hdr, &out)
	return out, err
}

// Delete removes matching rows and returns the deleted representations so
// callers can tell a no-op delete from a real one.
func (c *Client) Delete(ctx context.Context, table string, filters ...Filter) ([]map[string]any, error) {
	vals := url.Values{}
	for _, f := range filters {
		vals.Set(f.Column, "eq."+f.Value)
	}
	hdr := http.Header{}
	hdr.Set("Prefer", "return=representation")

	var out []map[string]any
	err := c.do(ctx, http.MethodDelete, c.url(table, vals), nil, hdr, &out)
	return out, err
}

// endpointOf reduces a request URL to its table name for metric labels,
// keeping query strings and hosts out of the label space.
func endpointOf(u string) string {
	p, err := url.Parse(u)
	if err != nil {
		return "unknown"
	}
	if i := strings.LastIndex(p.Path, "/"); i >= 0 {
		return p.Path[i+1:]
	}
	return p.Path
}

func (c *Client) url(table string, vals url.Values) string {
	u := c.base + "/" + table
	if len(vals) > 0 {
		u += "?" + vals.Encode()
	}
	return u
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("supabase: not found")
	ErrUnauthorized = errors.New("supabase: unauthorized")
	ErrForbidden    = errors.New("supabase: forbidden")
)

// do performs one request with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After
// when provided. The body is an owned byte slice so each attempt can rebuild
// its reader.
func (c *Client) do(ctx context.Context, method, u string, body []byte, hdr http.Header, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	endpoint := endpointOf(u)

	var lastErr error
	for i := 0; i < 4; i++ {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rd)
		if err != nil {
			return err
		}
		req.Header.Set("apikey", c.key)
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "egypt-sites-api/1.2")
		for k, vs := range hdr {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("supabase", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("supabase", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusPartialContent:
			// 206 is PostgREST's answer to a Range request.
			err := decodeNumeric(resp.Body, out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// decodeNumeric keeps numbers as json.Number so row hydration can
// stringify array elements without float formatting artifacts.
func decodeNumeric(r io.Reader, out any) error {
	if out == nil {
		_, err := io.Copy(io.Discard, r)
		return err
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(out)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
