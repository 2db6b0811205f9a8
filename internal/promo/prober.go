package promo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Prober checks candidate images for reachability with lightweight HEAD
// requests. Probes are rate limited: a playlist rebuild fires one
// request per candidate in a burst, and the asset host may be a small
// box that also serves the display itself.
type Prober struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

func NewProber(baseURL string, rps float64, burst int) *Prober {
	if rps <= 0 {
		rps = 4
	}
	if burst <= 0 {
		burst = 1
	}
	return &Prober{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Resolve turns a candidate identifier into a fetchable URL.
func (p *Prober) Resolve(candidate string) string {
	if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
		return candidate
	}
	if p.baseURL == "" {
		return candidate
	}
	return p.baseURL + "/" + strings.TrimLeft(candidate, "/")
}

// Probe returns the candidates that answered a HEAD request with a
// success status, preserving candidate order. No body is downloaded.
func (p *Prober) Probe(ctx context.Context, candidates []string) []string {
	var reachable []string
	for _, candidate := range candidates {
		if err := p.limiter.Wait(ctx); err != nil {
			return reachable
		}
		if p.exists(ctx, p.Resolve(candidate)) {
			reachable = append(reachable, candidate)
		}
	}
	return reachable
}

func (p *Prober) exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Preload fetches and drains an image so a swap never publishes an
// asset that is missing or truncated. The read stands in for the
// decode step a browser would do before a crossfade.
func (p *Prober) Preload(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("preload request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("preload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("preload bad status: %s", resp.Status)
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("preload read: %w", err)
	}
	return nil
}
