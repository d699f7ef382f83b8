package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultFeedURL is the USD-based rate feed the refresh hits.
const DefaultFeedURL = "https://api.exchangerate-api.com/v4/latest/USD"

const feedTimeout = 10 * time.Second

// fetchRatesFn is a small overridable seam used to fetch the rate feed.
// Tests can replace it to avoid real I/O.
var fetchRatesFn = func(ctx context.Context, url string) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rates: build request: %w", err)
	}

	client := &http.Client{Timeout: feedTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates: fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("rates: read feed: %w", err)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("rates: decode feed: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates: feed returned no rates")
	}
	return payload.Rates, nil
}

// Refresh fetches the rate feed and returns a fresh table. On any
// failure it returns the static fallback table along with the error, so
// callers can keep converting while reporting the degraded source.
func Refresh(ctx context.Context, url string) (*Table, error) {
	if url == "" {
		url = DefaultFeedURL
	}

	fetched, err := fetchRatesFn(ctx, url)
	if err != nil {
		return Fallback(), err
	}
	return NewTable(fetched, time.Now()), nil
}
