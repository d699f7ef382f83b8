package datadog

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"datatools/internal/metrics"
)

// fakeSubmitter captures payloads submitted by Backend.Flush().
type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []datadogV2.MetricPayload
	err      error
}

func (f *fakeSubmitter) SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, body)
	return datadogV2.IntakePayloadAccepted{}, nil, f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakeSubmitter) last() (datadogV2.MetricPayload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		return datadogV2.MetricPayload{}, false
	}
	return f.payloads[len(f.payloads)-1], true
}

// newTestBackend builds a backend with all seams stubbed: a fake
// submitter, a fixed clock, and a ticker that never fires (tests drive
// Flush explicitly).
func newTestBackend(t *testing.T, sub *fakeSubmitter) *Backend {
	t.Helper()

	b, err := NewBackend(context.Background(), Options{
		JobName: "testjob",
		now:     func() time.Time { return time.Unix(1700000000, 0) },
		newTicker: func(time.Duration) *time.Ticker {
			return time.NewTicker(time.Hour)
		},
		submitter: sub,
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// TestResolveEnvTag verifies environment-tag precedence and defaults.
//
// Edge cases:
//   - ENV wins over DD_ENV.
//   - Whitespace-only env vars are ignored.
//   - If neither is set, "env:unknown" is returned.
func TestResolveEnvTag(t *testing.T) {
	oldENV := os.Getenv("ENV")
	oldDDENV := os.Getenv("DD_ENV")
	t.Cleanup(func() {
		_ = os.Setenv("ENV", oldENV)
		_ = os.Setenv("DD_ENV", oldDDENV)
	})

	tests := []struct {
		name string
		env  string
		dd   string
		want string
	}{
		{name: "ENV_wins", env: "prod", dd: "stage", want: "env:prod"},
		{name: "DD_ENV_used_when_ENV_empty", env: "", dd: "stage", want: "env:stage"},
		{name: "whitespace_ignored", env: "   ", dd: "\n\t", want: "env:unknown"},
		{name: "default_unknown", env: "", dd: "", want: "env:unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_ = os.Setenv("ENV", tc.env)
			_ = os.Setenv("DD_ENV", tc.dd)
			if got := resolveEnvTag(); got != tc.want {
				t.Fatalf("resolveEnvTag()=%q, want %q", got, tc.want)
			}
		})
	}
}

// TestToolStatusKeyRoundTrip verifies key encoding/decoding.
func TestToolStatusKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		tool   string
		status string
	}{
		{name: "normal", tool: "convert", status: "ok"},
		{name: "empty_tool", tool: "", status: "ok"},
		{name: "empty_status", tool: "join", status: ""},
		{name: "both_empty", tool: "", status: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k := toolStatusKey(tc.tool, tc.status)
			tool, status := splitToolStatusKey(k)
			if tool != tc.tool || status != tc.status {
				t.Fatalf("round trip = (%q, %q), want (%q, %q)", tool, status, tc.tool, tc.status)
			}
		})
	}
}

func TestSplitToolStatusKey_LegacyKey(t *testing.T) {
	tool, status := splitToolStatusKey("noseparator")
	if tool != "noseparator" || status != "unknown" {
		t.Fatalf("got (%q, %q)", tool, status)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    float64
		want float64
	}{
		{p: 0, want: 1},
		{p: 0.5, want: 6}, // idx = round(0.5*9) = 5
		{p: 1, want: 10},
	}
	for _, tc := range tests {
		if got := percentileNearestRank(s, tc.p); got != tc.want {
			t.Fatalf("percentileNearestRank(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if got := percentileNearestRank(nil, 0.5); got != 0 {
		t.Fatalf("empty samples = %v, want 0", got)
	}
}

func TestParseTagsCSV(t *testing.T) {
	got := ParseTagsCSV(" env:prod , service:web ,, ")
	want := []string{"env:prod", "service:web"}
	if len(got) != len(want) {
		t.Fatalf("ParseTagsCSV = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParseTagsCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if ParseTagsCSV("") != nil {
		t.Fatal("empty input should return nil")
	}
}

// TestFlush_BuffersAndResets verifies buffer accumulation, the series a
// flush builds, and that buffers are reset afterwards.
func TestFlush_BuffersAndResets(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)

	b.IncCounter(metrics.ToolRunsTotal, 1, metrics.Labels{"tool": "convert", "status": "ok"})
	b.IncCounter(metrics.ToolRunsTotal, 1, metrics.Labels{"tool": "convert", "status": "ok"})
	b.IncCounter(metrics.RecordsTotal, 3, metrics.Labels{"kind": "processed"})
	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "error"})
	b.ObserveHistogram(metrics.RunDurationSeconds, 0.5, metrics.Labels{"tool": "convert", "status": "ok"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	payload, ok := sub.last()
	if !ok {
		t.Fatal("no payload submitted")
	}

	var metricNames []string
	for _, s := range payload.Series {
		metricNames = append(metricNames, s.Metric)
	}
	sort.Strings(metricNames)

	mustInclude := []string{
		"datatools.records.total",
		"datatools.records.total",
		"datatools.run.duration_seconds.max",
		"datatools.run.duration_seconds.p50",
		"datatools.run.duration_seconds.p90",
		"datatools.run.duration_seconds.p95",
		"datatools.run.duration_seconds.p99",
		"datatools.run.duration_seconds.samples",
		"datatools.runs.total",
	}
	for _, want := range mustInclude {
		found := false
		for _, got := range metricNames {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("series %q missing; got %v", want, metricNames)
		}
	}

	// The runs counter carries the accumulated delta and the tool/status tags.
	for _, s := range payload.Series {
		if s.Metric != "datatools.runs.total" {
			continue
		}
		if got := *s.Points[0].Value; got != 2 {
			t.Fatalf("runs.total value = %v, want 2", got)
		}
		joined := strings.Join(s.Tags, ",")
		if !strings.Contains(joined, "tool:convert") || !strings.Contains(joined, "status:ok") {
			t.Fatalf("runs.total tags = %v", s.Tags)
		}
		if !strings.Contains(joined, "job:testjob") {
			t.Fatalf("base tags missing: %v", s.Tags)
		}
	}

	// Second flush with no new samples submits nothing.
	before := sub.count()
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if sub.count() != before {
		t.Fatal("empty flush still submitted a payload")
	}
}

func TestFlush_PropagatesSubmitError(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("intake down")}
	b := newTestBackend(t, sub)

	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "processed"})
	if err := b.Flush(); err == nil {
		t.Fatal("want submit error")
	}

	// Buffers were reset despite the failure.
	b2 := b.snapshotAndReset()
	if !b2.isEmpty() {
		t.Fatal("buffers not reset after failed flush")
	}
}

func TestIncCounter_IgnoresUnknownAndNonPositive(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)

	b.IncCounter("totally_unknown", 5, nil)
	b.IncCounter(metrics.ToolRunsTotal, 0, metrics.Labels{"tool": "x", "status": "ok"})
	b.IncCounter(metrics.ToolRunsTotal, -1, metrics.Labels{"tool": "x", "status": "ok"})
	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{}) // missing kind
	b.ObserveHistogram(metrics.RunDurationSeconds, -0.1, metrics.Labels{"tool": "x", "status": "ok"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if sub.count() != 0 {
		t.Fatal("nothing should have been buffered")
	}
}

func TestClose_StopsLoopAndFlushes(t *testing.T) {
	sub := &fakeSubmitter{}
	b, err := NewBackend(context.Background(), Options{
		JobName: "closejob",
		now:     func() time.Time { return time.Unix(1700000000, 0) },
		newTicker: func(time.Duration) *time.Ticker {
			return time.NewTicker(time.Hour)
		},
		submitter: sub,
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "processed"})
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if sub.count() != 1 {
		t.Fatalf("payloads = %d, want the final flush", sub.count())
	}
}

func TestConcurrentWrites(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "processed"})
				b.ObserveHistogram(metrics.RunDurationSeconds, 0.01, metrics.Labels{"tool": "freq", "status": "ok"})
			}
		}()
	}
	wg.Wait()

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	payload, ok := sub.last()
	if !ok {
		t.Fatal("no payload submitted")
	}
	for _, s := range payload.Series {
		if s.Metric == "datatools.records.total" {
			if got := *s.Points[0].Value; got != 800 {
				t.Fatalf("records.total = %v, want 800", got)
			}
		}
	}
}
