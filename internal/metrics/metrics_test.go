package metrics

import (
	"errors"
	"testing"
)

type recordingBackend struct {
	counters   map[string]float64
	histograms map[string][]float64
	flushErr   error
	flushed    int
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		counters:   make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (r *recordingBackend) IncCounter(name string, delta float64, _ Labels) {
	r.counters[name] += delta
}

func (r *recordingBackend) ObserveHistogram(name string, value float64, _ Labels) {
	r.histograms[name] = append(r.histograms[name], value)
}

func (r *recordingBackend) Flush() error {
	r.flushed++
	return r.flushErr
}

func TestPackageFuncsDelegateToInstalledBackend(t *testing.T) {
	rb := newRecordingBackend()
	SetBackend(rb)
	t.Cleanup(func() { SetBackend(nil) })

	IncCounter(ToolRunsTotal, 1, Labels{"tool": "freq", "status": "ok"})
	IncCounter(ToolRunsTotal, 1, nil)
	ObserveHistogram(RunDurationSeconds, 0.25, nil)

	if got := rb.counters[ToolRunsTotal]; got != 2 {
		t.Fatalf("counter = %v, want 2", got)
	}
	if got := len(rb.histograms[RunDurationSeconds]); got != 1 {
		t.Fatalf("histogram samples = %d, want 1", got)
	}
}

func TestFlush_DelegatesWhenBackendBuffers(t *testing.T) {
	rb := newRecordingBackend()
	rb.flushErr = errors.New("boom")
	SetBackend(rb)
	t.Cleanup(func() { SetBackend(nil) })

	if err := Flush(); err == nil {
		t.Fatal("want flush error")
	}
	if rb.flushed != 1 {
		t.Fatalf("flushed = %d", rb.flushed)
	}
}

func TestNopDefaultIsSafe(t *testing.T) {
	SetBackend(nil)

	IncCounter(RecordsTotal, 1, nil)
	ObserveHistogram(RunDurationSeconds, 1, nil)
	if err := Flush(); err != nil {
		t.Fatalf("nop flush: %v", err)
	}
}
