package persist

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhizome/indexer/internal/store"
)

// memorySink records every payload it receives.
type memorySink struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (m *memorySink) Write(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return nil
}

func (m *memorySink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

// countingExporter answers every domain with a fixed payload and can block
// inside the export to hold a flush open.
type countingExporter struct {
	calls   atomic.Int64
	entered chan struct{}
	gate    chan struct{}
	fail    atomic.Bool
}

func (c *countingExporter) export(domains []string) (map[string][]byte, error) {
	c.calls.Add(1)
	if c.entered != nil {
		c.entered <- struct{}{}
	}
	if c.gate != nil {
		<-c.gate
	}
	if c.fail.Load() {
		return nil, errors.New("export failed")
	}
	out := make(map[string][]byte, len(domains))
	for _, d := range domains {
		out[d] = []byte("payload:" + d)
	}
	return out, nil
}

func TestFlush_NoopWhenClean(t *testing.T) {
	exp := &countingExporter{}
	s := NewScheduler(exp.export, nil, nil, nil)

	require.NoError(t, s.Flush())
	assert.Zero(t, exp.calls.Load(), "a clean scheduler must not export")
}

func TestFlush_WritesDirtyDomains(t *testing.T) {
	exp := &countingExporter{}
	graph := &memorySink{}
	meta := &memorySink{}
	s := NewScheduler(exp.export, map[string]Sink{
		DomainGraph:    graph,
		DomainMetadata: meta,
	}, nil, nil)

	s.Schedule(DomainGraph, DomainMetadata)
	require.NoError(t, s.Flush())

	assert.Equal(t, int64(1), exp.calls.Load())
	require.Equal(t, 1, graph.count())
	assert.Equal(t, []byte("payload:"+DomainGraph), graph.payloads[0])
	assert.Equal(t, 1, meta.count())

	// Dirty set was consumed; a second flush is a no-op.
	require.NoError(t, s.Flush())
	assert.Equal(t, int64(1), exp.calls.Load())
}

func TestFlush_ConcurrentCallsShareOneRun(t *testing.T) {
	exp := &countingExporter{
		entered: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
	sink := &memorySink{}
	s := NewScheduler(exp.export, map[string]Sink{DomainGraph: sink}, nil, nil)
	s.Schedule(DomainGraph)

	errs := make(chan error, 2)
	go func() { errs <- s.Flush() }()
	<-exp.entered // first flush is inside the exporter
	go func() { errs <- s.Flush() }()

	// Give the second caller time to join before releasing the export.
	time.Sleep(20 * time.Millisecond)
	close(exp.gate)

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, int64(1), exp.calls.Load(), "joined callers must not trigger a second export")
	assert.Equal(t, 1, sink.count())
}

func TestFlush_RerunPicksUpMidFlushMutations(t *testing.T) {
	exp := &countingExporter{
		entered: make(chan struct{}, 2),
		gate:    make(chan struct{}),
	}
	sink := &memorySink{}
	s := NewScheduler(exp.export, map[string]Sink{DomainGraph: sink}, nil, nil)
	s.Schedule(DomainGraph)

	done := make(chan error, 1)
	go func() { done <- s.Flush() }()
	<-exp.entered

	// New dirt plus a joining flush while the first cycle is exporting.
	s.Schedule(DomainGraph)
	joined := make(chan error, 1)
	go func() { joined <- s.Flush() }()
	time.Sleep(20 * time.Millisecond)
	close(exp.gate)
	<-exp.entered // rerun cycle started

	require.NoError(t, <-done)
	require.NoError(t, <-joined)
	assert.Equal(t, int64(2), exp.calls.Load(), "mid-flush mutation must trigger exactly one rerun cycle")
	assert.Equal(t, 2, sink.count())
}

func TestFlush_FailureKeepsDomainsDirty(t *testing.T) {
	exp := &countingExporter{}
	exp.fail.Store(true)
	sink := &memorySink{}
	s := NewScheduler(exp.export, map[string]Sink{DomainGraph: sink}, nil, nil)

	s.Schedule(DomainGraph)
	require.Error(t, s.Flush())
	assert.Zero(t, sink.count())

	// The failed domain stays scheduled, so the next flush retries it.
	exp.fail.Store(false)
	require.NoError(t, s.Flush())
	assert.Equal(t, int64(2), exp.calls.Load())
	assert.Equal(t, 1, sink.count())
}

func TestFlush_MissingSink(t *testing.T) {
	exp := &countingExporter{}
	s := NewScheduler(exp.export, nil, nil, nil)

	s.Schedule("unrouted")
	err := s.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrouted")
}

func TestFlushWhenIdle_DebouncesFromLastCall(t *testing.T) {
	exp := &countingExporter{}
	sink := &memorySink{}
	s := NewScheduler(exp.export, map[string]Sink{DomainGraph: sink}, nil, nil)
	s.Schedule(DomainGraph)

	for i := 0; i < 3; i++ {
		s.FlushWhenIdle(60 * time.Millisecond)
		time.Sleep(20 * time.Millisecond)
	}
	// 40ms after the last re-arm: the window has not elapsed yet.
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, exp.calls.Load(), "flush fired before the debounce window elapsed")

	assert.Eventually(t, func() bool { return exp.calls.Load() == 1 },
		time.Second, 10*time.Millisecond, "debounced flush never fired")
	assert.Equal(t, 1, sink.count())
}

func TestDispose_CancelsPendingTimer(t *testing.T) {
	exp := &countingExporter{}
	s := NewScheduler(exp.export, map[string]Sink{DomainGraph: &memorySink{}}, nil, nil)

	s.Schedule(DomainGraph)
	s.FlushWhenIdle(30 * time.Millisecond)
	s.Dispose()

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, exp.calls.Load(), "disposed scheduler must not flush")

	// Arming after dispose is a no-op too.
	s.FlushWhenIdle(10 * time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, exp.calls.Load())
}

func TestThrottledRunner_RunsEventually(t *testing.T) {
	r := NewThrottledRunner(time.Millisecond)
	ran := make(chan struct{})
	r.RunWhenIdle(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("throttled runner never ran the function")
	}
}

func TestNewExporter_RoutesByDomain(t *testing.T) {
	exporter := NewExporter(map[string]DomainExporter{
		"a": func() ([]byte, error) { return []byte("A"), nil },
		"b": func() ([]byte, error) { return []byte("B"), nil },
	})

	payloads, err := exporter([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), payloads["a"])
	assert.Equal(t, []byte("B"), payloads["b"])

	_, err = exporter([]string{"missing"})
	require.Error(t, err)
}

func TestGraphSnapshotJSON(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.UpsertMarkdownDocument(store.MarkdownDocument{
		Path:    "a.md",
		Content: "see [[b]] and #tag",
	}))

	payload, err := GraphSnapshotJSON(st)()
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"nodes"`)
	assert.Contains(t, string(payload), "a.md")
	assert.Contains(t, string(payload), "tag:tag")
}
