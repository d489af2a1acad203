package dashboard

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revwatch/revwatch/internal/collector"
	"github.com/revwatch/revwatch/internal/config"
	"github.com/revwatch/revwatch/internal/errors"
	"github.com/revwatch/revwatch/internal/logger"
	"github.com/revwatch/revwatch/internal/probe"
	"github.com/revwatch/revwatch/internal/render"
	"github.com/revwatch/revwatch/internal/store"
	"github.com/revwatch/revwatch/internal/store/storetest"
)

// syncBuffer makes bytes.Buffer safe for the refresh goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// okRunner answers every probe successfully so tool probes never spawn
// real processes.
type okRunner struct{}

func (okRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte(name + " 1.0\n"), nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Refresh.Interval = 100 * time.Millisecond
	return cfg
}

func newTestDashboard(t *testing.T, fake *storetest.Fake) (*Dashboard, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	dash := New(Options{
		Config:   testConfig(),
		Out:      out,
		Renderer: render.New(render.WithColor(false)),
		Prober:   probe.NewWithRunner(okRunner{}, time.Second),
		Logger:   logger.Noop(),
		Version:  "test",
		NewSession: func(sessionID string) store.Session {
			return fake
		},
	})
	return dash, out
}

func TestDisplayBeforeInitialize(t *testing.T) {
	dash, _ := newTestDashboard(t, &storetest.Fake{})

	err := dash.Display()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrState))
	assert.Contains(t, err.Error(), "not initialized")
}

func TestInitializeBindsSession(t *testing.T) {
	fake := &storetest.Fake{
		StatsValue: store.Stats{ShortTerm: 7},
	}
	dash, out := newTestDashboard(t, fake)

	require.NoError(t, dash.Initialize("review-42"))
	assert.Equal(t, 1, fake.InitCalls)

	require.NoError(t, dash.Display())
	report := out.String()
	assert.Contains(t, report, "short-term 7")
	assert.Contains(t, report, `session "review-42" bound`)
}

func TestInitializeIdempotent(t *testing.T) {
	fake := &storetest.Fake{}
	dash, _ := newTestDashboard(t, fake)

	require.NoError(t, dash.Initialize("s1"))
	require.NoError(t, dash.Initialize("s1"))
	assert.Equal(t, 1, fake.InitCalls, "re-initializing must not rebind")
}

func TestInitializeDegradesOnStoreFailure(t *testing.T) {
	fake := &storetest.Fake{InitErr: errors.New(errors.ErrStore, "artifact missing", "")}
	dash, out := newTestDashboard(t, fake)

	// The failure degrades rather than aborts.
	require.NoError(t, dash.Initialize("broken"))

	require.NoError(t, dash.Display())
	report := out.String()
	assert.Contains(t, report, `session "broken" failed to initialize`)

	// The error activity derived an alert.
	assert.NotEmpty(t, dash.ActiveAlerts())
}

func TestReportWithoutWriting(t *testing.T) {
	dash, out := newTestDashboard(t, &storetest.Fake{})
	require.NoError(t, dash.Initialize("s1"))

	report, err := dash.Report()
	require.NoError(t, err)
	assert.Contains(t, report, "revwatch — review pipeline status")
	assert.Empty(t, out.String(), "Report must not write to the output")
}

func TestStatusReturnsSnapshot(t *testing.T) {
	fake := &storetest.Fake{
		TodosValue: []store.Todo{{ID: "t1", Status: store.TaskPending}},
	}
	dash, _ := newTestDashboard(t, fake)
	require.NoError(t, dash.Initialize("s1"))

	snap, err := dash.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Memory.Tasks.Pending)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestAutoRefreshLifecycle(t *testing.T) {
	dash, out := newTestDashboard(t, &storetest.Fake{})
	require.NoError(t, dash.Initialize("s1"))

	require.NoError(t, dash.StartAutoRefresh())
	// Idempotent while running.
	require.NoError(t, dash.StartAutoRefresh())

	// The immediate display plus at least one scheduled one.
	time.Sleep(250 * time.Millisecond)
	dash.StopAutoRefresh()
	dash.StopAutoRefresh() // idempotent when stopped

	reports := strings.Count(out.String(), "revwatch — review pipeline status")
	assert.GreaterOrEqual(t, reports, 2)

	// No further displays after stop.
	before := out.String()
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, before, out.String())
}

func TestStartAutoRefreshRequiresInitialize(t *testing.T) {
	dash, _ := newTestDashboard(t, &storetest.Fake{})

	err := dash.StartAutoRefresh()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrState))
}

func TestCloseReleasesStoreOnce(t *testing.T) {
	fake := &storetest.Fake{}
	dash, _ := newTestDashboard(t, fake)
	require.NoError(t, dash.Initialize("s1"))

	require.NoError(t, dash.Close())
	require.NoError(t, dash.Close())
	assert.Equal(t, 1, fake.CloseCalls)
}

func TestClosedDashboardRejectsUse(t *testing.T) {
	dash, _ := newTestDashboard(t, &storetest.Fake{})
	require.NoError(t, dash.Initialize("s1"))
	require.NoError(t, dash.Close())

	err := dash.Display()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrState))

	err = dash.Initialize("s2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")
}

func TestCloseStopsAutoRefresh(t *testing.T) {
	dash, out := newTestDashboard(t, &storetest.Fake{})
	require.NoError(t, dash.Initialize("s1"))
	require.NoError(t, dash.StartAutoRefresh())

	require.NoError(t, dash.Close())

	before := out.String()
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, before, out.String(), "no displays may run after Close")
}

func TestAlertPassthrough(t *testing.T) {
	dash, _ := newTestDashboard(t, &storetest.Fake{})

	id := dash.CreateAlert(collector.AlertWarning, collector.CategoryUser, "manual check needed", nil)
	require.NotEmpty(t, id)
	require.Len(t, dash.ActiveAlerts(), 1)

	assert.True(t, dash.AcknowledgeAlert(id))
	assert.Empty(t, dash.ActiveAlerts())
	assert.False(t, dash.AcknowledgeAlert("missing-id"))
}

func TestInterval(t *testing.T) {
	dash, _ := newTestDashboard(t, &storetest.Fake{})
	assert.Equal(t, 100*time.Millisecond, dash.Interval())
}
