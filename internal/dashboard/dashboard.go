// Package dashboard orchestrates collection and rendering: it owns one
// Collector and one Renderer, drives the display-refresh loop, and exposes
// the activity/alert logging API to the rest of the process.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/revwatch/revwatch/internal/collector"
	"github.com/revwatch/revwatch/internal/config"
	"github.com/revwatch/revwatch/internal/errors"
	"github.com/revwatch/revwatch/internal/logger"
	"github.com/revwatch/revwatch/internal/probe"
	"github.com/revwatch/revwatch/internal/render"
	"github.com/revwatch/revwatch/internal/store"
)

// Dashboard drives the collect → render → write cycle. Lifecycle:
// uninitialized → initialized → (displaying | auto-refreshing) → closed.
type Dashboard struct {
	cfg       *config.Config
	collector *collector.Collector
	renderer  *render.Renderer
	out       io.Writer
	interval  time.Duration
	log       logger.Logger

	newSession func(sessionID string) store.Session

	mu          sync.Mutex
	initialized bool
	closed      bool
	busy        bool // a display cycle is running; ticks are skipped
	cancel      context.CancelFunc
	done        chan struct{}
}

// Options configures a Dashboard.
type Options struct {
	Config     *config.Config
	Out        io.Writer        // defaults to os.Stdout
	Renderer   *render.Renderer // defaults to one built from config
	Prober     *probe.Prober    // defaults to a local prober with the configured timeout
	Logger     logger.Logger    // defaults to an env logger
	Version    string           // build version shown in system status
	NewSession func(sessionID string) store.Session // test seam; defaults to the file store
}

// New creates a Dashboard from config.
func New(opts Options) *Dashboard {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewEnvLogger("[dashboard]")
	}
	if opts.Prober == nil {
		if cfg.Probes.RemoteHost != "" {
			runner := probe.NewSSHRunner(cfg.Probes.RemoteHost, 0)
			opts.Prober = probe.NewWithRunner(runner, cfg.Probes.Timeout)
		} else {
			opts.Prober = probe.New(cfg.Probes.Timeout)
		}
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New(render.WithBarWidth(cfg.Output.BarWidth))
	}
	if opts.NewSession == nil {
		storePath := cfg.Session.Store
		opts.NewSession = func(sessionID string) store.Session {
			return store.NewFileStore(storePath, sessionID)
		}
	}

	return &Dashboard{
		cfg: cfg,
		collector: collector.New(collector.Options{
			StorePath:   cfg.Session.Store,
			Version:     opts.Version,
			Environment: cfg.Environment,
			Prober:      opts.Prober,
			Logger:      opts.Logger,
		}),
		renderer:   opts.Renderer,
		out:        opts.Out,
		interval:   cfg.Refresh.Interval,
		log:        opts.Logger,
		newSession: opts.NewSession,
	}
}

// Initialize binds a store session. A store that fails to initialize is
// still bound: subsequent queries degrade gracefully and the failure is
// recorded as an error activity entry rather than aborting.
func (d *Dashboard) Initialize(sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errors.New(errors.ErrState,
			"Dashboard already closed",
			"Create a new dashboard instead of reusing a closed one")
	}
	if d.initialized {
		return nil
	}

	session := d.newSession(sessionID)
	if err := session.Initialize(); err != nil {
		d.log.Debug("store initialize failed: %v", err)
		d.collector.LogActivity(collector.ActivityError, collector.CategorySystem,
			fmt.Sprintf("session %q failed to initialize", sessionID), nil)
	} else {
		d.collector.LogActivity(collector.ActivityInfo, collector.CategorySystem,
			fmt.Sprintf("session %q bound", sessionID), nil)
	}
	d.collector.Bind(session)
	d.initialized = true
	return nil
}

// Display performs one collect+render+write cycle.
func (d *Dashboard) Display() error {
	report, err := d.Report()
	if err != nil {
		return err
	}
	_, err = io.WriteString(d.out, report)
	return err
}

// Report performs one collect+render cycle without writing, for callers
// that present the output themselves (the watch TUI).
func (d *Dashboard) Report() (string, error) {
	if err := d.requireInitialized(); err != nil {
		return "", err
	}
	snap := d.collector.Collect(context.Background())
	return d.renderer.Render(snap), nil
}

// Status returns a fresh snapshot without rendering.
func (d *Dashboard) Status() (collector.Snapshot, error) {
	if err := d.requireInitialized(); err != nil {
		return collector.Snapshot{}, err
	}
	return d.collector.Collect(context.Background()), nil
}

// StartAutoRefresh performs one immediate display, then schedules repeated
// displays at the configured interval. Idempotent: calling it while
// already refreshing is a no-op. A tick arriving while the previous cycle
// is still running is skipped, so slow collections never stack.
func (d *Dashboard) StartAutoRefresh() error {
	if err := d.requireInitialized(); err != nil {
		return err
	}

	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	done := d.done
	d.mu.Unlock()

	d.displayTick()

	go func() {
		defer close(done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.displayTick()
			}
		}
	}()

	return nil
}

// StopAutoRefresh cancels future scheduled displays. An in-flight cycle
// runs to completion. Idempotent when not running.
func (d *Dashboard) StopAutoRefresh() {
	d.mu.Lock()
	cancel := d.cancel
	done := d.done
	d.cancel = nil
	d.done = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Close stops any refresh and releases the store binding. Safe to call
// multiple times.
func (d *Dashboard) Close() error {
	d.StopAutoRefresh()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.initialized = false
	d.mu.Unlock()

	return d.collector.Close()
}

// Interval returns the configured refresh interval.
func (d *Dashboard) Interval() time.Duration {
	return d.interval
}

// LogActivity forwards to the collector's activity buffer.
func (d *Dashboard) LogActivity(typ collector.ActivityType, category collector.Category, message string, details map[string]any) {
	d.collector.LogActivity(typ, category, message, details)
}

// CreateAlert forwards to the collector's alert buffer.
func (d *Dashboard) CreateAlert(severity collector.AlertSeverity, category collector.Category, message string, details map[string]any) string {
	return d.collector.CreateAlert(severity, category, message, details)
}

// ActiveAlerts forwards to the collector.
func (d *Dashboard) ActiveAlerts() []collector.Alert {
	return d.collector.ActiveAlerts()
}

// AcknowledgeAlert forwards to the collector.
func (d *Dashboard) AcknowledgeAlert(id string) bool {
	return d.collector.AcknowledgeAlert(id)
}

// displayTick runs one display cycle unless one is already running.
func (d *Dashboard) displayTick() {
	d.mu.Lock()
	if d.busy || d.closed {
		d.mu.Unlock()
		return
	}
	d.busy = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()
	}()

	if err := d.Display(); err != nil {
		d.log.Debug("display cycle failed: %v", err)
	}
}

func (d *Dashboard) requireInitialized() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New(errors.ErrState,
			"Dashboard already closed",
			"Create a new dashboard instead of reusing a closed one")
	}
	if !d.initialized {
		return errors.New(errors.ErrState,
			"Dashboard not initialized",
			"Call Initialize with a session id first")
	}
	return nil
}
