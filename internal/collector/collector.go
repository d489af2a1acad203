// Package collector gathers point-in-time status snapshots from the
// session store, from external tool probes, and from its own in-memory
// activity and alert buffers. Collection never fails: sub-collection
// errors degrade the affected fields and surface as logged error activity
// instead of propagating to the caller.
package collector

import (
	"context"
	"math"
	"os"
	"sync"
	"time"

	"github.com/revwatch/revwatch/internal/logger"
	"github.com/revwatch/revwatch/internal/probe"
	"github.com/revwatch/revwatch/internal/store"
)

// Options configures a Collector.
type Options struct {
	// StorePath is where the store artifact lives; its existence drives
	// the connectivity reading even before a session is bound.
	StorePath   string
	Version     string
	Environment string
	Prober      *probe.Prober
	Catalogue   []ToolSpec // nil uses the default catalogue
	Logger      logger.Logger
}

// Collector is the leaf status producer. It exclusively owns its activity
// and alert ring buffers; the bound store session is read-only shared by
// its sub-collections and released once, at Close.
type Collector struct {
	storePath   string
	version     string
	environment string
	prober      *probe.Prober
	catalogue   []ToolSpec
	log         logger.Logger
	startedAt   time.Time

	mu       sync.Mutex
	session  store.Session
	activity []ActivityEntry
	alerts   []Alert
}

// New creates a Collector. Uptime is measured from this call.
func New(opts Options) *Collector {
	if opts.Prober == nil {
		opts.Prober = probe.New(probe.DefaultTimeout)
	}
	if opts.Catalogue == nil {
		opts.Catalogue = defaultCatalogue()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewEnvLogger("[collector]")
	}
	return &Collector{
		storePath:   opts.StorePath,
		version:     opts.Version,
		environment: opts.Environment,
		prober:      opts.Prober,
		catalogue:   opts.Catalogue,
		log:         opts.Logger,
		startedAt:   time.Now(),
	}
}

// Bind attaches a store session. The collector owns the binding until
// Close releases it.
func (c *Collector) Bind(s store.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// Close releases the store binding. Safe to call multiple times.
func (c *Collector) Close() error {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Close()
}

// boundSession returns the current session or nil.
func (c *Collector) boundSession() store.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Collect produces a fresh snapshot. The four sub-collections are
// independent and run concurrently; all join before the snapshot returns,
// so overall latency is bounded by the slowest single sub-collection.
func (c *Collector) Collect(ctx context.Context) Snapshot {
	snap := Snapshot{Timestamp: time.Now()}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); snap.System = c.collectSystem() }()
	go func() { defer wg.Done(); snap.Tools = c.collectTools(ctx) }()
	go func() { defer wg.Done(); snap.Memory = c.collectMemory() }()
	go func() { defer wg.Done(); snap.Progress = c.collectProgress() }()
	wg.Wait()

	snap.RecentActivity = c.RecentActivity(snapshotActivityLimit)
	snap.Alerts = c.ActiveAlerts()
	return snap
}

// collectSystem checks store artifact existence and size. Connected means
// the artifact is present on disk; health is healthy iff connected.
func (c *Collector) collectSystem() SystemStatus {
	status := SystemStatus{
		Health:      HealthDegraded,
		Uptime:      time.Since(c.startedAt),
		Version:     c.version,
		Environment: c.environment,
		StorePath:   c.storePath,
	}

	info, err := os.Stat(c.storePath)
	if err == nil && !info.IsDir() {
		status.StoreConnected = true
		status.StoreSizeBytes = info.Size()
		status.Health = HealthHealthy
	}

	return status
}

// collectMemory queries the store for tier counts and partitions the task
// list by status. An unbound store or failed query yields an all-zero
// status plus a logged error activity entry.
func (c *Collector) collectMemory() MemoryStatus {
	s := c.boundSession()
	if s == nil {
		c.LogActivity(ActivityError, CategoryMemory, "memory status unavailable: no session bound", nil)
		return MemoryStatus{}
	}

	stats, err := s.Stats()
	if err != nil {
		c.log.Debug("stats query failed: %v", err)
		c.LogActivity(ActivityError, CategoryMemory, "memory status unavailable: stats query failed", nil)
		return MemoryStatus{}
	}

	status := MemoryStatus{
		ShortTerm:   stats.ShortTerm,
		Working:     stats.Working,
		LongTerm:    stats.LongTerm,
		Episodic:    stats.Episodic,
		Checkpoints: stats.Checkpoints,
		Citations:   stats.Citations,
	}

	todos, err := s.Todos()
	if err != nil {
		c.log.Debug("todos query failed: %v", err)
		c.LogActivity(ActivityError, CategoryMemory, "task counts unavailable: todos query failed", nil)
		return status
	}

	for _, t := range todos {
		switch t.Status {
		case store.TaskPending:
			status.Tasks.Pending++
		case store.TaskInProgress:
			status.Tasks.InProgress++
		case store.TaskCompleted:
			status.Tasks.Completed++
		case store.TaskBlocked:
			status.Tasks.Blocked++
		}
	}

	return status
}

// collectProgress derives per-phase and overall progress from the store's
// phase and task records. Tasks attach to phases by phase-name match;
// unmatched names simply contribute nothing.
func (c *Collector) collectProgress() ProgressStatus {
	s := c.boundSession()
	if s == nil {
		return ProgressStatus{}
	}

	phases, err := s.PhaseProgress()
	if err != nil {
		c.log.Debug("phase query failed: %v", err)
		c.LogActivity(ActivityError, CategoryProgress, "progress unavailable: phase query failed", nil)
		return ProgressStatus{}
	}
	if len(phases) == 0 {
		return ProgressStatus{}
	}

	todos, err := s.Todos()
	if err != nil {
		// Phases still render, just with zero task counts.
		c.LogActivity(ActivityError, CategoryProgress, "phase task counts unavailable: todos query failed", nil)
		todos = nil
	}

	status := ProgressStatus{Phases: make([]PhaseProgress, 0, len(phases))}
	completedPhases := 0

	for _, ph := range phases {
		progress := PhaseProgress{
			Name:              ph.Name,
			Status:            ph.Status,
			StartedAt:         ph.StartedAt,
			CompletedAt:       ph.CompletedAt,
			QualityGatePassed: ph.QualityGatePassed,
		}

		for _, t := range todos {
			if t.Phase != ph.Name {
				continue
			}
			progress.TotalTasks++
			if t.Status == store.TaskCompleted {
				progress.CompletedTasks++
			}
			if t.Status == store.TaskInProgress && status.CurrentTask == "" {
				status.CurrentTask = t.Title
			}
		}

		progress.Percent = roundPercent(progress.CompletedTasks, progress.TotalTasks)

		if ph.Status == store.PhaseCompleted {
			completedPhases++
		}
		if ph.Status == store.PhaseInProgress && status.CurrentPhase == "" {
			status.CurrentPhase = ph.Name
		}

		status.Phases = append(status.Phases, progress)
	}

	status.OverallPercent = roundPercent(completedPhases, len(phases))
	return status
}

// roundPercent computes round(100*part/total), 0 when total is 0.
func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
