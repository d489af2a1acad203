package collector

import (
	"time"

	"github.com/revwatch/revwatch/internal/store"
)

// Health is the overall system health reading.
type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthDegraded Health = "degraded"
)

// Snapshot is one immutable point-in-time aggregation of all subsystem
// statuses. A fresh one is produced on every collection.
type Snapshot struct {
	Timestamp      time.Time
	System         SystemStatus
	Tools          []ToolStatus
	Memory         MemoryStatus
	Progress       ProgressStatus
	RecentActivity []ActivityEntry
	Alerts         []Alert
}

// SystemStatus describes the observed process and store connectivity.
type SystemStatus struct {
	Health         Health
	Uptime         time.Duration
	Version        string
	Environment    string
	StoreConnected bool
	StoreSizeBytes int64
	StorePath      string
}

// ToolCategory groups tools in the catalogue.
type ToolCategory string

const (
	CategoryDatabase   ToolCategory = "database"
	CategoryCitation   ToolCategory = "citation"
	CategoryStatistics ToolCategory = "statistics"
	CategoryDocument   ToolCategory = "document"
	CategoryQuality    ToolCategory = "quality"
)

// CategoryOrder is the fixed display order for tool categories.
var CategoryOrder = []ToolCategory{
	CategoryDatabase,
	CategoryCitation,
	CategoryStatistics,
	CategoryDocument,
	CategoryQuality,
}

// ToolState is a tool's availability reading.
type ToolState string

const (
	ToolAvailable   ToolState = "available"
	ToolUnavailable ToolState = "unavailable"
	ToolDegraded    ToolState = "degraded"
	ToolUnknown     ToolState = "unknown"
)

// DependencyStatus is the probed state of one external dependency.
type DependencyStatus struct {
	Name      string
	Available bool
	Version   string
	Optional  bool
}

// ToolStatus is the probed state of one catalogue tool. A tool is
// unavailable whenever a required dependency failed its probe; degraded is
// reserved for missing optional dependencies.
type ToolStatus struct {
	Name         string
	Category     ToolCategory
	State        ToolState
	LastChecked  time.Time
	ResponseTime time.Duration
	Error        string
	Dependencies []DependencyStatus
}

// TaskCounts partitions the session's tasks by status.
type TaskCounts struct {
	Pending    int
	InProgress int
	Completed  int
	Blocked    int
}

// MemoryStatus holds per-tier memory counts plus task counts.
type MemoryStatus struct {
	ShortTerm   int
	Working     int
	LongTerm    int
	Episodic    int
	Checkpoints int
	Citations   int
	Tasks       TaskCounts
}

// PhaseProgress is a phase with derived progress. Percent is recomputed
// from the task counts on every collection, never stored independently.
type PhaseProgress struct {
	Name              string
	Status            store.PhaseStatus
	Percent           int
	CompletedTasks    int
	TotalTasks        int
	StartedAt         *time.Time
	CompletedAt       *time.Time
	QualityGatePassed *bool
}

// ProgressStatus holds per-phase progress plus the derived overall view.
type ProgressStatus struct {
	Phases         []PhaseProgress
	OverallPercent int
	CurrentPhase   string // name of the single in-progress phase, if any
	CurrentTask    string // title of the single in-progress task, if any
}

// ActivityType is the severity of an activity entry.
type ActivityType string

const (
	ActivityInfo    ActivityType = "info"
	ActivityWarning ActivityType = "warning"
	ActivityError   ActivityType = "error"
	ActivitySuccess ActivityType = "success"
)

// Category tags activity entries and alerts by subsystem.
type Category string

const (
	CategorySystem   Category = "system"
	CategoryTools    Category = "tools"
	CategoryMemory   Category = "memory"
	CategoryProgress Category = "progress"
	CategoryUser     Category = "user"
)

// ActivityEntry is one transient activity log record.
type ActivityEntry struct {
	Timestamp time.Time
	Type      ActivityType
	Category  Category
	Message   string
	Details   map[string]any
}

// AlertSeverity is the severity of an alert.
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertError    AlertSeverity = "error"
	AlertCritical AlertSeverity = "critical"
)

// Alert is a process-lifetime notification requiring explicit
// acknowledgment, distinct from a transient activity entry.
type Alert struct {
	ID           string
	Severity     AlertSeverity
	Category     Category
	Message      string
	Timestamp    time.Time
	Acknowledged bool
	Details      map[string]any
}
