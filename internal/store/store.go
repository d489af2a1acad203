// Package store defines the session store interface the collector reads
// from, plus a file-backed implementation of it. The store artifact is
// produced by the pipeline runner; revwatch only ever reads it.
package store

import "time"

// TaskStatus is the lifecycle state of a tracked task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

// PhaseStatus is the lifecycle state of a workflow phase.
type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
	PhaseFailed     PhaseStatus = "failed"
)

// Stats holds per-tier memory record counts.
type Stats struct {
	ShortTerm   int `yaml:"short_term"`
	Working     int `yaml:"working"`
	LongTerm    int `yaml:"long_term"`
	Episodic    int `yaml:"episodic"`
	Checkpoints int `yaml:"checkpoints"`
	Citations   int `yaml:"citations"`
}

// Todo is a tracked task record.
type Todo struct {
	ID     string     `yaml:"id"`
	Title  string     `yaml:"title"`
	Status TaskStatus `yaml:"status"`
	Phase  string     `yaml:"phase"`
}

// Phase is a workflow phase record.
type Phase struct {
	Name              string      `yaml:"name"`
	Status            PhaseStatus `yaml:"status"`
	StartedAt         *time.Time  `yaml:"started_at,omitempty"`
	CompletedAt       *time.Time  `yaml:"completed_at,omitempty"`
	QualityGatePassed *bool       `yaml:"quality_gate_passed,omitempty"`
}

// Session is the read-only view of one pipeline session.
// Implementations may fail on any query; callers are expected to degrade
// rather than abort.
type Session interface {
	// Initialize establishes the session binding.
	Initialize() error

	// Stats returns per-tier memory record counts.
	Stats() (Stats, error)

	// Todos returns the session's task records in store order.
	Todos() ([]Todo, error)

	// PhaseProgress returns the session's phase records in store order.
	PhaseProgress() ([]Phase, error)

	// Path returns the store artifact's filesystem path, used for the
	// connectivity/size check.
	Path() string

	// Close releases the session binding. Safe to call multiple times.
	Close() error
}
