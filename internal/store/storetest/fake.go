// Package storetest provides an in-memory Session fake for tests.
package storetest

import (
	"sync"

	"github.com/revwatch/revwatch/internal/store"
)

// Fake is an in-memory store.Session with injectable data and failures.
// The zero value is usable: it returns empty data and no errors.
type Fake struct {
	mu sync.Mutex

	StatsValue  store.Stats
	TodosValue  []store.Todo
	PhasesValue []store.Phase
	PathValue   string

	InitErr   error
	StatsErr  error
	TodosErr  error
	PhasesErr error

	InitCalls  int
	CloseCalls int
}

// Initialize records the call and returns InitErr.
func (f *Fake) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InitCalls++
	return f.InitErr
}

// Stats returns the configured stats or StatsErr.
func (f *Fake) Stats() (store.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatsErr != nil {
		return store.Stats{}, f.StatsErr
	}
	return f.StatsValue, nil
}

// Todos returns the configured todos or TodosErr.
func (f *Fake) Todos() ([]store.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TodosErr != nil {
		return nil, f.TodosErr
	}
	return f.TodosValue, nil
}

// PhaseProgress returns the configured phases or PhasesErr.
func (f *Fake) PhaseProgress() ([]store.Phase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PhasesErr != nil {
		return nil, f.PhasesErr
	}
	return f.PhasesValue, nil
}

// Path returns the configured artifact path.
func (f *Fake) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.PathValue
}

// Close records the call.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CloseCalls++
	return nil
}

var _ store.Session = (*Fake)(nil)
