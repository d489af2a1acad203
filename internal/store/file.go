package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/revwatch/revwatch/internal/errors"
	"gopkg.in/yaml.v3"
)

// FileStore reads session data from a YAML artifact on disk. Queries
// re-read the file so a running pipeline's updates show up on the next
// collection without any watch machinery.
//
// Artifact layout:
//
//	sessions:
//	  <session-id>:
//	    stats: {short_term: 3, working: 1, ...}
//	    todos:
//	      - {id: t1, title: "...", status: pending, phase: search}
//	    phases:
//	      - {name: search, status: in_progress, started_at: ...}
type FileStore struct {
	path      string
	sessionID string

	mu     sync.Mutex
	bound  bool
	closed bool
}

// sessionDoc mirrors the on-disk artifact.
type sessionDoc struct {
	Sessions map[string]sessionRecord `yaml:"sessions"`
}

type sessionRecord struct {
	Stats  Stats   `yaml:"stats"`
	Todos  []Todo  `yaml:"todos"`
	Phases []Phase `yaml:"phases"`
}

// NewFileStore creates a store bound to the artifact at path for the
// given session id. Initialize must be called before queries.
func NewFileStore(path, sessionID string) *FileStore {
	return &FileStore{path: path, sessionID: sessionID}
}

// Initialize verifies the artifact is readable and contains the session.
func (f *FileStore) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return errors.New(errors.ErrStore,
			"Session store already closed",
			"Create a new store instead of reusing a closed one")
	}

	if _, err := f.read(); err != nil {
		return err
	}
	f.bound = true
	return nil
}

// Stats returns per-tier memory counts for the bound session.
func (f *FileStore) Stats() (Stats, error) {
	rec, err := f.session()
	if err != nil {
		return Stats{}, err
	}
	return rec.Stats, nil
}

// Todos returns the bound session's task records.
func (f *FileStore) Todos() ([]Todo, error) {
	rec, err := f.session()
	if err != nil {
		return nil, err
	}
	return rec.Todos, nil
}

// PhaseProgress returns the bound session's phase records.
func (f *FileStore) PhaseProgress() ([]Phase, error) {
	rec, err := f.session()
	if err != nil {
		return nil, err
	}
	return rec.Phases, nil
}

// Path returns the artifact path.
func (f *FileStore) Path() string {
	return f.path
}

// Close releases the binding. Subsequent queries fail. Idempotent.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = false
	f.closed = true
	return nil
}

func (f *FileStore) session() (sessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.bound {
		return sessionRecord{}, errors.New(errors.ErrStore,
			"Session store not initialized",
			"Call Initialize before querying")
	}
	return f.read()
}

// read loads and decodes the artifact. Callers hold f.mu.
func (f *FileStore) read() (sessionRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return sessionRecord{}, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Cannot read session store at %s", f.path),
			"Check the pipeline has created its session file, or fix session.store in the config")
	}

	var doc sessionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return sessionRecord{}, errors.WrapWithCode(err, errors.ErrStore,
			"Session store is not valid YAML",
			"The artifact may be mid-write or corrupted; it will be retried on the next refresh")
	}

	rec, ok := doc.Sessions[f.sessionID]
	if !ok {
		return sessionRecord{}, errors.New(errors.ErrStore,
			fmt.Sprintf("Session %q not found in store", f.sessionID),
			"Check the session id or list sessions in the artifact")
	}
	return rec, nil
}

var _ Session = (*FileStore)(nil)
