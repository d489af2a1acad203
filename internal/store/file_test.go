package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revwatch/revwatch/internal/errors"
)

const sampleArtifact = `
sessions:
  review-42:
    stats:
      short_term: 12
      working: 4
      long_term: 230
      episodic: 18
      checkpoints: 3
      citations: 857
    todos:
      - id: t1
        title: Run database search
        status: completed
        phase: search
      - id: t2
        title: Deduplicate references
        status: in_progress
        phase: screening
      - id: t3
        title: Extract outcomes
        status: pending
        phase: extraction
      - id: t4
        title: Resolve access to paywalled study
        status: blocked
        phase: screening
    phases:
      - name: search
        status: completed
        quality_gate_passed: true
      - name: screening
        status: in_progress
      - name: extraction
        status: pending
`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileStoreReads(t *testing.T) {
	path := writeArtifact(t, sampleArtifact)
	fs := NewFileStore(path, "review-42")
	require.NoError(t, fs.Initialize())

	stats, err := fs.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{
		ShortTerm:   12,
		Working:     4,
		LongTerm:    230,
		Episodic:    18,
		Checkpoints: 3,
		Citations:   857,
	}, stats)

	todos, err := fs.Todos()
	require.NoError(t, err)
	require.Len(t, todos, 4)
	assert.Equal(t, Todo{ID: "t1", Title: "Run database search", Status: TaskCompleted, Phase: "search"}, todos[0])
	assert.Equal(t, TaskInProgress, todos[1].Status)
	assert.Equal(t, TaskBlocked, todos[3].Status)

	phases, err := fs.PhaseProgress()
	require.NoError(t, err)
	require.Len(t, phases, 3)
	assert.Equal(t, "search", phases[0].Name)
	assert.Equal(t, PhaseCompleted, phases[0].Status)
	require.NotNil(t, phases[0].QualityGatePassed)
	assert.True(t, *phases[0].QualityGatePassed)
	assert.Nil(t, phases[1].QualityGatePassed)

	assert.Equal(t, path, fs.Path())
}

func TestFileStoreQueriesReflectUpdates(t *testing.T) {
	path := writeArtifact(t, sampleArtifact)
	fs := NewFileStore(path, "review-42")
	require.NoError(t, fs.Initialize())

	stats, err := fs.Stats()
	require.NoError(t, err)
	assert.Equal(t, 12, stats.ShortTerm)

	// The pipeline rewrites the artifact between queries.
	updated := `
sessions:
  review-42:
    stats:
      short_term: 99
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	stats, err = fs.Stats()
	require.NoError(t, err)
	assert.Equal(t, 99, stats.ShortTerm)
}

func TestFileStoreUninitialized(t *testing.T) {
	fs := NewFileStore(writeArtifact(t, sampleArtifact), "review-42")

	_, err := fs.Stats()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrStore))

	_, err = fs.Todos()
	assert.Error(t, err)

	_, err = fs.PhaseProgress()
	assert.Error(t, err)
}

func TestFileStoreMissingArtifact(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"), "review-42")

	err := fs.Initialize()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrStore))
}

func TestFileStoreUnknownSession(t *testing.T) {
	fs := NewFileStore(writeArtifact(t, sampleArtifact), "no-such-session")

	err := fs.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-session")
}

func TestFileStoreMalformedYAML(t *testing.T) {
	fs := NewFileStore(writeArtifact(t, "sessions:\n  - not\n a: map"), "review-42")

	err := fs.Initialize()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrStore))
}

func TestFileStoreClose(t *testing.T) {
	fs := NewFileStore(writeArtifact(t, sampleArtifact), "review-42")
	require.NoError(t, fs.Initialize())

	require.NoError(t, fs.Close())
	require.NoError(t, fs.Close(), "Close must be idempotent")

	_, err := fs.Stats()
	require.Error(t, err, "queries after Close must fail")

	err = fs.Initialize()
	require.Error(t, err, "a closed store cannot be re-initialized")
}
