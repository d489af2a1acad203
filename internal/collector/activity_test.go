package collector

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revwatch/revwatch/internal/logger"
)

func newTestCollector() *Collector {
	return New(Options{Logger: logger.Noop()})
}

func TestLogActivityPrependsNewestFirst(t *testing.T) {
	c := newTestCollector()

	c.LogActivity(ActivityInfo, CategorySystem, "first", nil)
	c.LogActivity(ActivityWarning, CategoryTools, "second", nil)
	c.LogActivity(ActivitySuccess, CategoryProgress, "third", nil)

	entries := c.RecentActivity(-1)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, "first", entries[2].Message)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestActivityBufferEvictsOldest(t *testing.T) {
	c := newTestCollector()

	for i := 0; i < MaxActivityEntries+20; i++ {
		c.LogActivity(ActivityInfo, CategorySystem, fmt.Sprintf("entry-%d", i), nil)
	}

	entries := c.RecentActivity(-1)
	require.Len(t, entries, MaxActivityEntries)

	// Newest survives at the head; the 20 oldest were evicted.
	assert.Equal(t, fmt.Sprintf("entry-%d", MaxActivityEntries+19), entries[0].Message)
	assert.Equal(t, "entry-20", entries[MaxActivityEntries-1].Message)
}

func TestAlertBufferEvictsOldest(t *testing.T) {
	c := newTestCollector()

	for i := 0; i < MaxAlerts+10; i++ {
		c.CreateAlert(AlertWarning, CategoryTools, fmt.Sprintf("alert-%d", i), nil)
	}

	alerts := c.ActiveAlerts()
	require.Len(t, alerts, MaxAlerts)
	assert.Equal(t, fmt.Sprintf("alert-%d", MaxAlerts+9), alerts[0].Message)
	assert.Equal(t, "alert-10", alerts[MaxAlerts-1].Message)
}

func TestErrorActivityDerivesAlert(t *testing.T) {
	c := newTestCollector()

	c.LogActivity(ActivityError, CategoryMemory, "stats query failed", nil)

	alerts := c.ActiveAlerts()
	require.Len(t, alerts, 1, "an error activity must create exactly one alert")
	assert.Equal(t, AlertError, alerts[0].Severity)
	assert.Equal(t, CategoryMemory, alerts[0].Category)
	assert.Equal(t, "stats query failed", alerts[0].Message)
	assert.NotEmpty(t, alerts[0].ID)
}

func TestNonErrorActivityCreatesNoAlert(t *testing.T) {
	c := newTestCollector()

	c.LogActivity(ActivityInfo, CategorySystem, "info", nil)
	c.LogActivity(ActivityWarning, CategoryTools, "warning", nil)
	c.LogActivity(ActivitySuccess, CategoryProgress, "success", nil)

	assert.Empty(t, c.ActiveAlerts())
	assert.Len(t, c.RecentActivity(-1), 3)
}

func TestCreateAlertDoesNotLogActivity(t *testing.T) {
	c := newTestCollector()

	id := c.CreateAlert(AlertCritical, CategorySystem, "store vanished", nil)
	assert.NotEmpty(t, id)

	// The derivation is one-directional: alerts never create activity.
	assert.Empty(t, c.RecentActivity(-1))
}

func TestAcknowledgeAlert(t *testing.T) {
	c := newTestCollector()

	id1 := c.CreateAlert(AlertWarning, CategoryTools, "one", nil)
	id2 := c.CreateAlert(AlertError, CategoryMemory, "two", nil)

	require.Len(t, c.ActiveAlerts(), 2)

	assert.True(t, c.AcknowledgeAlert(id1))

	active := c.ActiveAlerts()
	require.Len(t, active, 1)
	assert.Equal(t, id2, active[0].ID)

	// Re-acknowledging is a no-op, not an error.
	assert.True(t, c.AcknowledgeAlert(id1))
	assert.Len(t, c.ActiveAlerts(), 1)

	// Unknown ids are a no-op too.
	assert.False(t, c.AcknowledgeAlert("alert-0-ffff"))
	assert.Len(t, c.ActiveAlerts(), 1)
}

func TestActiveAlertsPreservesOrder(t *testing.T) {
	c := newTestCollector()

	c.CreateAlert(AlertInfo, CategorySystem, "a", nil)
	idB := c.CreateAlert(AlertInfo, CategorySystem, "b", nil)
	c.CreateAlert(AlertInfo, CategorySystem, "c", nil)

	c.AcknowledgeAlert(idB)

	active := c.ActiveAlerts()
	require.Len(t, active, 2)
	assert.Equal(t, "c", active[0].Message)
	assert.Equal(t, "a", active[1].Message)
}

func TestRecentActivityLimit(t *testing.T) {
	c := newTestCollector()

	for i := 0; i < 15; i++ {
		c.LogActivity(ActivityInfo, CategorySystem, fmt.Sprintf("e%d", i), nil)
	}

	assert.Len(t, c.RecentActivity(10), 10)
	assert.Len(t, c.RecentActivity(0), 0)
	assert.Len(t, c.RecentActivity(100), 15)
	assert.Equal(t, "e14", c.RecentActivity(1)[0].Message)
}

func TestRecentActivityReturnsCopy(t *testing.T) {
	c := newTestCollector()
	c.LogActivity(ActivityInfo, CategorySystem, "original", nil)

	entries := c.RecentActivity(-1)
	entries[0].Message = "mutated"

	assert.Equal(t, "original", c.RecentActivity(-1)[0].Message)
}
