package collector

import (
	"fmt"
	"math/rand"
	"time"
)

// Ring buffer capacities. Oldest entries are silently evicted; nothing is
// persisted across restarts.
const (
	MaxActivityEntries = 100
	MaxAlerts          = 50
)

// snapshotActivityLimit is how many recent entries a snapshot carries.
const snapshotActivityLimit = 10

// LogActivity prepends an entry to the activity ring buffer. Entries of
// type error additionally create an error alert with the same message;
// that derivation is one-directional and the only implicit alert source.
func (c *Collector) LogActivity(typ ActivityType, category Category, message string, details map[string]any) {
	entry := ActivityEntry{
		Timestamp: time.Now(),
		Type:      typ,
		Category:  category,
		Message:   message,
		Details:   details,
	}

	c.mu.Lock()
	c.activity = prepend(c.activity, entry, MaxActivityEntries)
	c.mu.Unlock()

	if typ == ActivityError {
		c.CreateAlert(AlertError, category, message, details)
	}
}

// CreateAlert prepends an unacknowledged alert to the alert ring buffer.
// Returns the alert's id.
func (c *Collector) CreateAlert(severity AlertSeverity, category Category, message string, details map[string]any) string {
	alert := Alert{
		ID:        newAlertID(),
		Severity:  severity,
		Category:  category,
		Message:   message,
		Timestamp: time.Now(),
		Details:   details,
	}

	c.mu.Lock()
	c.alerts = prepend(c.alerts, alert, MaxAlerts)
	c.mu.Unlock()

	return alert.ID
}

// RecentActivity returns up to limit entries, most recent first (the
// buffer's natural order).
func (c *Collector) RecentActivity(limit int) []ActivityEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit < 0 || limit > len(c.activity) {
		limit = len(c.activity)
	}
	out := make([]ActivityEntry, limit)
	copy(out, c.activity[:limit])
	return out
}

// ActiveAlerts returns only unacknowledged alerts, preserving relative
// order (most recent first).
func (c *Collector) ActiveAlerts() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Alert
	for _, a := range c.alerts {
		if !a.Acknowledged {
			out = append(out, a)
		}
	}
	return out
}

// AcknowledgeAlert flips the acknowledged flag for the given id. Unknown
// or already-acknowledged ids are no-ops, never errors. Returns true if
// the alert is acknowledged after the call.
func (c *Collector) AcknowledgeAlert(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.alerts {
		if c.alerts[i].ID == id {
			c.alerts[i].Acknowledged = true
			return true
		}
	}
	return false
}

// prepend inserts at the head and trims to cap, evicting the oldest.
func prepend[T any](buf []T, v T, capacity int) []T {
	buf = append(buf, v)
	copy(buf[1:], buf)
	buf[0] = v
	if len(buf) > capacity {
		buf = buf[:capacity]
	}
	return buf
}

// newAlertID builds a best-effort unique id from creation time plus a
// random suffix. Uniqueness only matters within one process lifetime.
func newAlertID() string {
	return fmt.Sprintf("alert-%d-%04x", time.Now().UnixMilli(), rand.Intn(1<<16))
}
