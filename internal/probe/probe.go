// Package probe performs bounded-time liveness checks of external
// executable dependencies. Every probe runs under a hard deadline and the
// spawned process is killed when the deadline elapses, so repeated polls
// never leak children.
package probe

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultTimeout is the hard per-probe deadline when none is configured.
const DefaultTimeout = time.Second

// Result is the outcome of probing one executable.
type Result struct {
	Available    bool
	Version      string // best-effort, empty when not parseable
	ResponseTime time.Duration
	Err          string // human-readable failure reason, empty on success
}

// Runner invokes an executable with arguments and returns its combined
// version-query output. Implementations must honor ctx cancellation and
// return an error for non-zero exits, missing executables, and timeouts.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Prober checks executable availability through a Runner.
type Prober struct {
	runner  Runner
	timeout time.Duration
}

// New creates a prober that spawns local processes.
func New(timeout time.Duration) *Prober {
	return NewWithRunner(&execRunner{}, timeout)
}

// NewWithRunner creates a prober with a custom Runner. Tests substitute
// deterministic fakes; remote probing substitutes an SSH runner.
func NewWithRunner(r Runner, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{runner: r, timeout: timeout}
}

// Timeout returns the configured per-probe deadline.
func (p *Prober) Timeout() time.Duration {
	return p.timeout
}

// Check probes the executable with a version-query argument. A zero exit
// before the deadline means available; anything else (non-zero exit,
// missing binary, timeout) means unavailable with a reason.
func (p *Prober) Check(ctx context.Context, executable string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	out, err := p.runner.Run(ctx, executable, "--version")
	elapsed := time.Since(start)

	if err != nil {
		reason := err.Error()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = fmt.Sprintf("timed out after %s", p.timeout)
		}
		return Result{
			Available:    false,
			ResponseTime: elapsed,
			Err:          fmt.Sprintf("%s: %s", executable, reason),
		}
	}

	return Result{
		Available:    true,
		Version:      parseVersion(string(out)),
		ResponseTime: elapsed,
	}
}

var versionRe = regexp.MustCompile(`(\d+\.\d+\.?\d*)`)

// parseVersion extracts the first version-like token from the first line
// of version-query output.
func parseVersion(output string) string {
	firstLine := strings.SplitN(strings.TrimSpace(output), "\n", 2)[0]
	if m := versionRe.FindStringSubmatch(firstLine); len(m) >= 2 {
		return m[1]
	}
	return ""
}
