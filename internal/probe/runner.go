package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/revwatch/revwatch/pkg/sshutil"
)

// execRunner spawns local processes. exec.CommandContext kills the child
// when the context deadline elapses.
type execRunner struct{}

func (e *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// SSHRunner probes executables on a remote host. The connection is dialed
// lazily on first use and reused across probes.
type SSHRunner struct {
	Host        string
	DialTimeout time.Duration

	mu     sync.Mutex
	client *sshutil.Client
}

// NewSSHRunner creates a runner that probes over SSH.
func NewSSHRunner(host string, dialTimeout time.Duration) *SSHRunner {
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	return &SSHRunner{Host: host, DialTimeout: dialTimeout}
}

// Run checks the executable on the remote host with "command -v" (POSIX)
// and captures its version output. The remote command races the probe
// context so a hung remote never blocks past the deadline.
func (r *SSHRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	client, err := r.connect()
	if err != nil {
		return nil, err
	}

	// Tool names come from the static catalogue, but reject anything
	// shell-unsafe before interpolating.
	if strings.ContainsAny(name, " \t'\"$;|&<>()`") {
		return nil, fmt.Errorf("invalid executable name %q", name)
	}

	remoteCmd := fmt.Sprintf("command -v %s >/dev/null 2>&1 && %s %s 2>/dev/null | head -1",
		name, name, strings.Join(args, " "))

	type result struct {
		out []byte
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		stdout, _, exitCode, err := client.Exec(remoteCmd)
		if err == nil && exitCode != 0 {
			err = fmt.Errorf("not found on %s", r.Host)
		}
		resultCh <- result{stdout, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultCh:
		return res.out, res.err
	}
}

// Close releases the cached connection.
func (r *SSHRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

func (r *SSHRunner) connect() (*sshutil.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return r.client, nil
	}
	client, err := sshutil.Dial(r.Host, r.DialTimeout)
	if err != nil {
		return nil, err
	}
	r.client = client
	return client, nil
}

var (
	_ Runner = (*execRunner)(nil)
	_ Runner = (*SSHRunner)(nil)
)
