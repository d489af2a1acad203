// Package sshutil provides a minimal SSH client used for running tool
// probes on a remote workstation. Connection settings are resolved from
// ~/.ssh/config when available.
package sshutil

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/revwatch/revwatch/internal/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Client wraps an SSH connection with the alias it was dialed from.
type Client struct {
	*ssh.Client
	Host    string // original host/alias used to connect
	Address string // resolved address (host:port)
}

// Dial establishes an SSH connection to the specified host. The host can
// be an SSH config alias, a hostname, user@hostname, or hostname:port.
func Dial(host string, timeout time.Duration) (*Client, error) {
	settings := resolveSettings(host)

	config, err := buildClientConfig(settings, timeout)
	if err != nil {
		return nil, err
	}

	address := settings.address()
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach '%s' at %s", host, address),
			"Check the host is up and the address is correct")
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			"Check your keys are loaded: ssh-add -l")
	}

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: address,
	}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// settings holds resolved connection parameters.
type settings struct {
	hostname string
	port     string
	user     string
	identity string
}

func (s *settings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

// resolveSettings parses the host string and fills gaps from ~/.ssh/config.
func resolveSettings(host string) *settings {
	s := &settings{port: "22"}

	if at := strings.Index(host, "@"); at >= 0 {
		s.user = host[:at]
		host = host[at+1:]
	}
	if h, p, err := net.SplitHostPort(host); err == nil {
		host = h
		s.port = p
	}
	s.hostname = host

	// ssh_config resolves aliases; Get falls back to defaults when no
	// config file exists.
	if hn := ssh_config.Get(host, "HostName"); hn != "" {
		s.hostname = hn
	}
	if s.user == "" {
		s.user = ssh_config.Get(host, "User")
	}
	if p := ssh_config.Get(host, "Port"); p != "" && s.port == "22" {
		s.port = p
	}
	if id := ssh_config.Get(host, "IdentityFile"); id != "" {
		s.identity = expandHome(id)
	}

	if s.user == "" {
		if u, err := user.Current(); err == nil {
			s.user = u.Username
		}
	}

	return s
}

// buildClientConfig assembles auth methods: SSH agent first, then any
// configured or default identity files.
func buildClientConfig(s *settings, timeout time.Duration) (*ssh.ClientConfig, error) {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	candidates := []string{s.identity}
	home, _ := os.UserHomeDir()
	for _, name := range []string{"id_ed25519", "id_rsa"} {
		candidates = append(candidates, filepath.Join(home, ".ssh", name))
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		key, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			continue // encrypted or malformed keys are skipped
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if len(methods) == 0 {
		return nil, errors.New(errors.ErrSSH,
			"No usable SSH credentials found",
			"Load a key into the agent (ssh-add) or create ~/.ssh/id_ed25519")
	}

	return &ssh.ClientConfig{
		User:            s.user,
		Auth:            methods,
		HostKeyCallback: hostKeyCallback(),
		Timeout:         timeout,
	}, nil
}

// hostKeyCallback verifies against ~/.ssh/known_hosts when present.
// Probes are read-only diagnostics, so an absent known_hosts file falls
// back to accepting the presented key rather than refusing to probe.
func hostKeyCallback() ssh.HostKeyCallback {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".ssh", "known_hosts")
		if cb, err := knownhosts.New(path); err == nil {
			return cb
		}
	}
	return ssh.InsecureIgnoreHostKey() //nolint:gosec
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
