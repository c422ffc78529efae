package doctor

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/raytop/pkg/sshutil"
	"golang.org/x/crypto/ssh/agent"
)

// keyNames are the private keys checked, in order of preference.
var keyNames = []string{"id_ed25519", "id_rsa", "id_ecdsa"}

func sshDir(home string) (string, error) {
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(home, ".ssh"), nil
}

// SSHHostCheck verifies the tunnel host resolves through the SSH config.
type SSHHostCheck struct {
	Host       string
	ConfigPath string // SSH config, defaults to ~/.ssh/config
}

func (c *SSHHostCheck) Name() string     { return "ssh_host" }
func (c *SSHHostCheck) Category() string { return CategorySSH }

func (c *SSHHostCheck) Run(context.Context) CheckResult {
	alias := hostAlias(c.Host)

	path := c.ConfigPath
	if path == "" {
		dir, err := sshDir("")
		if err != nil {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    "Cannot determine home directory",
				Suggestion: "Check HOME environment variable",
			}
		}
		path = filepath.Join(dir, "config")
	}

	hosts, err := sshutil.ListHostsFile(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot parse %s: %v", path, err),
			Suggestion: "Fix the syntax error in your SSH config",
		}
	}

	for _, h := range hosts {
		if h.Alias == alias {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: fmt.Sprintf("Tunnel host %s: %s", alias, h.Description()),
			}
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    fmt.Sprintf("Tunnel host %s isn't in %s, dialing it as a hostname", alias, path),
		Suggestion: fmt.Sprintf("Add a 'Host %s' entry if it needs a user, port or key", alias),
	}
}

func (c *SSHHostCheck) Fix() error {
	return nil
}

// hostAlias strips user@ and :port from a --ssh value.
func hostAlias(host string) string {
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host
}

// SSHKeyCheck verifies an SSH key exists.
type SSHKeyCheck struct {
	Home string // defaults to the user's home directory
}

func (c *SSHKeyCheck) Name() string     { return "ssh_key" }
func (c *SSHKeyCheck) Category() string { return CategorySSH }

func (c *SSHKeyCheck) Run(context.Context) CheckResult {
	dir, err := sshDir(c.Home)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Cannot determine home directory",
			Suggestion: "Check HOME environment variable",
		}
	}

	for _, name := range keyNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: fmt.Sprintf("SSH key found: ~/.ssh/%s", name),
			}
		}
	}

	// The agent or an IdentityFile entry may still provide a key.
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    "No default SSH key found",
		Suggestion: "Generate a key with: ssh-keygen -t ed25519",
	}
}

func (c *SSHKeyCheck) Fix() error {
	return nil
}

// SSHAgentCheck verifies the SSH agent is reachable and holds keys.
type SSHAgentCheck struct {
	Socket string // defaults to $SSH_AUTH_SOCK
}

func (c *SSHAgentCheck) Name() string     { return "ssh_agent" }
func (c *SSHAgentCheck) Category() string { return CategorySSH }

func (c *SSHAgentCheck) Run(ctx context.Context) CheckResult {
	socket := c.Socket
	if socket == "" {
		socket = os.Getenv("SSH_AUTH_SOCK")
	}
	if socket == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent not running",
			Suggestion: "Start one with: eval $(ssh-agent) && ssh-add",
		}
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socket)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent socket not accessible",
			Suggestion: "Start one with: eval $(ssh-agent) && ssh-add",
		}
	}
	defer conn.Close()

	keys, err := agent.NewClient(conn).List()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Cannot query SSH agent",
			Suggestion: "Check SSH agent: ssh-add -l",
		}
	}

	if len(keys) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent running but no keys loaded",
			Suggestion: "Add a key with: ssh-add",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("SSH agent running with %d key%s loaded", len(keys), pluralize(len(keys))),
	}
}

func (c *SSHAgentCheck) Fix() error {
	// Running ssh-add would require interaction, so not auto-fixable
	return nil
}

// SSHKeyPermissionsCheck verifies SSH private keys aren't readable by others.
type SSHKeyPermissionsCheck struct {
	Home string
}

func (c *SSHKeyPermissionsCheck) Name() string     { return "ssh_key_permissions" }
func (c *SSHKeyPermissionsCheck) Category() string { return CategorySSH }

func (c *SSHKeyPermissionsCheck) Run(context.Context) CheckResult {
	bad, found, err := c.insecureKeys()
	if err != nil || !found {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass, // SSHKeyCheck reports missing keys
			Message: "No private keys to check",
		}
	}

	if len(bad) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Insecure permissions on: %s", strings.Join(bad, ", ")),
			Suggestion: "Fix: chmod 600 ~/.ssh/<keyfile>",
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "SSH key permissions OK",
	}
}

func (c *SSHKeyPermissionsCheck) Fix() error {
	dir, err := sshDir(c.Home)
	if err != nil {
		return err
	}

	bad, _, err := c.insecureKeys()
	if err != nil {
		return err
	}
	for _, name := range bad {
		if err := os.Chmod(filepath.Join(dir, name), 0600); err != nil {
			return fmt.Errorf("failed to fix permissions on %s: %w", name, err)
		}
	}
	return nil
}

// insecureKeys lists private keys with group or other permission bits set.
func (c *SSHKeyPermissionsCheck) insecureKeys() (bad []string, found bool, err error) {
	dir, err := sshDir(c.Home)
	if err != nil {
		return nil, false, err
	}

	for _, name := range keyNames {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		found = true
		if info.Mode().Perm()&0077 != 0 {
			bad = append(bad, name)
		}
	}
	return bad, found, nil
}

// NewSSHChecks creates the checks for an SSH tunnel through host.
func NewSSHChecks(host string) []Check {
	return []Check{
		&SSHHostCheck{Host: host},
		&SSHKeyCheck{},
		&SSHAgentCheck{},
		&SSHKeyPermissionsCheck{},
	}
}
