package sshutil

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kevinburke/ssh_config"
	"github.com/rileyhilliard/raytop/internal/logger"
)

// settings holds resolved SSH connection parameters for one host.
type settings struct {
	hostname      string
	port          string
	user          string
	identityFile  string
	encryptedKeys []string // keys that exist but need a passphrase
}

// address returns the host:port string for dialing.
func (s *settings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

// matchWarningOnce keeps the Match directive warning to once per process.
var matchWarningOnce sync.Once

// resolveSettings parses user@host:port and fills gaps from ~/.ssh/config.
func resolveSettings(host string) *settings {
	return resolveSettingsFrom(host, filepath.Join(homeDir(), ".ssh", "config"))
}

func resolveSettingsFrom(host, configPath string) *settings {
	s := &settings{
		port: "22",
		user: currentUser(),
	}

	explicitUser := false
	if at := strings.Index(host, "@"); at != -1 {
		s.user = host[:at]
		host = host[at+1:]
		explicitUser = true
	}

	if colon := strings.LastIndex(host, ":"); colon != -1 && isDigits(host[colon+1:]) {
		s.port = host[colon+1:]
		host = host[:colon]
	}
	s.hostname = host

	content, matchLine, err := preprocessSSHConfig(configPath)
	if err != nil {
		return s
	}
	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return s
	}

	found := false
	get := func(key string) string {
		v, _ := cfg.Get(host, key)
		if v != "" {
			found = true
		}
		return v
	}

	if v := get("HostName"); v != "" {
		s.hostname = v
	}
	if v := get("Port"); v != "" {
		s.port = v
	}
	if v := get("User"); v != "" && !explicitUser {
		s.user = v
	}
	if v := get("IdentityFile"); v != "" {
		s.identityFile = expandPath(v)
	}

	// A host defined after a Match block is invisible to the parser.
	if matchLine > 0 && !found {
		matchWarningOnce.Do(func() {
			logger.Default().Warn(
				"SSH host '%s' not found in ~/.ssh/config (a Match block at line %d may hide later entries). "+
					"If it's defined after line %d, move it earlier.",
				host, matchLine, matchLine)
		})
	}

	return s
}

// preprocessSSHConfig reads the SSH config and returns content up to the
// first Match directive, which ssh_config can't parse, plus the 1-indexed
// line of that directive (0 if none).
func preprocessSSHConfig(configPath string) ([]byte, int, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			return []byte(strings.Join(lines[:i], "\n")), i + 1, nil
		}
	}
	return content, 0, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func (s *settings) String() string {
	return fmt.Sprintf("%s@%s", s.user, s.address())
}
