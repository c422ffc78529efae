package sshutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListHostsFile(t *testing.T) {
	path := writeSSHConfig(t, `
Host ray-head
    HostName 192.168.1.100
    User admin
    Port 22

Host gpu-box
    HostName gpu.example.com
    User ubuntu

Host *
    ServerAliveInterval 60

Host work-*
    User workuser
`)

	hosts, err := ListHostsFile(path)
	require.NoError(t, err)

	require.Len(t, hosts, 2)
	assert.Equal(t, "gpu-box", hosts[0].Alias)
	assert.Equal(t, "ray-head", hosts[1].Alias)

	assert.Equal(t, "192.168.1.100", hosts[1].Hostname)
	assert.Equal(t, "admin", hosts[1].User)
	assert.Equal(t, "gpu.example.com", hosts[0].Hostname)
	assert.Equal(t, "", hosts[0].Port)
}

func TestListHostsFile_Missing(t *testing.T) {
	hosts, err := ListHostsFile(filepath.Join(t.TempDir(), "config"))
	assert.NoError(t, err)
	assert.Nil(t, hosts)
}

func TestListHostsFile_StopsAtMatch(t *testing.T) {
	path := writeSSHConfig(t, `
Host before-match
    HostName before.example.com

Match host *.example.com
    User matchuser

Host after-match
    HostName after.example.com
`)

	hosts, err := ListHostsFile(path)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "before-match", hosts[0].Alias)
}

func TestListHostsFile_DuplicatesAndMultiplePatterns(t *testing.T) {
	path := writeSSHConfig(t, `
Host head head-alt
    HostName 10.0.0.1

Host head
    User other
`)

	hosts, err := ListHostsFile(path)
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	assert.Equal(t, "head", hosts[0].Alias)
	assert.Equal(t, "head-alt", hosts[1].Alias)
}

func TestHostEntry_Description(t *testing.T) {
	tests := []struct {
		entry HostEntry
		want  string
	}{
		{HostEntry{Alias: "a"}, "a"},
		{HostEntry{Alias: "a", Hostname: "a"}, "a"},
		{HostEntry{Alias: "a", Hostname: "10.0.0.1", User: "ubuntu", Port: "2222"}, "10.0.0.1, user: ubuntu, port: 2222"},
		{HostEntry{Alias: "a", User: "ubuntu", Port: "22"}, "user: ubuntu"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.entry.Description())
	}
}
