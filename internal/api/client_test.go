package api_test

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rileyhilliard/raytop/internal/api"
	"github.com/rileyhilliard/raytop/internal/api/apitest"
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNodes() []nodes.RawNode {
	return []nodes.RawNode{
		{
			Hostname: "head",
			IP:       "10.0.0.1",
			Raylet: nodes.Raylet{
				NodeID:     "aaa",
				State:      "ALIVE",
				IsHeadNode: true,
				Labels:     map[string]string{"ray.io/node_id": "aaa"},
				Resources:  map[string]float64{"CPU": 8},
			},
		},
		{
			Hostname: "worker-1",
			IP:       "10.0.0.2",
			Raylet:   nodes.Raylet{NodeID: "bbb", State: "DEAD"},
		},
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"full url", "http://127.0.0.1:8265", "http://127.0.0.1:8265", false},
		{"bare host port", "10.0.0.1:8265", "http://10.0.0.1:8265", false},
		{"trailing slash trimmed", "http://dash:8265/", "http://dash:8265", false},
		{"prefix path kept", "https://proxy/ray/", "https://proxy/ray", false},
		{"surrounding spaces", "  http://dash:8265  ", "http://dash:8265", false},
		{"empty", "", "", true},
		{"bad scheme", "ftp://dash", "", true},
		{"no host", "http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := api.ParseAddress(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestNodeList_Success(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SetNodes(sampleNodes()...)
	srv.SetMessage("Node summary fetched.")

	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.NodeList(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.Result)
	assert.Equal(t, "Node summary fetched.", resp.Msg)
	assert.Equal(t, sampleNodes(), resp.Data.Summary)
	assert.Equal(t, 1, srv.Requests())
}

func TestNodeList_MissingSummary(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.OmitSummary(true)

	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.NodeList(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp.Data.Summary)
}

func TestNodeList_HTTPErrors(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := apitest.NewServer()
			defer srv.Close()
			srv.FailWith(status)

			c, err := api.NewClient(srv.URL)
			require.NoError(t, err)

			_, err = c.NodeList(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrAPI))
			assert.Contains(t, err.Error(), "Dashboard returned")
		})
	}
}

func TestNodeList_ServerErrorSurfacesMsg(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.FailWith(http.StatusInternalServerError)

	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.NodeList(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dashboard said: Internal Server Error")
}

func TestNodeList_BadJSON(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SetRawBody("<html>not the dashboard</html>")

	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.NodeList(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))
	assert.Contains(t, err.Error(), "Couldn't decode")
}

func TestNodeList_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c, err := api.NewClient(addr, api.WithTimeout(2*time.Second))
	require.NoError(t, err)

	_, err = c.NodeList(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))
	assert.Contains(t, err.Error(), "Can't reach the dashboard")
}

func TestNodeList_ContextCancelled(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.NodeList(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchNodes(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SetNodes(sampleNodes()...)
	srv.SetMessage("ok")

	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)

	var f nodes.Fetcher = c
	res, err := f.FetchNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Msg)
	assert.Len(t, res.Summary, 2)
}

func TestWithDialContext(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SetNodes(sampleNodes()...)

	var dials atomic.Int32
	target := srv.Listener.Addr().String()
	dial := func(ctx context.Context, network, _ string) (net.Conn, error) {
		dials.Add(1)
		var d net.Dialer
		return d.DialContext(ctx, network, target)
	}

	// The host below doesn't resolve; only the custom dialer can reach the server.
	c, err := api.NewClient("http://head.cluster.invalid:8265", api.WithDialContext(dial))
	require.NoError(t, err)

	resp, err := c.NodeList(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Data.Summary, 2)
	assert.Equal(t, int32(1), dials.Load())
}

func TestClient_Address(t *testing.T) {
	c, err := api.NewClient("dash:8265/")
	require.NoError(t, err)
	assert.Equal(t, "http://dash:8265", c.Address())
}
