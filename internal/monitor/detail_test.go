package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/stretchr/testify/assert"
)

func TestDetailContent(t *testing.T) {
	m := newTestModel(t, newFakeSource())

	raw := rawNode("aaa", "head", "10.0.0.1", "ALIVE", true)
	raw.Raylet.Resources["GPU"] = 2
	raw.Raylet.Resources["object_store_memory"] = 2 << 30
	raw.Raylet.Labels = map[string]string{"zone": "us-east-1a", "ray.io/node_id": "aaa"}
	out := m.detailContent(nodes.ToView(raw))

	for _, want := range []string{
		"Node", "Node ID", "aaa", "Head node", "true", "Uptime", "1h30m",
		"Resources", "CPU", "GPU", "object_store_memory", "2.0 GB", "16.0 GB",
		"Labels", "zone", "us-east-1a",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Ended")

	// Resource and label keys are listed in sorted order.
	assert.Less(t, indexOf(out, "CPU"), indexOf(out, "GPU"))
	assert.Less(t, indexOf(out, "ray.io/node_id"), indexOf(out, "zone"))
}

func TestDetailContent_DeadNodeWithoutExtras(t *testing.T) {
	m := newTestModel(t, newFakeSource())

	raw := rawNode("ccc", "worker-2", "10.0.0.3", "DEAD", false)
	raw.Raylet.Resources = nil
	raw.Raylet.EndTime = testNow.Add(-30 * time.Minute).UnixMilli()
	out := m.detailContent(nodes.ToView(raw))

	assert.Contains(t, out, "Ended")
	assert.Contains(t, out, "1h0m", "uptime stops at the end time")
	assert.Contains(t, out, "none reported")
}

func TestRenderDetailView(t *testing.T) {
	m := newTestModel(t, newFakeSource(sampleCluster()...))
	m = press(t, m, "enter")

	view := m.View()
	assert.Contains(t, view, "head")
	assert.Contains(t, view, StatusAlive+" ALIVE")
	assert.Contains(t, view, "HEAD")
	assert.Contains(t, view, "esc back")
}

func TestFormatEpochMillis(t *testing.T) {
	assert.Equal(t, "-", formatEpochMillis(0))
	assert.NotEqual(t, "-", formatEpochMillis(testNow.UnixMilli()))
}

func indexOf(s, sub string) int {
	return strings.Index(s, sub)
}
