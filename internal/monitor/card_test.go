package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCardWidth(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		expect int
	}{
		{"unknown width", 0, cardWidth},
		{"wide terminal", 200, cardWidth},
		{"exact fit", cardWidth + cardChrome, cardWidth},
		{"narrow terminal shrinks", 30, 30 - cardChrome},
		{"tiny terminal floors", 10, cardMinWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{width: tt.width}
			assert.Equal(t, tt.expect, m.calculateCardWidth())
		})
	}
}

func TestLayoutCards(t *testing.T) {
	plainColors(t)
	card := lipgloss.NewStyle().Width(cardWidth).Render("x")
	cards := []string{card, card, card, card, card}

	tests := []struct {
		name     string
		width    int
		wantRows int
	}{
		{"unknown width is one column", 0, 5},
		{"three per row", 3 * (cardWidth + cardChrome), 2},
		{"narrow is one column", cardWidth, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{width: tt.width}
			out := m.layoutCards(cards, cardWidth)
			assert.Equal(t, tt.wantRows, strings.Count(out, "\n")+1)
		})
	}

	assert.Empty(t, Model{}.layoutCards(nil, cardWidth))
}

func TestRenderCard(t *testing.T) {
	plainColors(t)

	head := nodes.ToView(rawNode("aaa", "head", "10.0.0.1", "ALIVE", true))
	out := renderCard(head, cardWidth, false, testNow)
	for _, want := range []string{StatusAlive, "head", "HEAD", "10.0.0.1", "aaa", "16.0 GB", "1h30m"} {
		assert.Contains(t, out, want)
	}

	dead := nodes.ToView(rawNode("ccc", "worker-2", "", "DEAD", false))
	out = renderCard(dead, cardWidth, true, testNow)
	assert.Contains(t, out, StatusDead)
	assert.NotContains(t, out, "HEAD")
	assert.Contains(t, out, "ip    -", "missing ip renders as a dash")
}

func TestRenderCard_LongHostnameTruncated(t *testing.T) {
	plainColors(t)

	n := nodes.ToView(rawNode("aaa", strings.Repeat("h", 60), "10.0.0.1", "ALIVE", false))
	out := renderCard(n, cardWidth, false, testNow)
	assert.Contains(t, out, "...")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), cardWidth+3)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		expect string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is too long", 10, "this is..."},
		{"tiny", 3, "tiny"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expect, truncateWithEllipsis(tt.in, tt.maxLen))
		})
	}
}
