package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	assert.Empty(t, RenderMarkdown("   \n", 40))

	out := stripANSI(RenderMarkdown("# Globex\n\nHours billed in January.", 40))
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "Hours billed in January.")
}

func TestRenderMarkdown_Wraps(t *testing.T) {
	long := strings.Repeat("billable ", 12)
	out := stripANSI(RenderMarkdown(long, 30))
	assert.Equal(t, 12, strings.Count(out, "billable"))
	assert.Greater(t, strings.Count(out, "\n"), 1, "wrapped onto several lines")
}
