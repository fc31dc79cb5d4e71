package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"MARKDOWN", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"yaml", ModeYAML},
		{"yml", ModeYAML},
		{"html", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto tty", ModeAuto, true, ModeText},
		{"auto pipe", ModeAuto, false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text", ModeText, false, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestRenderer_Header(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(2, "Types")
	assert.Equal(t, "## Types\n\n", out.String())

	r, out, _ = newTestRenderer(ModeText, false)
	r.Header(2, "Types")
	assert.Equal(t, "Types\n", out.String())
}

func TestRenderer_Messages(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Success("loaded")
	r.Warning("skipped section")
	r.Error("broken")
	r.StatusLine("TriggerData.txt", "success", "22 records")

	assert.Contains(t, out.String(), "✓ loaded")
	assert.Contains(t, out.String(), "✓ TriggerData.txt 22 records")
	assert.Contains(t, errOut.String(), "! skipped section")
	assert.Contains(t, errOut.String(), "✗ broken")
	assert.NotContains(t, out.String()+errOut.String(), "\x1b[")
}

func TestRenderer_Data(t *testing.T) {
	v := map[string]any{"name": "integer", "kind": "type"}

	r, out, _ := newTestRenderer(ModeJSON, false)
	ok, err := r.Data(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"integer","kind":"type"}`, out.String())

	r, out, _ = newTestRenderer(ModeYAML, false)
	ok, err = r.Data(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kind: type\nname: integer\n", out.String())

	r, out, _ = newTestRenderer(ModeMarkdown, false)
	ok, err = r.Data(v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out.String())
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"Name", "Kind"}
	rows := [][]string{{"integer", "type"}, {"TC_GAME", "category"}}

	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Table(header, rows)
	assert.Contains(t, out.String(), "| integer | type |")
	assert.Contains(t, out.String(), "| TC_GAME | category |")

	r, out, _ = newTestRenderer(ModeText, true)
	r.Table(header, rows)
	assert.Contains(t, out.String(), "integer")
	assert.Contains(t, out.String(), "┌")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title\n", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title\n", FormatHeader(3, "Title"))
	assert.Equal(t, "- **kind**: type", FormatKeyValue("kind", "type"))
	assert.Equal(t, "Preserve Unmodeled", Label("preserve unmodeled"))
}
