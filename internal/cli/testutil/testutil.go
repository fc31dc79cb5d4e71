// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/trigdata/internal/cli/output"
)

// SampleTriggerData is a small trigger data document with one record of
// every modeled kind and references between them.
const SampleTriggerData = `[TriggerCategories]
TC_GAME=WESTRING_TRIGCAT_GAME,Actions-Game
TC_EMPTY=WESTRING_TRIGCAT_EMPTY,Actions-Nothing,1

[TriggerTypes]
integer=0,1,1,WESTRING_TRIGTYPE_integer
unit=0,1,1,WESTRING_TRIGTYPE_unit

[TriggerTypeDefaults]
integer=0

[TriggerActions]
SetLife=0,unit,integer
_SetLife_Defaults=GetTriggerUnit,100
_SetLife_Category=TC_GAME

[TriggerCalls]
GetTriggerUnit=0,0,unit
`

// SetupTriggerData writes content to a trigger data file in a temporary
// directory and returns its path. Empty content writes SampleTriggerData.
func SetupTriggerData(t *testing.T, content string) string {
	t.Helper()

	if content == "" {
		content = SampleTriggerData
	}
	path := filepath.Join(t.TempDir(), "TriggerData.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	return path
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}
