package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/trigdata/internal/cli/output"
	clitestutil "github.com/leapstack-labs/trigdata/internal/cli/testutil"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name        string
		checks      []HealthCheck
		recordCount int
		want        int
	}{
		{
			name:        "no checks returns 100",
			recordCount: 10,
			want:        100,
		},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{RuleID: "DR01", Status: "pass"},
				{RuleID: "DR03", Status: "pass"},
			},
			recordCount: 10,
			want:        100,
		},
		{
			name: "warnings reduce score",
			checks: []HealthCheck{
				{RuleID: "DR03", Status: "warn", IssueCount: 2},
			},
			recordCount: 10,
			want:        90,
		},
		{
			name: "errors count double",
			checks: []HealthCheck{
				{RuleID: "DR01", Status: "error", IssueCount: 2},
			},
			recordCount: 10,
			want:        80,
		},
		{
			name: "more records means less impact per issue",
			checks: []HealthCheck{
				{RuleID: "DR03", Status: "warn", IssueCount: 5},
			},
			recordCount: 100,
			want:        90,
		},
		{
			name: "score is clamped at zero",
			checks: []HealthCheck{
				{RuleID: "DR01", Status: "error", IssueCount: 50},
			},
			recordCount: 10,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateHealthScore(tt.checks, tt.recordCount))
		})
	}
}

func TestBuildDoctorOutput(t *testing.T) {
	const doc = `[TriggerCategories]
TC_GAME=WESTRING_TRIGCAT_GAME,Actions-Game
TC_EMPTY=WESTRING_TRIGCAT_EMPTY,Actions-Nothing

[TriggerTypes]
integer=0,1,1,WESTRING_TRIGTYPE_integer
unused=0,1,1,WESTRING_TRIGTYPE_unused

[TriggerActions]
SetLife=0,unit,integer
_SetLife_Category=TC_GAME
Wait=0,real

[TriggerCalls]
GetTriggerUnit=0,0,unit

[TriggerEvents]
MapInitializationEvent=0
`
	path := clitestutil.SetupTriggerData(t, doc)
	ctx, _ := newTestContext(t, path)

	out := buildDoctorOutput(ctx.Engine, path)
	assert.Equal(t, 8, out.Summary.Records)
	assert.Equal(t, 2, out.Summary.Kinds["Category"])
	assert.Equal(t, 1, out.Summary.Kinds["Unknown"])

	issues := make(map[string][]string)
	for _, check := range out.HealthChecks {
		issues[check.RuleID] = check.Details
	}
	assert.Equal(t, []string{
		"SetLife uses undeclared type unit",
		"Wait uses undeclared type real",
		"GetTriggerUnit uses undeclared type unit",
	}, issues["DR01"])
	assert.Equal(t, []string{"TC_EMPTY"}, issues["DR02"])
	assert.Equal(t, []string{"unused"}, issues["DR03"])
	assert.Equal(t, []string{"Wait", "GetTriggerUnit"}, issues["DR04"])
	assert.Equal(t, []string{"[TriggerEvents] MapInitializationEvent"}, issues["DR05"])

	assert.Equal(t, "error", out.HealthChecks[0].Status)
	assert.Equal(t, "warn", out.HealthChecks[1].Status)
	require.Len(t, out.Recommendations, 5)
	assert.Equal(t, doctorRules[0].advice, out.Recommendations[0])
	assert.Equal(t, 45, out.Score)
}

func TestRenderDoctor(t *testing.T) {
	path := clitestutil.SetupTriggerData(t, "")
	ctx, _ := newTestContext(t, path)
	out := buildDoctorOutput(ctx.Engine, path)
	assert.Equal(t, 7, out.Summary.Records)
	assert.Equal(t, 90, out.Score)

	t.Run("markdown", func(t *testing.T) {
		tr := clitestutil.NewTestRendererMarkdown()
		renderDoctorMarkdown(tr.Renderer, out)
		got := tr.Out.String()
		assert.Contains(t, got, "# Trigger Data Health Report")
		assert.Contains(t, got, "### References")
		assert.Contains(t, got, "- **[PASS]** DR01: Argument and return types are declared")
		assert.Contains(t, got, "- **[WARN]** DR02: Categories are used (1 issues)")
		assert.Contains(t, got, "  - TC_EMPTY")
		assert.Contains(t, got, "**90/100**")
	})

	t.Run("text", func(t *testing.T) {
		tr := clitestutil.NewTestRenderer(output.ModeText, false)
		renderDoctorText(tr.Renderer, out)
		got := tr.Out.String()
		assert.Contains(t, got, "Trigger Data Health Report")
		assert.Contains(t, got, "   Usage")
		assert.Contains(t, got, "DR04: Functions have a category (1 issues)")
		assert.Contains(t, got, "       - GetTriggerUnit")
		assert.Contains(t, got, "Health Score: 90/100")
	})
}
