package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/trigdata/internal/cli/output"
	"github.com/leapstack-labs/trigdata/internal/engine"
	"github.com/leapstack-labs/trigdata/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DoctorOutput is the JSON output structure for the doctor command.
type DoctorOutput struct {
	Summary         DocumentSummary `json:"summary" yaml:"summary"`
	HealthChecks    []HealthCheck   `json:"health_checks" yaml:"health_checks"`
	Score           int             `json:"score" yaml:"score"`
	Recommendations []string        `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// DocumentSummary counts the records of a document by kind.
type DocumentSummary struct {
	Document string         `json:"document" yaml:"document"`
	Records  int            `json:"records" yaml:"records"`
	Kinds    map[string]int `json:"kinds" yaml:"kinds"`
}

// HealthCheck is the result of one check.
type HealthCheck struct {
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Status     string   `json:"status" yaml:"status"` // pass, warn, error
	IssueCount int      `json:"issue_count" yaml:"issue_count"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
}

type doctorRule struct {
	id       string
	name     string
	group    string
	severity string
	advice   string
	find     func(eng *engine.Engine, recs []core.Record) []string
}

var doctorRules = []doctorRule{
	{
		id: "DR01", name: "Argument and return types are declared", group: "references",
		severity: "error", advice: "Declare the missing types or fix the function signatures",
		find: findUndeclaredTypes,
	},
	{
		id: "DR02", name: "Categories are used", group: "usage",
		severity: "warn", advice: "Remove categories that no function refers to",
		find: unreferenced(core.KindCategory),
	},
	{
		id: "DR03", name: "Types are used", group: "usage",
		severity: "warn", advice: "Remove types that no function or default refers to",
		find: unreferenced(core.KindType),
	},
	{
		id: "DR04", name: "Functions have a category", group: "coverage",
		severity: "warn", advice: "Add a _Category parameter to uncategorized functions",
		find: findUncategorized,
	},
	{
		id: "DR05", name: "All sections are modeled", group: "coverage",
		severity: "warn", advice: "Check the names of sections holding unmodeled blocks",
		find: findUnmodeled,
	},
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor <file>",
		Short: "Check the health of a trigger data document",
		Long: `Run health checks against a trigger data document.

The checks report references to undeclared types, declarations that
nothing uses, functions without a category and blocks from sections the
toolkit does not model. The report ends with a health score from 0 to 100.`,
		Example: `  # Check a document
  trigdata doctor TriggerData.txt

  # Machine-readable report
  trigdata doctor TriggerData.txt -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args[0])
		},
	}
	return cmd
}

func runDoctor(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	if _, err := cmdCtx.Load(path); err != nil {
		return err
	}

	out := buildDoctorOutput(eng, path)
	if ok, err := r.Data(out); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		renderDoctorMarkdown(r, out)
		return nil
	}
	renderDoctorText(r, out)
	return nil
}

func buildDoctorOutput(eng *engine.Engine, document string) *DoctorOutput {
	recs := eng.RecordsOf(document)

	summary := DocumentSummary{Document: document, Records: len(recs), Kinds: make(map[string]int)}
	for _, rec := range recs {
		summary.Kinds[rec.Kind().String()]++
	}

	checks := make([]HealthCheck, 0, len(doctorRules))
	for _, rule := range doctorRules {
		details := rule.find(eng, recs)
		check := HealthCheck{
			RuleID:     rule.id,
			Name:       rule.name,
			Group:      rule.group,
			Status:     "pass",
			IssueCount: len(details),
			Details:    details,
		}
		if len(details) > 0 {
			check.Status = rule.severity
		}
		checks = append(checks, check)
	}

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, len(recs)),
		Recommendations: generateRecommendations(checks),
	}
}

func findUndeclaredTypes(eng *engine.Engine, recs []core.Record) []string {
	var details []string
	for _, rec := range recs {
		fn, ok := core.FunctionOf(rec)
		if !ok {
			continue
		}
		types := fn.ArgTypes
		if call, ok := rec.(*core.Call); ok {
			types = append([]string{call.ReturnType}, types...)
		}
		for _, t := range types {
			if !declared(eng, t, core.KindType) {
				details = append(details, fmt.Sprintf("%s uses undeclared type %s", rec.Name(), t))
			}
		}
	}
	return details
}

func declared(eng *engine.Engine, name string, k core.Kind) bool {
	_, err := eng.Registry().LookupKind(name, k)
	return err == nil
}

func unreferenced(k core.Kind) func(*engine.Engine, []core.Record) []string {
	return func(eng *engine.Engine, recs []core.Record) []string {
		var details []string
		for _, rec := range recs {
			if rec.Kind() == k && !eng.IsReferenced(rec.Name()) {
				details = append(details, rec.Name())
			}
		}
		return details
	}
}

func findUncategorized(_ *engine.Engine, recs []core.Record) []string {
	var details []string
	for _, rec := range recs {
		fn, ok := core.FunctionOf(rec)
		if !ok {
			continue
		}
		if _, ok := fn.Params.Category(); !ok {
			details = append(details, rec.Name())
		}
	}
	return details
}

func findUnmodeled(_ *engine.Engine, recs []core.Record) []string {
	var details []string
	for _, rec := range recs {
		if rec.Kind() == core.KindUnknown {
			details = append(details, fmt.Sprintf("[%s] %s", rec.Origin().Section, rec.Name()))
		}
	}
	return details
}

func calculateHealthScore(checks []HealthCheck, recordCount int) int {
	// With more records, each individual issue has less impact
	basePenalty := 5.0
	if recordCount > 50 {
		basePenalty = 2.0
	}
	if recordCount > 500 {
		basePenalty = 0.5
	}

	score := 100.0
	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	return int(max(0, min(100, score)))
}

// generateRecommendations lists the advice of every failing rule, errors first.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	for _, severity := range []string{"error", "warn"} {
		for i, check := range checks {
			if check.Status == severity {
				recommendations = append(recommendations, doctorRules[i].advice)
			}
		}
	}
	return recommendations
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println(styles.Header.Render("Trigger Data Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Printf("   %s: %d records\n", out.Summary.Document, out.Summary.Records)
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))

	if len(out.Recommendations) > 0 {
		r.Println("")
		r.Println(styles.Bold.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# Trigger Data Health Report")
	r.Println("")
	r.Println(output.FormatKeyValue("Document", out.Summary.Document))
	r.Println(output.FormatKeyValue("Records", fmt.Sprint(out.Summary.Records)))
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)

	if len(out.Recommendations) > 0 {
		r.Println("")
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
	}
}
