package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/trigdata/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file> <name>",
		Short: "Show a record's fields, canonical text and references",
		Example: `  # Show a type
  trigdata show TriggerData.txt integer

  # Show an action as YAML
  trigdata show TriggerData.txt SetUnitLifeBJ -o yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], args[1])
		},
	}
}

func runShow(cmd *cobra.Command, path, name string) error {
	cmdCtx := NewCommandContext(cmd)
	if _, err := cmdCtx.Load(path); err != nil {
		return err
	}

	rec, err := cmdCtx.Engine.Lookup(name)
	if err != nil {
		return err
	}
	info := recordInfo(cmdCtx.Engine, rec)
	r := cmdCtx.Renderer

	if ok, err := r.Data(info); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		showMarkdown(r, info)
		return nil
	}
	showText(r, info)
	return nil
}

func showText(r *output.Renderer, info output.RecordInfo) {
	s := r.Styles()
	r.Printf("%s %s\n", s.Kind.Render(info.Kind), s.Name.Render(info.Name))
	r.Muted(fmt.Sprintf("%s:%d [%s]", info.Document, info.Line, info.Section))
	r.Println("")

	rows := make([][]string, len(info.Fields))
	for i, f := range info.Fields {
		rows[i] = []string{f.Key, f.Value}
	}
	if len(rows) > 0 {
		r.Table([]string{"Field", "Value"}, rows)
		r.Println("")
	}

	r.Print(info.Text)
	if len(info.References) > 0 {
		r.Println("")
		r.Printf("%s %s\n", s.Bold.Render("Referenced by:"), strings.Join(info.References, ", "))
	}
}

func showMarkdown(r *output.Renderer, info output.RecordInfo) {
	r.Println(output.FormatHeader(1, info.Name))
	r.Println(output.FormatKeyValue("Kind", info.Kind))
	r.Println(output.FormatKeyValue("Source", fmt.Sprintf("%s:%d", info.Document, info.Line)))
	r.Println(output.FormatKeyValue("Section", info.Section))
	for _, f := range info.Fields {
		r.Println(output.FormatKeyValue(f.Key, f.Value))
	}
	if len(info.References) > 0 {
		r.Println(output.FormatKeyValue("Referenced by", strings.Join(info.References, ", ")))
	}
	r.Println("")
	r.Println("```ini")
	r.Print(info.Text)
	r.Println("```")
}

// NewRefsCommand creates the refs command.
func NewRefsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refs <file> <name>",
		Short: "Show which records reference a record",
		Long: `Show the reference set of a record: the records that would block
its removal. Only categories and types can be referenced. The records the
named record itself points at are listed as targets.`,
		Example: `  # Who uses the unit type?
  trigdata refs TriggerData.txt unit`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefs(cmd, args[0], args[1])
		},
	}
}

func runRefs(cmd *cobra.Command, path, name string) error {
	cmdCtx := NewCommandContext(cmd)
	if _, err := cmdCtx.Load(path); err != nil {
		return err
	}

	rec, err := cmdCtx.Engine.Lookup(name)
	if err != nil {
		return err
	}

	out := output.RefsOutput{
		Name:       rec.Name(),
		Kind:       rec.Kind().String(),
		References: nonNil(cmdCtx.Engine.References(name)),
		Targets:    nonNil(cmdCtx.Engine.Registry().Targets(name)),
	}
	r := cmdCtx.Renderer

	if ok, err := r.Data(out); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("%s %s", out.Kind, out.Name))
	if len(out.References) == 0 {
		r.Muted("not referenced")
	} else {
		rows := make([][]string, len(out.References))
		for i, ref := range out.References {
			kind := ""
			if rr, err := cmdCtx.Engine.Lookup(ref); err == nil {
				kind = rr.Kind().String()
			}
			rows[i] = []string{ref, kind}
		}
		r.Table([]string{"Referenced by", "Kind"}, rows)
	}
	if len(out.Targets) > 0 {
		r.Println("")
		r.Println(output.FormatKeyValue("References", strings.Join(out.Targets, ", ")))
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
