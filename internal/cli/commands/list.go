package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/trigdata/internal/cli/output"
	"github.com/leapstack-labs/trigdata/internal/engine"
	"github.com/leapstack-labs/trigdata/pkg/core"
	"github.com/spf13/cobra"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Kind string
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List records by kind in declaration order",
		Long: `List the records of a trigger data file, grouped by kind, in the
order they were declared.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # List every record
  trigdata list TriggerData.txt

  # List only types as JSON
  trigdata list TriggerData.txt --kind type -o json

  # List conditions, actions and calls together
  trigdata list TriggerData.txt --kind function`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Only list records of this kind")
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)

	return cmd
}

func runList(cmd *cobra.Command, path string, opts *ListOptions) error {
	kinds, err := parseKindFlag(opts.Kind)
	if err != nil {
		return err
	}

	cmdCtx := NewCommandContext(cmd)
	if _, err := cmdCtx.Load(path); err != nil {
		return err
	}

	out := buildListOutput(cmdCtx.Engine, path, kinds)
	r := cmdCtx.Renderer

	if ok, err := r.Data(out); ok {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeMarkdown:
		listMarkdown(r, out)
	default:
		listText(r, out)
	}
	return nil
}

func buildListOutput(eng *engine.Engine, document string, kinds []core.Kind) output.ListOutput {
	out := output.ListOutput{Document: document, Kinds: []output.KindList{}}
	for _, k := range kinds {
		var names []string
		for _, rec := range eng.Registry().Records(k) {
			if rec.Origin().Document == document {
				names = append(names, rec.Name())
			}
		}
		if len(names) == 0 {
			continue
		}
		out.Kinds = append(out.Kinds, output.KindList{Kind: k.String(), Names: names})
		out.Total += len(names)
	}
	return out
}

// listText outputs records as a table.
func listText(r *output.Renderer, out output.ListOutput) {
	r.Header(1, fmt.Sprintf("Records (%d total)", out.Total))

	var rows [][]string
	for _, kl := range out.Kinds {
		for i, name := range kl.Names {
			rows = append(rows, []string{kl.Kind, fmt.Sprint(i + 1), name})
		}
	}
	r.Table([]string{"Kind", "#", "Name"}, rows)
}

// listMarkdown outputs records as markdown lists per kind.
func listMarkdown(r *output.Renderer, out output.ListOutput) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Records (%d total)", out.Total)))

	for _, kl := range out.Kinds {
		r.Println(output.FormatHeader(2, fmt.Sprintf("%s (%d)", kl.Kind, len(kl.Names))))
		items := make([]string, len(kl.Names))
		for i, name := range kl.Names {
			items[i] = "- " + name
		}
		r.Println(strings.Join(items, "\n"))
		r.Println("")
	}
}
