package commands

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/trigdata/internal/engine"
	"github.com/leapstack-labs/trigdata/pkg/core"
	"github.com/spf13/cobra"
)

// errNoSelection is returned when the chooser is closed without a choice.
var errNoSelection = errors.New("nothing selected")

// ChooseOptions holds options for the choose command.
type ChooseOptions struct {
	Kind string
}

// NewChooseCommand creates the choose command.
func NewChooseCommand() *cobra.Command {
	opts := &ChooseOptions{}

	cmd := &cobra.Command{
		Use:   "choose <file>",
		Short: "Pick a record interactively and print its name",
		Long: `Open an interactive, filterable list of records in declaration order
and print the name of the chosen record. Type / to filter, enter to choose,
q or esc to quit.`,
		Example: `  # Pick a type
  trigdata choose TriggerData.txt --kind type

  # Show whatever was picked
  trigdata show TriggerData.txt "$(trigdata choose TriggerData.txt)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChoose(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Only offer records of this kind")
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)

	return cmd
}

func runChoose(cmd *cobra.Command, path string, opts *ChooseOptions) error {
	kinds, err := parseKindFlag(opts.Kind)
	if err != nil {
		return err
	}

	cmdCtx := NewCommandContext(cmd)
	if _, err := cmdCtx.Load(path); err != nil {
		return err
	}

	items := chooserItems(cmdCtx.Engine, kinds)
	if len(items) == 0 {
		return fmt.Errorf("no records to choose from in %s", path)
	}

	m := newChooser(items, "Choose a record")
	final, err := tea.NewProgram(m,
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	).Run()
	if err != nil {
		return fmt.Errorf("chooser failed: %w", err)
	}

	chosen := final.(chooser).chosen
	if chosen == "" {
		return errNoSelection
	}
	cmdCtx.Renderer.Println(chosen)
	return nil
}

// choice is one record offered by the chooser.
type choice struct {
	name string
	kind core.Kind
	desc string
}

func (c choice) Title() string       { return c.name }
func (c choice) Description() string { return c.desc }
func (c choice) FilterValue() string { return c.name }

// chooserItems lists records of kinds in registry order, kind by kind.
func chooserItems(eng *engine.Engine, kinds []core.Kind) []list.Item {
	var items []list.Item
	for _, k := range kinds {
		for _, rec := range eng.Registry().Records(k) {
			src := rec.Origin()
			items = append(items, choice{
				name: rec.Name(),
				kind: k,
				desc: fmt.Sprintf("%s · %s:%d", k, src.Document, src.Line),
			})
		}
	}
	return items
}

// chooser is the bubbletea model of the record picker.
type chooser struct {
	list   list.Model
	chosen string
}

func newChooser(items []list.Item, title string) chooser {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return chooser{list: l}
}

func (m chooser) Init() tea.Cmd { return nil }

func (m chooser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		// Keys go to the filter input while filtering.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if c, ok := m.list.SelectedItem().(choice); ok {
				m.chosen = c.name
			}
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m chooser) View() string { return m.list.View() }
