package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/trigdata/pkg/core"
	"github.com/spf13/cobra"
)

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell <file>",
		Short: "Edit a trigger data file interactively",
		Long: `Open an interactive session over one trigger data file. Records can be
inspected, renamed, removed and have their block parameters changed; write
saves the canonical form back to the file.`,
		Example: `  trigdata shell TriggerData.txt`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, args[0])
		},
	}
}

func runShell(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	if _, err := cmdCtx.Load(path); err != nil {
		return err
	}
	sh := &shell{ctx: cmdCtx, path: path}

	home, _ := os.UserHomeDir()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "trigdata> ",
		HistoryFile:     filepath.Join(home, ".trigdata_history"),
		AutoComplete:    sh.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cmdCtx.Renderer.Printf("trigdata shell (%s)\n", path)
	cmdCtx.Renderer.Println("Type help for commands, quit to exit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if sh.exec(line) {
			break
		}
	}

	if sh.dirty {
		cmdCtx.Renderer.Warning("unsaved changes discarded")
	}
	return nil
}

// shell is one interactive session over a loaded document.
type shell struct {
	ctx   *CommandContext
	path  string
	dirty bool
}

// exec runs one command line. It reports true when the session should end.
func (s *shell) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	if command == "quit" || command == "exit" {
		return true
	}
	if err := s.run(command, args); err != nil {
		s.ctx.Renderer.Error(err.Error())
	}
	return false
}

func (s *shell) run(command string, args []string) error {
	eng := s.ctx.Engine
	r := s.ctx.Renderer

	switch command {
	case "help":
		printShellHelp(r.Writer())

	case "ls":
		kind := ""
		if len(args) > 0 {
			kind = args[0]
		}
		kinds, err := parseKindFlag(kind)
		if err != nil {
			return err
		}
		for _, k := range kinds {
			if names := eng.Names(k); len(names) > 0 {
				r.Printf("%s: %s\n", k, strings.Join(names, " "))
			}
		}

	case "show":
		if len(args) != 1 {
			return errors.New("usage: show <name>")
		}
		text, err := eng.FormatRecord(args[0])
		if err != nil {
			return err
		}
		r.Print(text)

	case "refs":
		if len(args) != 1 {
			return errors.New("usage: refs <name>")
		}
		if _, err := eng.Lookup(args[0]); err != nil {
			return err
		}
		refs := eng.References(args[0])
		if len(refs) == 0 {
			r.Muted("not referenced")
			break
		}
		r.Println(strings.Join(refs, "\n"))

	case "rm":
		if len(args) == 0 {
			return errors.New("usage: rm <name>...")
		}
		if err := eng.Remove(args...); err != nil {
			return err
		}
		s.dirty = true
		r.Success("removed " + strings.Join(args, ", "))

	case "mv":
		if len(args) != 2 {
			return errors.New("usage: mv <old> <new>")
		}
		if err := eng.Rename(args[0], args[1]); err != nil {
			return err
		}
		s.dirty = true
		r.Success(fmt.Sprintf("renamed %s to %s", args[0], args[1]))

	case "set":
		if len(args) != 3 {
			return errors.New("usage: set <name> <param> <value>")
		}
		if err := eng.SetParam(args[0], core.Param(args[1]), args[2]); err != nil {
			return err
		}
		s.dirty = true

	case "unset":
		if len(args) != 2 {
			return errors.New("usage: unset <name> <param>")
		}
		if err := eng.DeleteParam(args[0], core.Param(args[1])); err != nil {
			return err
		}
		s.dirty = true

	case "fmt":
		text, err := eng.Format(s.path)
		if err != nil {
			return err
		}
		r.Print(text)

	case "write":
		text, err := eng.Format(s.path)
		if err != nil {
			return err
		}
		if err := writeBack(s.path, text); err != nil {
			return err
		}
		s.dirty = false
		r.Success("wrote " + s.path)

	default:
		return fmt.Errorf("unknown command: %s (type help for commands)", command)
	}
	return nil
}

func (s *shell) completer() *readline.PrefixCompleter {
	var names []readline.PrefixCompleterInterface
	for _, rec := range s.ctx.Engine.Registry().All() {
		names = append(names, readline.PcItem(rec.Name()))
	}
	var kinds []readline.PrefixCompleterInterface
	for _, k := range core.ConcreteKinds() {
		kinds = append(kinds, readline.PcItem(strings.ToLower(k.String())))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("ls", kinds...),
		readline.PcItem("show", names...),
		readline.PcItem("refs", names...),
		readline.PcItem("rm", names...),
		readline.PcItem("mv", names...),
		readline.PcItem("set", names...),
		readline.PcItem("unset", names...),
		readline.PcItem("fmt"),
		readline.PcItem("write"),
		readline.PcItem("quit"),
	)
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  ls [kind]                  List record names in declaration order
  show <name>                Print a record in canonical form
  refs <name>                List records referencing a record
  rm <name>...               Remove unreferenced records
  mv <old> <new>             Rename a record and update referrers
  set <name> <param> <value> Set a block parameter (Defaults, Limits, Category, ScriptName)
  unset <name> <param>       Delete a block parameter
  fmt                        Print the document in canonical form
  write                      Save the document
  quit / exit                Leave the shell
`
	_, _ = fmt.Fprintln(w, help)
}
