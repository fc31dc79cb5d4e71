package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// EditOptions holds options shared by the editing commands.
type EditOptions struct {
	Write bool
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand() *cobra.Command {
	opts := &EditOptions{}

	cmd := &cobra.Command{
		Use:     "rm <file> <name>...",
		Aliases: []string{"remove"},
		Short:   "Remove records that nothing else references",
		Long: `Remove one or more records. Removal is refused while a record outside
the removed set still references one of them; nothing is removed in that case.

Without -w the resulting document is printed.`,
		Example: `  # Remove an unused category
  trigdata rm TriggerData.txt TC_NOTHING

  # Remove a type together with its default and write the file
  trigdata rm -w TriggerData.txt unitcode`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], opts, func(c *CommandContext) (string, error) {
				names := args[1:]
				if err := c.Engine.Remove(names...); err != nil {
					return "", err
				}
				return fmt.Sprintf("removed %s", strings.Join(names, ", ")), nil
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write result to the file instead of stdout")
	return cmd
}

// NewMoveCommand creates the mv command.
func NewMoveCommand() *cobra.Command {
	opts := &EditOptions{}

	cmd := &cobra.Command{
		Use:     "mv <file> <old> <new>",
		Aliases: []string{"rename"},
		Short:   "Rename a record and update its referrers",
		Long: `Rename a record in place. Renaming a category rewrites the Category
parameter of every function in it; renaming a type rewrites argument and
return types and renames the type's default.`,
		Example: `  # Rename a type
  trigdata mv -w TriggerData.txt unitcode unittypecode`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], opts, func(c *CommandContext) (string, error) {
				if err := c.Engine.Rename(args[1], args[2]); err != nil {
					return "", err
				}
				return fmt.Sprintf("renamed %s to %s", args[1], args[2]), nil
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write result to the file instead of stdout")
	return cmd
}

func runEdit(cmd *cobra.Command, path string, opts *EditOptions, edit func(*CommandContext) (string, error)) error {
	cmdCtx := NewCommandContext(cmd)
	if _, err := cmdCtx.LoadClean(path); err != nil {
		return err
	}

	msg, err := edit(cmdCtx)
	if err != nil {
		return err
	}

	text, err := cmdCtx.Engine.Format(path)
	if err != nil {
		return err
	}
	if !opts.Write {
		cmdCtx.Renderer.Print(text)
		return nil
	}
	if err := writeBack(path, text); err != nil {
		return err
	}
	cmdCtx.Renderer.Success(msg)
	return nil
}
