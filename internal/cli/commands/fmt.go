package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool
	List  bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a trigger data file in canonical form",
		Long: `Parse a trigger data file and print it back in canonical form:
comments dropped, whitespace normalized, sections in their original order and
records in declaration order.

Files with rejected blocks are never written back.`,
		Example: `  # Print the canonical form
  trigdata fmt TriggerData.txt

  # Rewrite the file in place
  trigdata fmt -w TriggerData.txt

  # Report whether the file is canonical
  trigdata fmt -l TriggerData.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write result to the file instead of stdout")
	cmd.Flags().BoolVarP(&opts.List, "list", "l", false, "List the file if its formatting differs")

	return cmd
}

func runFmt(cmd *cobra.Command, path string, opts *FmtOptions) error {
	cmdCtx := NewCommandContext(cmd)

	load := cmdCtx.Load
	if opts.Write {
		load = cmdCtx.LoadClean
	}
	if _, err := load(path); err != nil {
		return err
	}

	text, err := cmdCtx.Engine.Format(path)
	if err != nil {
		return err
	}

	if opts.List {
		original, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if string(original) != text {
			cmdCtx.Renderer.Println(path)
		}
		if !opts.Write {
			return nil
		}
	}

	if opts.Write {
		return writeBack(path, text)
	}
	cmdCtx.Renderer.Print(text)
	return nil
}
