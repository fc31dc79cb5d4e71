package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leapstack-labs/trigdata/internal/cli/output"
	"github.com/leapstack-labs/trigdata/internal/engine"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errCheckFailed is returned when any checked file has errors.
var errCheckFailed = errors.New("check failed")

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file|glob>...",
		Short: "Validate trigger data files",
		Long: `Parse each file into its own symbol table and report every rejected
block. Arguments may be glob patterns, including ** for any depth.

Exits non-zero when any file has errors.`,
		Example: `  # Check one file
  trigdata check TriggerData.txt

  # Check every trigger data file below the current directory
  trigdata check '**/*.txt'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)

	files, err := expandPatterns(args)
	if err != nil {
		return err
	}

	results, err := checkFiles(cmd.Context(), cmdCtx, files)
	if err != nil {
		return err
	}

	out := output.CheckOutput{Files: results}
	for _, res := range results {
		out.Errors += len(res.Errors)
	}

	r := cmdCtx.Renderer
	if ok, err := r.Data(out); ok {
		if err != nil {
			return err
		}
	} else {
		renderCheck(r, out, cmdCtx.Cfg.Verbose)
	}

	if out.Errors > 0 {
		return fmt.Errorf("%w: %d errors in %d files", errCheckFailed, out.Errors, len(files))
	}
	return nil
}

// expandPatterns resolves arguments to a sorted, de-duplicated file list.
// An argument without glob metacharacters must name an existing file.
func expandPatterns(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		if _, err := os.Stat(arg); err == nil {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		for _, m := range matches {
			add(filepath.Clean(m))
		}
	}

	slices.Sort(files)
	return files, nil
}

// checkFiles loads every file into an independent engine, at most
// cfg.Jobs at a time. Results keep the order of files.
func checkFiles(ctx context.Context, cmdCtx *CommandContext, files []string) ([]output.FileResult, error) {
	results := make([]output.FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cmdCtx.Cfg.Jobs)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := cmdCtx.Cfg.EngineConfig()
			cfg.Logger = cmdCtx.Logger.With("file", file)

			res, err := engine.New(cfg).LoadFile(file)
			if err != nil {
				results[i] = output.FileResult{File: file, Errors: []string{err.Error()}}
				return nil
			}
			results[i] = fileResult(file, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func fileResult(file string, res *engine.LoadResult) output.FileResult {
	fr := output.FileResult{File: file, Records: res.Records, Sections: res.Sections}
	for _, err := range res.Errors {
		fr.Errors = append(fr.Errors, err.Error())
	}
	for _, w := range res.Warnings {
		fr.Warnings = append(fr.Warnings, w.Error())
	}
	return fr
}

func renderCheck(r *output.Renderer, out output.CheckOutput, verbose bool) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Check"))
	}

	for _, res := range out.Files {
		detail := fmt.Sprintf("%d records", res.Records)
		switch {
		case len(res.Errors) > 0:
			r.StatusLine(res.File, "error", fmt.Sprintf("%s, %d errors", detail, len(res.Errors)))
		case len(res.Warnings) > 0:
			r.StatusLine(res.File, "warning", fmt.Sprintf("%s, %d skipped sections", detail, len(res.Warnings)))
		default:
			r.StatusLine(res.File, "success", detail)
		}
		for _, msg := range res.Errors {
			r.Printf("    %s\n", msg)
		}
		if verbose {
			for _, msg := range res.Warnings {
				r.Printf("    %s\n", msg)
			}
		}
	}
}
