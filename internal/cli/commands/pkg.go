package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/trigdata/internal/cli/output"
	"github.com/leapstack-labs/trigdata/internal/packages"
	"github.com/spf13/cobra"
)

// NewPackageCommand creates the pkg command group.
func NewPackageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pkg",
		Short: "Work with trigger editor packages",
		Long: `Trigger editor packages bundle trigger data with a manifest naming the
package, its semantic version and the packages it requires. Packages live
under packages_dir as <name>/<major>/{package.txt,triggerdata.txt}.`,
	}
	cmd.AddCommand(newPackageLoadCommand())
	return cmd
}

// PackageLoadOptions holds options for the pkg load command.
type PackageLoadOptions struct {
	Format bool
}

func newPackageLoadCommand() *cobra.Command {
	opts := &PackageLoadOptions{}

	cmd := &cobra.Command{
		Use:   "load <name> <version>",
		Short: "Load a package and its dependencies",
		Long: `Load a package at a version compatible with the one given (same major,
not older), loading every required package first. Prints the loaded set in
load order.`,
		Example: `  # Load a package from ./packages
  trigdata pkg load blizzard 1.0.0

  # Load from another directory and print the combined trigger data
  trigdata pkg load blizzard v1.2 --packages-dir ~/wc3/packages --fmt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackageLoad(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Format, "fmt", false, "Print the canonical text of every loaded package")
	return cmd
}

func runPackageLoad(cmd *cobra.Command, name, version string, opts *PackageLoadOptions) error {
	cmdCtx := NewCommandContext(cmd)
	loader := packages.NewLoader(cmdCtx.Cfg.PackagesDir, cmdCtx.Engine, cmdCtx.Logger)

	loaded, err := loader.Load(cmd.Context(), name, version)
	if err != nil {
		return err
	}

	infos := make([]output.PackageInfo, len(loaded))
	for i, p := range loaded {
		infos[i] = packageInfo(cmdCtx, p)
	}
	r := cmdCtx.Renderer

	if ok, err := r.Data(infos); ok {
		return err
	}

	if opts.Format {
		for _, p := range loaded {
			text, err := cmdCtx.Engine.Format(p.Document)
			if err != nil {
				return err
			}
			r.Print(text)
		}
		return nil
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, fmt.Sprintf("Packages (%d loaded)", len(infos))))
	}
	for _, info := range infos {
		detail := fmt.Sprintf("%d records", info.Records)
		if len(info.Requirements) > 0 {
			detail += ", requires " + strings.Join(info.Requirements, ", ")
		}
		r.StatusLine(info.Name+" "+info.Version, "success", detail)
	}
	return nil
}

func packageInfo(cmdCtx *CommandContext, p *packages.Package) output.PackageInfo {
	info := output.PackageInfo{
		Name:    p.Name,
		Version: p.Version,
		Records: len(cmdCtx.Engine.RecordsOf(p.Document)),
	}
	for _, req := range p.Requirements {
		info.Requirements = append(info.Requirements, req.Name+"@"+req.Version)
	}
	return info
}
