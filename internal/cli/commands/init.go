package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/trigdata/internal/cli/config"
	"github.com/leapstack-labs/trigdata/internal/cli/output"
	"github.com/leapstack-labs/trigdata/internal/packages"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// projectConfig is the trigdata.yaml written by init.
type projectConfig struct {
	PreserveUnmodeled    bool   `yaml:"preserve_unmodeled"`
	PreserveUnrecognized bool   `yaml:"preserve_unrecognized"`
	PackagesDir          string `yaml:"packages_dir"`
	LogLevel             string `yaml:"log_level"`
	LogFormat            string `yaml:"log_format"`
	Output               string `yaml:"output"`
	Jobs                 int    `yaml:"jobs"`
}

const configHeader = "# trigdata configuration\n# Environment variables (TRIGDATA_*) and flags override these values.\n\n"

const exampleTriggerData = `[TriggerCategories]
TC_GAME=WESTRING_TRIGCAT_GAME,ReplaceableTextures\WorldEditUI\Actions-Game
TC_UNIT=WESTRING_TRIGCAT_UNIT,ReplaceableTextures\WorldEditUI\Actions-Unit

[TriggerTypes]
integer=0,1,1,WESTRING_TRIGTYPE_integer
unit=0,1,1,WESTRING_TRIGTYPE_unit

[TriggerTypeDefaults]
integer=0
unit=null,WESTRING_TRIGTYPEDEFAULT_NONE

[TriggerActions]
KillUnit=0,unit
_KillUnit_Defaults=GetTriggerUnit
_KillUnit_Category=TC_UNIT

[TriggerCalls]
GetTriggerUnit=0,0,unit
_GetTriggerUnit_Category=TC_UNIT
`

const examplePackageName = "example"

const exampleManifest = `[TriggerEditorPackage]
example=1.0.0
`

const examplePackageData = `[TriggerConditions]
IsUnitAlive=0,unit
_IsUnitAlive_Category=TC_UNIT
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new trigdata project",
		Long: `Initialize a trigdata project with a default configuration.

This creates:
  - trigdata.yaml configuration file
  - packages/ directory for trigger editor packages

Use --example to also write a small TriggerData.txt and an example package.`,
		Example: `  # Initialize in current directory
  trigdata init

  # Initialize a new directory with example data
  trigdata init my-map --example

  # Force overwrite existing config
  trigdata init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Also create example trigger data and an example package")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, example bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}

	d := config.Default()
	content, err := yaml.Marshal(projectConfig{
		PreserveUnmodeled:    d.PreserveUnmodeled,
		PreserveUnrecognized: d.PreserveUnrecognized,
		PackagesDir:          d.PackagesDir,
		LogLevel:             d.LogLevel,
		LogFormat:            d.LogFormat,
		Output:               d.OutputFormat,
		Jobs:                 d.Jobs,
	})
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	files := map[string]string{config.ConfigFileName: configHeader + string(content)}
	order := []string{config.ConfigFileName}
	if example {
		pkgDir := filepath.Join(d.PackagesDir, examplePackageName, "1")
		files["TriggerData.txt"] = exampleTriggerData
		files[filepath.Join(pkgDir, packages.ManifestFile)] = exampleManifest
		files[filepath.Join(pkgDir, packages.ContentsFile)] = examplePackageData
		order = append(order, "TriggerData.txt",
			filepath.Join(pkgDir, packages.ManifestFile),
			filepath.Join(pkgDir, packages.ContentsFile))
	}

	if err := os.MkdirAll(filepath.Join(dir, d.PackagesDir), 0750); err != nil {
		return fmt.Errorf("failed to create packages directory: %w", err)
	}

	for _, rel := range order {
		path := filepath.Join(dir, rel)
		if _, err := os.Stat(path); err == nil && !force {
			r.StatusLine(rel, "skipped", "exists")
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(path, []byte(files[rel]), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
		r.StatusLine(rel, "success", "")
	}

	r.Println("")
	r.Success("trigdata project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Copy your TriggerData.txt into the project")
	r.Println("  2. Run 'trigdata check TriggerData.txt' to validate it")
	r.Println("  3. Run 'trigdata list TriggerData.txt' to see all records")
	if example {
		r.Println("  4. Run 'trigdata pkg load example 1.0.0' to load the example package")
	}

	return nil
}
