package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/trigdata/internal/cli/config"
	"github.com/leapstack-labs/trigdata/internal/cli/output"
	"github.com/leapstack-labs/trigdata/internal/engine"
	"github.com/spf13/cobra"
)

// errLoadFailed is returned when a document loaded with block errors and
// the command would otherwise write back an incomplete document.
var errLoadFailed = errors.New("document has errors")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an empty engine and a renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = logger

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   engine.New(engineCfg),
		Renderer: r,
	}
}

// getConfig returns the current configuration, or the defaults when the
// command runs without the root command (as in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// Load loads path into the engine. Block errors are reported as warnings
// and do not fail the load.
func (c *CommandContext) Load(path string) (*engine.LoadResult, error) {
	result, err := c.Engine.LoadFile(path)
	if err != nil {
		return nil, err
	}
	c.report(result)
	return result, nil
}

// LoadClean loads path and fails if any block was rejected or any section
// was skipped. Commands that write the document back use it so no input is
// dropped.
func (c *CommandContext) LoadClean(path string) (*engine.LoadResult, error) {
	result, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	if result.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %d rejected blocks", errLoadFailed, path, len(result.Errors))
	}
	if len(result.Skipped) > 0 {
		return nil, fmt.Errorf("%w: %s: skipped sections %s", errLoadFailed, path, strings.Join(result.Skipped, ", "))
	}
	return result, nil
}

func (c *CommandContext) report(result *engine.LoadResult) {
	for _, err := range result.Errors {
		c.Renderer.Error(err.Error())
	}
	if c.Cfg.Verbose {
		for _, w := range result.Warnings {
			c.Renderer.Warning(w.Error())
		}
		c.Renderer.Muted(result.Summary())
	}
}

// writeBack replaces the file at path with content, keeping its mode.
func writeBack(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
