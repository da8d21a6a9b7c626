// Package cmd provides the CLI commands for cargotecture.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/cargotecture/internal/config"
	"github.com/cameronsjo/cargotecture/internal/ui"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool
	noColor bool

	// cfg is loaded before every command runs.
	cfg = config.Defaults()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cargotecture",
	Short: "Generate SysML v2 representations of container files",
	Long: `cargotecture - container architecture as SysML

Parses Dockerfiles and docker compose files into a structural model and
renders that model as SysML v2 text.

COMMANDS
  containerfile [file]    Parse a Dockerfile (alias: cf)
    --format, -f <kind>   Render activity, block, package or json
    --output, -o <dir>    Write renderings to files instead of stdout
    --stable-ids          Name ports and volumes by content
  compose [file]          Parse and validate a compose file (alias: cmp)
    --render              Print the topology as a SysML package
    --strict              Treat warnings as failures
  demo [file]             Print the SysML package for a Dockerfile

Without a file argument, input is read from stdin.

CONFIGURATION
  .cargotecture.yaml is read from the working directory or the nearest
  parent. Environment variables prefixed with CARGOTECTURE_ override it.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the nearest "+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.SetVersionTemplate("cargotecture version {{.Version}}\n")
}

// initConfig loads the configuration and applies logging and color settings.
func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if noColor {
		ui.SetColor(false)
	}

	if err := setupLogging(cmd.ErrOrStderr(), cfg.LogLevel, verbose); err != nil {
		return err
	}
	if cfg.Path != "" {
		log.Debug("using config file", "path", cfg.Path)
	}
	return nil
}

// setupLogging configures the default logger. verbose forces debug level.
func setupLogging(w io.Writer, level string, verbose bool) error {
	lvl := log.DebugLevel
	if !verbose {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log_level %q: %w", level, err)
		}
		lvl = parsed
	}

	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetReportTimestamp(false)
	return nil
}
