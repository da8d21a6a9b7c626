package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/cargotecture/internal/compose"
	"github.com/cameronsjo/cargotecture/internal/sysml"
	"github.com/cameronsjo/cargotecture/internal/ui"
)

// ErrStrictValidation indicates --strict rejected a topology.
var ErrStrictValidation = errors.New("compose validation failed in strict mode")

var (
	composeRender    bool
	composeStrict    bool
	composeStableIDs bool
)

// composeCmd represents the compose command.
var composeCmd = &cobra.Command{
	Use:     "compose [file]",
	Aliases: []string{"cmp"},
	Short:   "Parse and validate a docker compose file",
	Long: `Parse a docker compose file and validate its cross-references.

Each service is checked for:
  - a restart policy of no, always, on-failure or unless-stopped
  - networks declared in the top-level networks section
  - depends_on entries naming declared services

Dependency cycles, host port conflicts and undeclared named volumes are
reported as warnings. Validation is advisory unless --strict is set, in
which case any violation or warning fails the command.

Examples:
  cargotecture compose docker-compose.yml
  cargotecture cmp --strict docker-compose.yml
  cargotecture cmp --render docker-compose.yml > stack.sysml`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeComposeFiles,
	RunE:              runCompose,
}

func init() {
	composeCmd.Flags().BoolVar(&composeRender, "render", false, "Print the topology as a SysML package")
	composeCmd.Flags().BoolVar(&composeStrict, "strict", false, "Treat warnings as failures")
	composeCmd.Flags().BoolVar(&composeStableIDs, "stable-ids", false, "Name ports and volumes by content instead of position")

	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	strict := flagOrConfig(cmd, "strict", composeStrict, cfg.Strict)
	opts := sysml.Options{StableIDs: flagOrConfig(cmd, "stable-ids", composeStableIDs, cfg.StableIDs)}

	status := ui.NewPrinter(cmd.OutOrStdout())
	if composeRender {
		status = ui.NewPrinter(cmd.ErrOrStderr())
	}

	topo, name, err := readTopology(cmd, args)
	if errors.Is(err, errInteractiveStdin) {
		return cmd.Help()
	}
	if err != nil {
		status.Error("Parse failed: %v", err)
		return err
	}

	report := compose.Validate(topo)
	printReport(status, report)
	status.Success("Parse successful")
	log.Debug("compose file validated",
		"services", len(topo.Services),
		"violations", len(report.Violations),
		"warnings", len(report.Warnings))

	if composeRender {
		text, err := sysml.RenderTopology(topo, name, opts)
		if err != nil {
			status.Error("Render failed: %v", err)
			return err
		}
		printRendering(cmd.OutOrStdout(), text)
	}

	if strict && (!report.OK() || len(report.Warnings) > 0) {
		return fmt.Errorf("%w: %d violations, %d warnings",
			ErrStrictValidation, len(report.Violations), len(report.Warnings))
	}
	return nil
}

// printReport prints the first violation in the summary line, then the
// remaining violations and every warning.
func printReport(status *ui.Printer, report *compose.Report) {
	if report.OK() {
		status.Success("Validation successful")
	} else {
		status.Error("Compose validation failed: %v", report.First())
		for _, v := range report.Violations[1:] {
			status.Error("  %v", v)
		}
	}

	for _, w := range report.Warnings {
		status.Warning("%s", w)
	}
}
