package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/cargotecture/internal/sysml"
	"github.com/cameronsjo/cargotecture/internal/ui"
)

var demoStableIDs bool

// demoCmd prints the package form for a Dockerfile.
var demoCmd = &cobra.Command{
	Use:   "demo [file]",
	Short: "Print the SysML package for a Dockerfile",
	Long: `Parse a Dockerfile and print the Cargotecture definitions followed by a
package describing the container.

Equivalent to: cargotecture containerfile --format package [file]`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeInputFiles,
	RunE:              runDemo,
}

func init() {
	demoCmd.Flags().BoolVar(&demoStableIDs, "stable-ids", false, "Name ports and volumes by content instead of position")

	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	opts := sysml.Options{StableIDs: flagOrConfig(cmd, "stable-ids", demoStableIDs, cfg.StableIDs)}
	status := ui.NewPrinter(cmd.ErrOrStderr())

	c, err := readContainer(cmd, args)
	if errors.Is(err, errInteractiveStdin) {
		return cmd.Help()
	}
	if err != nil {
		status.Error("Parse failed: %v", err)
		return err
	}

	text, err := sysml.RenderPackage(c, opts)
	if err != nil {
		status.Error("Render failed: %v", err)
		return err
	}
	printRendering(cmd.OutOrStdout(), text)
	return nil
}
