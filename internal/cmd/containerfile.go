package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/cargotecture/internal/fileutil"
	"github.com/cameronsjo/cargotecture/internal/manifest"
	"github.com/cameronsjo/cargotecture/internal/sysml"
	"github.com/cameronsjo/cargotecture/internal/ui"
)

// formatJSON selects the JSON export of the container model.
const formatJSON = "json"

var (
	cfFormats   []string
	cfOutputDir string
	cfStableIDs bool
)

// containerfileCmd represents the containerfile command.
var containerfileCmd = &cobra.Command{
	Use:     "containerfile [file]",
	Aliases: []string{"cf"},
	Short:   "Parse a Dockerfile",
	Long: `Parse a Dockerfile into a container model and optionally render it.

The model records the base image and stage name from the last FROM, LABEL
pairs, EXPOSE ports, VOLUME mount points and the text of every instruction.

Formats:
  activity   SysML activity with one action per instruction
  block      SysML block with ports and data volumes
  package    Cargotecture definitions plus a package for the container
  json       The model and its docker container config as JSON

Examples:
  cargotecture containerfile Dockerfile
  cargotecture cf -f activity -f block Dockerfile
  cargotecture cf -f package -o out/ Dockerfile
  cat Dockerfile | cargotecture cf -f json`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeInputFiles,
	RunE:              runContainerfile,
}

func init() {
	containerfileCmd.Flags().StringSliceVarP(&cfFormats, "format", "f", nil, "Rendering to produce: activity, block, package or json (repeatable)")
	containerfileCmd.Flags().StringVarP(&cfOutputDir, "output", "o", "", "Write renderings into this directory")
	containerfileCmd.Flags().BoolVar(&cfStableIDs, "stable-ids", false, "Name ports and volumes by content instead of position")
	containerfileCmd.RegisterFlagCompletionFunc("format", completeFormats)

	rootCmd.AddCommand(containerfileCmd)
}

// exportDocument is the JSON export: the model plus its docker config.
type exportDocument struct {
	*manifest.Container
	Config *container.Config `json:"config"`
}

// rendering is one produced output.
type rendering struct {
	format string
	text   string
}

func runContainerfile(cmd *cobra.Command, args []string) error {
	formats := flagOrConfig(cmd, "format", cfFormats, cfg.Formats)
	outputDir := flagOrConfig(cmd, "output", cfOutputDir, cfg.OutputDir)
	opts := sysml.Options{StableIDs: flagOrConfig(cmd, "stable-ids", cfStableIDs, cfg.StableIDs)}

	// Keep stdout clean for renderings.
	status := ui.NewPrinter(cmd.OutOrStdout())
	if len(formats) > 0 && outputDir == "" {
		status = ui.NewPrinter(cmd.ErrOrStderr())
	}

	c, err := readContainer(cmd, args)
	if errors.Is(err, errInteractiveStdin) {
		return cmd.Help()
	}
	if err != nil {
		status.Error("Parse failed: %v", err)
		return err
	}
	status.Success("Parse successful")
	log.Debug("container parsed",
		"name", c.Name,
		"instructions", len(c.Instructions),
		"ports", len(c.ExposedPorts),
		"volumes", len(c.Volumes))

	renderings, err := renderContainer(c, formats, opts)
	if err != nil {
		status.Error("Render failed: %v", err)
		return err
	}

	if outputDir != "" {
		return writeRenderings(status, outputDir, c.Name, renderings)
	}
	for _, r := range renderings {
		printRendering(cmd.OutOrStdout(), r.text)
	}
	return nil
}

// renderContainer produces each requested format in order.
func renderContainer(c *manifest.Container, formats []string, opts sysml.Options) ([]rendering, error) {
	var out []rendering

	for _, format := range formats {
		if strings.EqualFold(strings.TrimSpace(format), formatJSON) {
			data, err := json.MarshalIndent(exportDocument{Container: c, Config: c.ContainerConfig()}, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("encode json: %w", err)
			}
			out = append(out, rendering{format: formatJSON, text: string(data) + "\n"})
			continue
		}

		kind, err := sysml.ParseKind(format)
		if err != nil {
			return nil, err
		}
		text, err := sysml.Render(kind, c, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, rendering{format: string(kind), text: text})
	}

	return out, nil
}

// writeRenderings writes each rendering to <dir>/<name>.<format>.sysml, or
// .json for the JSON export.
func writeRenderings(status *ui.Printer, dir, name string, renderings []rendering) error {
	for _, r := range renderings {
		path := filepath.Join(dir, outputFileName(name, r.format))
		if err := fileutil.WriteFileAtomic(path, []byte(r.text), 0644); err != nil {
			status.Error("Write failed: %v", err)
			return fmt.Errorf("write %s: %w", path, err)
		}
		status.Info("Wrote %s", path)
	}
	return nil
}

func outputFileName(name, format string) string {
	if format == formatJSON {
		return name + ".json"
	}
	return name + "." + format + ".sysml"
}

// printRendering writes text followed by a newline when it lacks one.
func printRendering(w io.Writer, text string) {
	fmt.Fprint(w, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(w)
	}
}
