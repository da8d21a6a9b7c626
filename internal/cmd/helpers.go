package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cameronsjo/cargotecture/internal/compose"
	"github.com/cameronsjo/cargotecture/internal/manifest"
)

// errInteractiveStdin indicates no file was given and stdin is a terminal.
var errInteractiveStdin = errors.New("no input file and stdin is a terminal")

// stdinReader returns the command's stdin unless it is an interactive terminal.
func stdinReader(cmd *cobra.Command) (io.Reader, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errInteractiveStdin
	}
	return in, nil
}

// readContainer parses the Dockerfile named by args, or stdin when args is empty.
func readContainer(cmd *cobra.Command, args []string) (*manifest.Container, error) {
	if len(args) == 1 {
		return manifest.ParseFile(args[0])
	}

	r, err := stdinReader(cmd)
	if err != nil {
		return nil, err
	}
	return manifest.Parse(r, manifest.DefaultSource)
}

// readTopology parses the compose file named by args, or stdin when args is
// empty. The returned name identifies the topology in renderings.
func readTopology(cmd *cobra.Command, args []string) (*compose.Topology, string, error) {
	if len(args) == 1 {
		topo, err := compose.ParseFile(args[0])
		return topo, topologyName(args[0]), err
	}

	r, err := stdinReader(cmd)
	if err != nil {
		return nil, "", err
	}
	topo, err := compose.Parse(r)
	return topo, manifest.DefaultSource, err
}

// topologyName is the base name of path without its extension, so
// "deploy/docker-compose.yml" becomes "docker-compose".
func topologyName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// flagOrConfig returns the flag value when it was set on the command line
// and the config value otherwise.
func flagOrConfig[T any](cmd *cobra.Command, name string, flagValue, configValue T) T {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configValue
}
