package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/cargotecture/internal/sysml"
)

// formatNames returns every --format value in display order.
func formatNames() []string {
	names := make([]string, 0, len(sysml.Kinds)+1)
	for _, k := range sysml.Kinds {
		names = append(names, string(k))
	}
	return append(names, formatJSON)
}

// completeFormats completes --format values.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, name := range formatNames() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeInputFiles completes a single file argument.
func completeInputFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Don't complete if we already have an argument
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return nil, cobra.ShellCompDirectiveDefault
}

// completeComposeFiles completes a single YAML file argument.
func completeComposeFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Don't complete if we already have an argument
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return []string{"yml", "yaml"}, cobra.ShellCompDirectiveFilterFileExt
}
