package cmd

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Execute(t *testing.T) {
	t.Run("root command shows help", func(t *testing.T) {
		output, err := executeCmd(t)
		assert.NoError(t, err)
		assert.Contains(t, output, "cargotecture")
		assert.Contains(t, output, "Usage:")
	})

	t.Run("help flag", func(t *testing.T) {
		output, err := executeCmd(t, "--help")
		assert.NoError(t, err)
		assert.Contains(t, output, "SysML")
		assert.Contains(t, output, "containerfile")
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := executeCmd(t, "pod")
		assert.Error(t, err)
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := executeCmd(t, "containerfile", "a", "b")
		assert.Error(t, err)
	})
}

func TestRootCmd_Structure(t *testing.T) {
	resetRootCmd(t)

	commands := make(map[string][]string)
	for _, cmd := range rootCmd.Commands() {
		commands[cmd.Name()] = cmd.Aliases
	}

	assert.Contains(t, commands, "containerfile")
	assert.Contains(t, commands, "compose")
	assert.Contains(t, commands, "demo")
	assert.Equal(t, []string{"cf"}, commands["containerfile"])
	assert.Equal(t, []string{"cmp"}, commands["compose"])
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"config", "verbose", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	configPath := writeFile(t, ".cargotecture.yaml", "log_level: loud\n")
	path := writeFile(t, "Dockerfile", sampleDockerfile)

	_, err := executeCmd(t, "--config", configPath, "containerfile", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")
}

func TestRootCmd_Verbose(t *testing.T) {
	path := writeFile(t, "Dockerfile", sampleDockerfile)

	output, err := executeCmd(t, "--verbose", "containerfile", path)
	require.NoError(t, err)
	assert.Contains(t, output, "container parsed")
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { log.SetLevel(log.WarnLevel) })

	tests := []struct {
		name    string
		level   string
		verbose bool
		want    log.Level
		wantErr bool
	}{
		{name: "warn", level: "warn", want: log.WarnLevel},
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "error", level: "error", want: log.ErrorLevel},
		{name: "verbose wins", level: "error", verbose: true, want: log.DebugLevel},
		{name: "verbose ignores bad level", level: "loud", verbose: true, want: log.DebugLevel},
		{name: "invalid", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setupLogging(new(bytes.Buffer), tt.level, tt.verbose)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestCompletionCmd(t *testing.T) {
	t.Run("bash completion", func(t *testing.T) {
		_, err := executeCmd(t, "completion", "bash")
		assert.NoError(t, err)
	})

	t.Run("zsh completion", func(t *testing.T) {
		_, err := executeCmd(t, "completion", "zsh")
		assert.NoError(t, err)
	})

	t.Run("fish completion", func(t *testing.T) {
		_, err := executeCmd(t, "completion", "fish")
		assert.NoError(t, err)
	})
}
