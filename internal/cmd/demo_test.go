package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/cargotecture/internal/manifest"
)

func TestDemoCmd(t *testing.T) {
	path := writeFile(t, "Dockerfile", `
FROM rust:1.55
LABEL version="1.0"
EXPOSE 8080/tcp
VOLUME /data
`)

	output, err := executeCmd(t, "demo", path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output, "package Cargotecture {"))
	assert.Contains(t, output, "package Dockerfile {")
	assert.Contains(t, output, "attribute redefines reference = \"rust:1.55\";")
	assert.Contains(t, output, "attribute redefines value = \"1.0\";")
	assert.Contains(t, output, "attribute redefines portNumber = 8080;")
	assert.Contains(t, output, "attribute redefines mountPoint = \"/data\";")
	assert.NotContains(t, output, "Parse successful")
}

func TestDemoCmd_Stdin(t *testing.T) {
	output, err := executeCmdWithInput(t, sampleDockerfile, "demo")
	require.NoError(t, err)
	assert.Contains(t, output, "part builder: Container {")
}

func TestDemoCmd_ParseError(t *testing.T) {
	output, err := executeCmdWithInput(t, "", "demo")
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrParse)
	assert.Contains(t, output, "Parse failed:")
}
