package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDockerfile = `
FROM rust:1.55 AS builder
LABEL version="1.0"
EXPOSE 8080/tcp
VOLUME /data
`

func TestParse_NamedStage(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleDockerfile), "sample.dockerfile")
	require.NoError(t, err)

	assert.Equal(t, "builder", c.Name)
	assert.Equal(t, "rust:1.55", c.BaseImage)
	assert.Equal(t, "1.0", c.Labels["version"])
	assert.Equal(t, []ExposedPort{{PortNumber: 8080, Protocol: ProtocolTCP}}, c.ExposedPorts)
	assert.Equal(t, []VolumeMount{{MountPoint: "/data"}}, c.Volumes)
	assert.Len(t, c.Instructions, 4)
}

func TestParse_UnnamedStageUsesBaseName(t *testing.T) {
	content := "FROM rust:latest\nLABEL version=\"1.0\"\nEXPOSE 8080\nVOLUME /data\n"

	c, err := Parse(strings.NewReader(content), filepath.Join("some", "dir", "sample.dockerfile"))
	require.NoError(t, err)

	assert.Equal(t, "sample.dockerfile", c.Name)
	assert.Equal(t, "rust:latest", c.BaseImage)
}

func TestParse_EmptySourceUsesDefault(t *testing.T) {
	c, err := Parse(strings.NewReader("FROM alpine\n"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSource, c.Name)
}

func TestParse_InstructionTrace(t *testing.T) {
	content := `FROM golang:1.24 AS build
WORKDIR /src
COPY . .
RUN go build -o /out/app ./cmd/app
EXPOSE notaport
VOLUME relative/path
CMD ["/out/app"]
`
	c, err := Parse(strings.NewReader(content), "Dockerfile")
	require.NoError(t, err)

	require.Len(t, c.Instructions, 7)
	assert.Equal(t, "FROM golang:1.24 AS build", c.Instructions[0])
	assert.Equal(t, "RUN go build -o /out/app ./cmd/app", c.Instructions[3])
	assert.Equal(t, "EXPOSE notaport", c.Instructions[4])
	assert.Equal(t, `CMD ["/out/app"]`, c.Instructions[6])

	// Malformed arguments contribute nothing but stay in the trace.
	assert.Empty(t, c.ExposedPorts)
	assert.Empty(t, c.Volumes)
}

func TestParse_Labels(t *testing.T) {
	content := `FROM alpine
LABEL maintainer="ops@example.com" version=1
LABEL description="multi word value"
LABEL version=2
LABEL legacy value with spaces
`
	c, err := Parse(strings.NewReader(content), "Dockerfile")
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", c.Labels["maintainer"])
	assert.Equal(t, "2", c.Labels["version"], "later duplicate key wins")
	assert.Equal(t, "multi word value", c.Labels["description"])
	assert.Equal(t, "value with spaces", c.Labels["legacy"])
	assert.Equal(t, []string{"description", "legacy", "maintainer", "version"}, c.SortedLabelKeys())
}

func TestParse_LabelValuesWithShellOperators(t *testing.T) {
	content := `FROM alpine
LABEL org.opencontainers.image.source=https://x/?a=1&b=2
LABEL semi=a;b pipe=x|y
LABEL "com.example.vendor"="ACME" 'com.example.tier'=gold
LABEL version=$VERSION
`
	c, err := Parse(strings.NewReader(content), "Dockerfile")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"org.opencontainers.image.source": "https://x/?a=1&b=2",
		"semi":                            "a;b",
		"pipe":                            "x|y",
		"com.example.vendor":              "ACME",
		"com.example.tier":                "gold",
		"version":                         "$VERSION",
	}, c.Labels)
}

func TestParse_EscapeDirective(t *testing.T) {
	content := "# escape=`\nFROM alpine\nLABEL greeting=\"say `\"hi`\"\"\nVOLUME /my` app\n"

	c, err := Parse(strings.NewReader(content), "Dockerfile")
	require.NoError(t, err)

	assert.Equal(t, `say "hi"`, c.Labels["greeting"])
	assert.Equal(t, []VolumeMount{{MountPoint: "/my app"}}, c.Volumes)
}

func TestParse_VolumeWithShellOperators(t *testing.T) {
	c, err := Parse(strings.NewReader("FROM alpine\nVOLUME /data;/other\n"), "Dockerfile")
	require.NoError(t, err)
	assert.Equal(t, []VolumeMount{{MountPoint: "/data;/other"}}, c.Volumes)
}

func TestParse_PortsAndVolumes(t *testing.T) {
	content := `FROM nginx
EXPOSE 80 443/tcp 53/udp 0
VOLUME ["/var/cache/nginx", "/var/log/nginx"]
VOLUME /etc/nginx /usr/share/nginx/html
`
	c, err := Parse(strings.NewReader(content), "Dockerfile")
	require.NoError(t, err)

	assert.Equal(t, []ExposedPort{
		{PortNumber: 80, Protocol: ProtocolTCP},
		{PortNumber: 443, Protocol: ProtocolTCP},
		{PortNumber: 53, Protocol: ProtocolUDP},
	}, c.ExposedPorts)

	assert.Equal(t, []VolumeMount{
		{MountPoint: "/var/cache/nginx"},
		{MountPoint: "/var/log/nginx"},
		{MountPoint: "/etc/nginx"},
		{MountPoint: "/usr/share/nginx/html"},
	}, c.Volumes)
}

func TestParse_MultiStageLastStageWins(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantName string
		wantBase string
	}{
		{
			name:     "last stage named",
			content:  "FROM golang:1.24 AS build\nRUN make\nFROM alpine:3.20 AS runtime\n",
			wantName: "runtime",
			wantBase: "alpine:3.20",
		},
		{
			name:     "last stage unnamed falls back to file name",
			content:  "FROM golang:1.24 AS build\nRUN make\nFROM alpine:3.20\n",
			wantName: "app.Dockerfile",
			wantBase: "alpine:3.20",
		},
		{
			name:     "lowercase as keyword",
			content:  "from scratch as final\n",
			wantName: "final",
			wantBase: "scratch",
		},
		{
			name:     "platform flag",
			content:  "FROM --platform=linux/amd64 debian:bookworm AS base\n",
			wantName: "base",
			wantBase: "debian:bookworm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(strings.NewReader(tt.content), "app.Dockerfile")
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, c.Name)
			assert.Equal(t, tt.wantBase, c.BaseImage)
		})
	}
}

func TestParse_EmptyManifestFails(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "empty.dockerfile")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "empty.dockerfile")
}

func TestParseFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.dockerfile")
		require.NoError(t, os.WriteFile(path, []byte("FROM alpine\nVOLUME /data\n"), 0644))

		c, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, "sample.dockerfile", c.Name)
		assert.Len(t, c.Volumes, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing")
		_, err := ParseFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRead)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), path)
	})
}

func TestContainerConfig(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleDockerfile), "sample.dockerfile")
	require.NoError(t, err)

	cfg := c.ContainerConfig()
	assert.Equal(t, "rust:1.55", cfg.Image)
	assert.Equal(t, "1.0", cfg.Labels["version"])
	assert.Contains(t, cfg.ExposedPorts, nat.Port("8080/tcp"))
	assert.Contains(t, cfg.Volumes, "/data")
}

func TestExposedPort_NatPort(t *testing.T) {
	assert.Equal(t, nat.Port("53/udp"), ExposedPort{PortNumber: 53, Protocol: ProtocolUDP}.NatPort())
	assert.Equal(t, nat.Port("80/tcp"), ExposedPort{PortNumber: 80}.NatPort())
}

func TestProtocol_String(t *testing.T) {
	assert.Equal(t, "TCP", Protocol("").String())
	assert.Equal(t, "TCP", ProtocolTCP.String())
	assert.Equal(t, "UDP", ProtocolUDP.String())
}
