package manifest

import (
	"sort"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

// Protocol is the transport protocol of an exposed port.
type Protocol string

// Supported protocols. The zero value renders as TCP.
const (
	ProtocolTCP Protocol = "TCP"
	ProtocolUDP Protocol = "UDP"
)

// String returns the upper-case protocol name, defaulting to TCP.
func (p Protocol) String() string {
	if p == ProtocolUDP {
		return string(ProtocolUDP)
	}
	return string(ProtocolTCP)
}

// ExposedPort is a network port a container declares with EXPOSE.
type ExposedPort struct {
	// PortNumber is never zero for a parsed port.
	PortNumber uint16 `json:"port_number"`

	// Protocol defaults to TCP.
	Protocol Protocol `json:"protocol"`
}

// NatPort returns the port in docker's "<port>/<proto>" form.
func (p ExposedPort) NatPort() nat.Port {
	proto := "tcp"
	if p.Protocol == ProtocolUDP {
		proto = "udp"
	}
	port, _ := nat.NewPort(proto, strconv.Itoa(int(p.PortNumber)))
	return port
}

// VolumeMount is a mount point a container declares with VOLUME.
type VolumeMount struct {
	MountPoint string `json:"mount_point"`
}

// Container is the structural model of a Dockerfile.
type Container struct {
	// Name is the last stage name, or the source file base name.
	Name string `json:"name"`

	// BaseImage is the argument of the last FROM instruction.
	BaseImage string `json:"base_image"`

	// Labels holds LABEL pairs; duplicate keys keep the last value.
	Labels map[string]string `json:"labels"`

	// ExposedPorts in declaration order.
	ExposedPorts []ExposedPort `json:"exposed_ports"`

	// Volumes in declaration order.
	Volumes []VolumeMount `json:"volumes"`

	// Instructions holds the source text of every instruction, one entry
	// per instruction, in source order.
	Instructions []string `json:"instructions"`
}

// SortedLabelKeys returns the label keys in lexical order.
func (c *Container) SortedLabelKeys() []string {
	keys := make([]string, 0, len(c.Labels))
	for k := range c.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContainerConfig converts the model into a docker container config, the
// shape `docker image inspect` reports under Config.
func (c *Container) ContainerConfig() *container.Config {
	cfg := &container.Config{
		Image:  c.BaseImage,
		Labels: make(map[string]string, len(c.Labels)),
	}
	for k, v := range c.Labels {
		cfg.Labels[k] = v
	}

	if len(c.ExposedPorts) > 0 {
		cfg.ExposedPorts = make(nat.PortSet, len(c.ExposedPorts))
		for _, p := range c.ExposedPorts {
			cfg.ExposedPorts[p.NatPort()] = struct{}{}
		}
	}

	if len(c.Volumes) > 0 {
		cfg.Volumes = make(map[string]struct{}, len(c.Volumes))
		for _, v := range c.Volumes {
			cfg.Volumes[v.MountPoint] = struct{}{}
		}
	}

	return cfg
}
