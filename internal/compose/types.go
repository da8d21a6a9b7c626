// Package compose models a docker compose service topology and checks its
// cross-references.
package compose

import (
	"net/netip"
	"sort"
	"strings"
)

// Topology is a deserialized compose document.
type Topology struct {
	// Version is the legacy top-level version string, if any.
	Version string `yaml:"version,omitempty"`

	// Services is keyed by service name and is required.
	Services map[string]Service `yaml:"services"`

	// Networks is keyed by network name.
	Networks map[string]Network `yaml:"networks,omitempty"`

	// Volumes declares named volumes.
	Volumes map[string]Volume `yaml:"volumes,omitempty"`
}

// ServiceNames returns the service names in lexical order.
func (t *Topology) ServiceNames() []string {
	return sortedKeys(t.Services)
}

// NetworkNames returns the network names in lexical order.
func (t *Topology) NetworkNames() []string {
	return sortedKeys(t.Networks)
}

// Service is a single service definition.
type Service struct {
	Image         string       `yaml:"image,omitempty"`
	ContainerName string       `yaml:"container_name,omitempty"`
	Hostname      string       `yaml:"hostname,omitempty"`
	Command       Command      `yaml:"command,omitempty"`
	Restart       string       `yaml:"restart,omitempty"`
	EnvFile       Command      `yaml:"env_file,omitempty"`
	Logging       *Logging     `yaml:"logging,omitempty"`
	Ports         PortList     `yaml:"ports,omitempty"`
	Networks      NetworkRefs  `yaml:"networks,omitempty"`
	Volumes       VolumeList   `yaml:"volumes,omitempty"`
	DependsOn     DependsOn    `yaml:"depends_on,omitempty"`
	DNS           DNSList      `yaml:"dns,omitempty"`
	Environment   Mapping      `yaml:"environment,omitempty"`
	Labels        Mapping      `yaml:"labels,omitempty"`
	ExtraHosts    []string     `yaml:"extra_hosts,omitempty"`
	Healthcheck   *Healthcheck `yaml:"healthcheck,omitempty"`
}

// Healthcheck holds container health probe settings.
type Healthcheck struct {
	Test        Command `yaml:"test,omitempty"`
	Interval    string  `yaml:"interval,omitempty"`
	Timeout     string  `yaml:"timeout,omitempty"`
	Retries     *int    `yaml:"retries,omitempty"`
	StartPeriod string  `yaml:"start_period,omitempty"`
	Disable     bool    `yaml:"disable,omitempty"`
}

// Logging selects a log driver for a service.
type Logging struct {
	Driver  string            `yaml:"driver"`
	Options map[string]string `yaml:"options,omitempty"`
}

// Network is a top-level network definition.
type Network struct {
	Name       string `yaml:"name,omitempty"`
	Driver     string `yaml:"driver,omitempty"`
	EnableIPv6 bool   `yaml:"enable_ipv6,omitempty"`
	Internal   bool   `yaml:"internal,omitempty"`
	External   bool   `yaml:"external,omitempty"`
	IPAM       *IPAM  `yaml:"ipam,omitempty"`
}

// IPAM is the address management block of a network.
type IPAM struct {
	Driver string   `yaml:"driver,omitempty"`
	Config []Subnet `yaml:"config,omitempty"`
}

// Subnet is one IPAM pool.
type Subnet struct {
	Subnet  CIDR   `yaml:"subnet"`
	Gateway string `yaml:"gateway,omitempty"`
}

// CIDR is an address prefix. A bare address decodes as a single-host prefix.
type CIDR struct {
	netip.Prefix
}

// Volume is a top-level named volume definition.
type Volume struct {
	Name     string `yaml:"name,omitempty"`
	Driver   string `yaml:"driver,omitempty"`
	External bool   `yaml:"external,omitempty"`
}

// Condition is the readiness condition of a depends_on entry.
type Condition struct {
	Condition string `yaml:"condition"`
	Restart   bool   `yaml:"restart,omitempty"`
	Required  *bool  `yaml:"required,omitempty"`
}

// DependsOn is either a list of service names or a map from service name
// to readiness condition.
type DependsOn struct {
	List       []string
	Conditions map[string]Condition
}

// IsZero reports whether no dependencies were declared.
func (d DependsOn) IsZero() bool {
	return len(d.List) == 0 && len(d.Conditions) == 0
}

// Names returns the referenced service names without duplicates. The list
// form keeps document order; the map form is sorted.
func (d DependsOn) Names() []string {
	if d.Conditions != nil {
		return sortedKeys(d.Conditions)
	}
	return dedupe(d.List)
}

// NetworkAttachment holds per-service network options.
type NetworkAttachment struct {
	Aliases     []string `yaml:"aliases,omitempty"`
	IPv4Address string   `yaml:"ipv4_address,omitempty"`
	IPv6Address string   `yaml:"ipv6_address,omitempty"`
}

// NetworkRefs is either a list of network names or a map from network name
// to attachment options.
type NetworkRefs struct {
	List        []string
	Attachments map[string]*NetworkAttachment
}

// Names returns the referenced network names. The list form keeps document
// order; the map form is sorted.
func (n NetworkRefs) Names() []string {
	if n.Attachments != nil {
		return sortedKeys(n.Attachments)
	}
	return dedupe(n.List)
}

// Command is a string or list valued field kept as a list of words.
type Command []string

// String joins the words with single spaces.
func (c Command) String() string {
	return strings.Join(c, " ")
}

// Mapping is a map or KEY=VALUE list valued field such as environment.
type Mapping map[string]string

// PortList is a list of port specs; integers and strings normalize to the
// same string form.
type PortList []string

// VolumeList is a list of volume bindings in "source:target[:mode]" form.
type VolumeList []string

// DNSList is a list of DNS server addresses.
type DNSList []netip.Addr

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
