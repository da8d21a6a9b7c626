package compose

import (
	"fmt"
	"net/netip"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts integer and string entries, plus the long form
// {target, published, protocol, host_ip}.
func (p *PortList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: ports must be a sequence", node.Line)
	}

	out := make(PortList, 0, len(node.Content))
	for _, item := range node.Content {
		port, err := decodePort(item)
		if err != nil {
			return err
		}
		out = append(out, port)
	}

	*p = out
	return nil
}

func decodePort(node *yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!str", "!!int":
			return node.Value, nil
		}
		return "", fmt.Errorf("line %d: port %q must be a string or integer", node.Line, node.Value)

	case yaml.MappingNode:
		var long struct {
			Target    string `yaml:"target"`
			Published string `yaml:"published"`
			Protocol  string `yaml:"protocol"`
			HostIP    string `yaml:"host_ip"`
		}
		if err := node.Decode(&long); err != nil {
			return "", err
		}
		if long.Target == "" {
			return "", fmt.Errorf("line %d: long form port requires target", node.Line)
		}

		spec := long.Target
		if long.Published != "" {
			spec = long.Published + ":" + spec
		}
		if long.HostIP != "" {
			spec = long.HostIP + ":" + spec
		}
		if long.Protocol != "" {
			spec += "/" + long.Protocol
		}
		return spec, nil
	}

	return "", fmt.Errorf("line %d: unexpected port entry", node.Line)
}

// UnmarshalYAML accepts short "source:target[:mode]" strings and the long
// form {type, source, target, read_only}.
func (v *VolumeList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: volumes must be a sequence", node.Line)
	}

	out := make(VolumeList, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.MappingNode:
			var long struct {
				Source   string `yaml:"source"`
				Target   string `yaml:"target"`
				ReadOnly bool   `yaml:"read_only"`
			}
			if err := item.Decode(&long); err != nil {
				return err
			}
			if long.Target == "" {
				return fmt.Errorf("line %d: long form volume requires target", item.Line)
			}
			spec := long.Target
			if long.Source != "" {
				spec = long.Source + ":" + spec
			}
			if long.ReadOnly {
				spec += ":ro"
			}
			out = append(out, spec)
		default:
			return fmt.Errorf("line %d: unexpected volume entry", item.Line)
		}
	}

	*v = out
	return nil
}

// UnmarshalYAML accepts a list of names or a map of name to condition.
func (d *DependsOn) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*d = DependsOn{List: list}
	case yaml.MappingNode:
		conditions := make(map[string]Condition)
		if err := node.Decode(&conditions); err != nil {
			return err
		}
		*d = DependsOn{Conditions: conditions}
	default:
		return fmt.Errorf("line %d: depends_on must be a list or a map", node.Line)
	}
	return nil
}

// UnmarshalYAML accepts a list of names or a map of name to attachment.
func (n *NetworkRefs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*n = NetworkRefs{List: list}
	case yaml.MappingNode:
		attachments := make(map[string]*NetworkAttachment)
		if err := node.Decode(&attachments); err != nil {
			return err
		}
		*n = NetworkRefs{Attachments: attachments}
	default:
		return fmt.Errorf("line %d: networks must be a list or a map", node.Line)
	}
	return nil
}

// UnmarshalYAML accepts a single string or a list of strings.
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = Command{node.Value}
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*c = list
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
	return nil
}

// UnmarshalYAML accepts a map of scalars or a list of KEY=VALUE strings.
// Null values become empty strings.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	out := make(Mapping)

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: value of %q must be a scalar", value.Line, key.Value)
			}
			if value.ShortTag() == "!!null" {
				out[key.Value] = ""
				continue
			}
			out[key.Value] = value.Value
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected KEY=VALUE", item.Line)
			}
			key, value, _ := strings.Cut(item.Value, "=")
			out[key] = value
		}
	default:
		return fmt.Errorf("line %d: expected a map or a list", node.Line)
	}

	*m = out
	return nil
}

// UnmarshalYAML accepts one address or a list of addresses.
func (d *DNSList) UnmarshalYAML(node *yaml.Node) error {
	var raw []string
	switch node.Kind {
	case yaml.ScalarNode:
		raw = []string{node.Value}
	case yaml.SequenceNode:
		if err := node.Decode(&raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: dns must be an address or a list", node.Line)
	}

	out := make(DNSList, 0, len(raw))
	for _, s := range raw {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return fmt.Errorf("line %d: invalid dns address %q: %w", node.Line, s, err)
		}
		out = append(out, addr)
	}

	*d = out
	return nil
}

// UnmarshalYAML parses "10.0.0.0/24" or a bare address.
func (c *CIDR) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: subnet must be a string", node.Line)
	}

	if prefix, err := netip.ParsePrefix(node.Value); err == nil {
		c.Prefix = prefix
		return nil
	}

	addr, err := netip.ParseAddr(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid subnet %q", node.Line, node.Value)
	}
	c.Prefix = netip.PrefixFrom(addr, addr.BitLen())
	return nil
}
