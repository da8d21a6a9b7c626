package compose

import (
	"fmt"
	"strings"

	"github.com/docker/go-connections/nat"
)

// checkDependencyCycles reports each depends_on cycle once, e.g.
// "dependency cycle: a -> b -> a".
func checkDependencyCycles(t *Topology) []string {
	graph := make(map[string][]string, len(t.Services))
	for name, svc := range t.Services {
		for _, dep := range svc.DependsOn.Names() {
			if _, ok := t.Services[dep]; ok {
				graph[name] = append(graph[name], dep)
			}
		}
	}

	var warnings []string
	for _, cycle := range detectCycles(graph, t.ServiceNames()) {
		warnings = append(warnings, "dependency cycle: "+cycle)
	}
	return warnings
}

// detectCycles uses depth-first search with coloring to find cycles. Nodes
// are visited in the given order so results are stable.
func detectCycles(graph map[string][]string, order []string) []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	parent := make(map[string]string)
	seen := make(map[string]bool)
	var cycles []string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray

		for _, next := range graph[node] {
			switch color[next] {
			case gray:
				cycle := buildCyclePath(node, next, parent)
				if !seen[cycle] {
					seen[cycle] = true
					cycles = append(cycles, cycle)
				}
			case white:
				parent[next] = node
				dfs(next)
			}
		}

		color[node] = black
	}

	for _, node := range order {
		if color[node] == white {
			dfs(node)
		}
	}

	return cycles
}

// buildCyclePath walks parent links from current back to start.
func buildCyclePath(current, start string, parent map[string]string) string {
	path := []string{start}

	node := current
	for node != start && node != "" {
		path = append([]string{node}, path...)
		node = parent[node]
	}
	if node == start {
		path = append([]string{start}, path...)
	}

	return strings.Join(path, " -> ")
}

// checkPortConflicts reports host ports published by more than one service.
func checkPortConflicts(t *Topology) []string {
	var warnings []string
	claimed := make(map[string]string)

	for _, name := range t.ServiceNames() {
		for _, raw := range t.Services[name].Ports {
			mappings, err := nat.ParsePortSpec(raw)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("service %q: unparseable port %q: %v", name, raw, err))
				continue
			}

			for _, m := range mappings {
				if m.Binding.HostPort == "" {
					continue
				}
				key := m.Binding.HostIP + ":" + m.Binding.HostPort + "/" + m.Port.Proto()
				if owner, ok := claimed[key]; ok && owner != name {
					warnings = append(warnings, fmt.Sprintf("host port %s/%s claimed by services %q and %q",
						m.Binding.HostPort, m.Port.Proto(), owner, name))
					continue
				}
				claimed[key] = name
			}
		}
	}

	return warnings
}

// checkNamedVolumes reports named volume sources missing from the top-level
// volumes section.
func checkNamedVolumes(t *Topology) []string {
	var warnings []string

	for _, name := range t.ServiceNames() {
		for _, spec := range t.Services[name].Volumes {
			source, _, ok := strings.Cut(spec, ":")
			if !ok || !isNamedVolume(source) {
				continue
			}
			if _, declared := t.Volumes[source]; !declared {
				warnings = append(warnings, fmt.Sprintf("service %q: named volume %q not declared in volumes", name, source))
			}
		}
	}

	return warnings
}

func isNamedVolume(source string) bool {
	if source == "" {
		return false
	}
	switch source[0] {
	case '.', '/', '~', '$':
		return false
	}
	return !strings.ContainsAny(source, `/\`)
}
