package sysml

import (
	"strconv"

	"github.com/cameronsjo/cargotecture/internal/compose"
	"github.com/cameronsjo/cargotecture/internal/manifest"
)

type activityView struct {
	Name     string
	Activity string
	Actions  []actionView
	Controls []controlView
}

type actionView struct {
	ID      string
	Command string
}

type controlView struct {
	From string
	To   string
}

type containerView struct {
	Name      string
	Activity  string
	BaseImage string
	Labels    []labelView
	Ports     []portView
	Volumes   []volumeView
}

type labelView struct {
	ID    string
	Key   string
	Value string
}

type portView struct {
	ID       string
	Protocol string
	Number   uint16
}

type volumeView struct {
	PortID     string
	BlockID    string
	MountPoint string
}

type topologyView struct {
	Name         string
	Networks     []networkView
	Services     []serviceView
	Dependencies []dependencyView
}

type networkView struct {
	Name     string
	Driver   string
	Internal bool
	External bool
}

type serviceView struct {
	Name     string
	Image    string
	Restart  string
	Networks []string
	Ports    []bindingView
	Volumes  []bindingView
}

type bindingView struct {
	ID   string
	Spec string
}

type dependencyView struct {
	From string
	To   string
}

func newActivityView(c *manifest.Container) activityView {
	v := activityView{Name: sysmlName(c.Name), Activity: activityName(c.Name)}

	for i, line := range c.Instructions {
		v.Actions = append(v.Actions, actionView{ID: actionID(i), Command: line})
		if i > 0 {
			v.Controls = append(v.Controls, controlView{From: actionID(i - 1), To: actionID(i)})
		}
	}

	return v
}

// activityName names the build activity of the container called name.
func activityName(name string) string {
	return sysmlName("build_" + name)
}

func actionID(i int) string {
	return "Command" + strconv.Itoa(i)
}

func newBlockView(c *manifest.Container, opts Options) containerView {
	return containerView{
		Name:     sysmlName(c.Name),
		Activity: activityName(c.Name),
		Ports:    portViews(c.ExposedPorts, opts),
		Volumes:  volumeViews(c.Volumes, opts),
	}
}

func newPackageView(c *manifest.Container, opts Options) containerView {
	v := newBlockView(c, opts)
	v.BaseImage = c.BaseImage

	labels := newNamer("label", opts)
	for _, key := range c.SortedLabelKeys() {
		v.Labels = append(v.Labels, labelView{
			ID:    labels.next(key),
			Key:   key,
			Value: c.Labels[key],
		})
	}

	return v
}

func portViews(ports []manifest.ExposedPort, opts Options) []portView {
	names := newNamer("port", opts)

	out := make([]portView, 0, len(ports))
	for _, p := range ports {
		out = append(out, portView{
			ID:       names.next(string(p.NatPort())),
			Protocol: p.Protocol.String(),
			Number:   p.PortNumber,
		})
	}
	return out
}

func volumeViews(volumes []manifest.VolumeMount, opts Options) []volumeView {
	ports := newNamer("volume", opts)
	blocks := newNamer("Volume", opts)

	out := make([]volumeView, 0, len(volumes))
	for _, vol := range volumes {
		out = append(out, volumeView{
			PortID:     ports.next(vol.MountPoint),
			BlockID:    blocks.next(vol.MountPoint),
			MountPoint: vol.MountPoint,
		})
	}
	return out
}

func newTopologyView(t *compose.Topology, name string, opts Options) topologyView {
	v := topologyView{Name: name}

	for _, netName := range t.NetworkNames() {
		n := t.Networks[netName]
		v.Networks = append(v.Networks, networkView{
			Name:     netName,
			Driver:   n.Driver,
			Internal: n.Internal,
			External: n.External,
		})
	}

	for _, svcName := range t.ServiceNames() {
		svc := t.Services[svcName]

		ports := newNamer("port", opts)
		volumes := newNamer("volume", opts)
		sv := serviceView{
			Name:     svcName,
			Image:    svc.Image,
			Restart:  svc.Restart,
			Networks: svc.Networks.Names(),
		}
		for _, spec := range svc.Ports {
			sv.Ports = append(sv.Ports, bindingView{ID: ports.next(spec), Spec: spec})
		}
		for _, spec := range svc.Volumes {
			sv.Volumes = append(sv.Volumes, bindingView{ID: volumes.next(spec), Spec: spec})
		}
		v.Services = append(v.Services, sv)

		for _, dep := range svc.DependsOn.Names() {
			v.Dependencies = append(v.Dependencies, dependencyView{From: svcName, To: dep})
		}
	}

	return v
}
