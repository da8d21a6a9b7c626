// Package sysml renders container and topology models as SysML v2 text.
//
// Three views are available for a container: an activity diagram of its
// build instructions, a block definition diagram of its ports and volumes,
// and a declarative package prefixed by the shared Cargotecture definitions.
// All renderers are pure functions of the model.
package sysml

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cameronsjo/cargotecture/internal/compose"
	"github.com/cameronsjo/cargotecture/internal/manifest"
)

var (
	// ErrNoInstructions indicates an activity was requested for an empty model.
	ErrNoInstructions = errors.New("container has no instructions")

	// ErrUnknownKind indicates an unsupported diagram kind.
	ErrUnknownKind = errors.New("unknown diagram kind")
)

// Kind selects a container rendering.
type Kind string

const (
	KindActivity Kind = "activity"
	KindBlock    Kind = "block"
	KindPackage  Kind = "package"
)

// Kinds lists the supported kinds in display order.
var Kinds = []Kind{KindActivity, KindBlock, KindPackage}

// ParseKind parses a kind name, ignoring case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}

	names := make([]string, len(Kinds))
	for i, known := range Kinds {
		names[i] = string(known)
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownKind, s, strings.Join(names, ", "))
}

// Options tunes element naming.
type Options struct {
	// StableIDs names ports, volumes and labels by a hash of their content
	// instead of their position, so reordering the model keeps names.
	StableIDs bool
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("sysml").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{"sysmlName": sysmlName}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// Render dispatches to the renderer for kind.
func Render(kind Kind, c *manifest.Container, opts Options) (string, error) {
	switch kind {
	case KindActivity:
		return RenderActivity(c, opts)
	case KindBlock:
		return RenderBlock(c, opts)
	case KindPackage:
		return RenderPackage(c, opts)
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

// RenderActivity emits one action per instruction and a control edge between
// each consecutive pair.
func RenderActivity(c *manifest.Container, _ Options) (string, error) {
	if len(c.Instructions) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoInstructions, c.Name)
	}
	return execute("activity.sysml.tmpl", newActivityView(c))
}

// RenderBlock emits the container block with its ports, volume blocks and
// the allocation of the build activity.
func RenderBlock(c *manifest.Container, opts Options) (string, error) {
	return execute("block.sysml.tmpl", newBlockView(c, opts))
}

// RenderPackage emits the Cargotecture definitions followed by a package
// describing the container.
func RenderPackage(c *manifest.Container, opts Options) (string, error) {
	return execute("package.sysml.tmpl", newPackageView(c, opts))
}

// RenderTopology emits the Cargotecture definitions followed by a package
// named name with one part per network and service, and a dependency per
// depends_on edge.
func RenderTopology(t *compose.Topology, name string, opts Options) (string, error) {
	return execute("topology.sysml.tmpl", newTopologyView(t, name, opts))
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
