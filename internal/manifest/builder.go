package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/moby/buildkit/frontend/dockerfile/parser"
	"github.com/moby/buildkit/frontend/dockerfile/shell"
)

// DefaultSource names a manifest read without a file, such as from stdin.
const DefaultSource = "Unknown"

var (
	// ErrRead indicates the manifest source could not be read.
	ErrRead = errors.New("read manifest")

	// ErrParse indicates the manifest is not a well-formed Dockerfile.
	ErrParse = errors.New("parse manifest")
)

// ParseFile reads and parses the Dockerfile at path.
func ParseFile(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse tokenizes a Dockerfile from r and extracts its model. The source is
// used for error context and as the fallback container name.
func Parse(r io.Reader, source string) (*Container, error) {
	if source == "" {
		source = DefaultSource
	}

	result, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, source, err)
	}
	if len(result.Warnings) > 0 {
		log.Debug("dockerfile parser reported warnings", "source", source, "count", len(result.Warnings))
	}

	return extract(result.AST, source, result.EscapeToken), nil
}

// Extract walks the instruction nodes of a parsed Dockerfile in order and
// builds the container model.
func Extract(ast *parser.Node, source string) *Container {
	return extract(ast, source, defaultEscapeToken)
}

func extract(ast *parser.Node, source string, escapeToken rune) *Container {
	b := newBuilder(escapeToken)
	if ast != nil {
		for _, node := range ast.Children {
			b.add(node)
		}
	}
	return b.build(source)
}

// builder accumulates model state for a single Extract call.
type builder struct {
	stage     string
	lex       *shell.Lex
	container *Container
}

func newBuilder(escapeToken rune) *builder {
	return &builder{
		lex: newLexer(escapeToken),
		container: &Container{
			Labels:       make(map[string]string),
			ExposedPorts: []ExposedPort{},
			Volumes:      []VolumeMount{},
			Instructions: []string{},
		},
	}
}

func (b *builder) add(node *parser.Node) {
	b.container.Instructions = append(b.container.Instructions, strings.TrimSpace(node.Original))

	switch strings.ToLower(node.Value) {
	case "from":
		b.from(node)
	case "label":
		b.label(node)
	case "expose":
		b.expose(node)
	case "volume":
		b.volume(node)
	}
}

// from handles `FROM [--platform=x] image [AS name]`. Flags are split off
// by the tokenizer.
func (b *builder) from(node *parser.Node) {
	args := words(node.Next)
	if len(args) == 0 {
		return
	}

	b.container.BaseImage = args[0]
	b.stage = ""
	if len(args) >= 3 && strings.EqualFold(args[1], "as") {
		b.stage = args[2]
	}
}

// label handles both `LABEL k=v k2="v 2"` and the legacy `LABEL k v`. The
// tokenizer emits key, value and an optional separator node per pair.
func (b *builder) label(node *parser.Node) {
	for n := node.Next; n != nil && n.Next != nil; {
		key, value := n.Value, n.Next
		b.container.Labels[unquote(b.lex, key)] = unquote(b.lex, value.Value)

		n = value.Next
		if n != nil && (n.Value == "=" || n.Value == "") {
			n = n.Next
		}
	}
}

func (b *builder) expose(node *parser.Node) {
	for _, arg := range words(node.Next) {
		port, ok := ParseExposedPort(arg)
		if !ok {
			log.Debug("ignoring EXPOSE argument", "arg", arg, "line", node.StartLine)
			continue
		}
		b.container.ExposedPorts = append(b.container.ExposedPorts, port)
	}
}

func (b *builder) volume(node *parser.Node) {
	raw := instructionArgs(node.Original)
	mounts := parseVolume(raw, b.lex)
	if len(mounts) == 0 {
		log.Debug("ignoring VOLUME argument", "arg", raw, "line", node.StartLine)
		return
	}
	b.container.Volumes = append(b.container.Volumes, mounts...)
}

func (b *builder) build(source string) *Container {
	c := b.container
	c.Name = b.stage
	if c.Name == "" {
		c.Name = filepath.Base(source)
	}
	return c
}

func words(n *parser.Node) []string {
	var out []string
	for ; n != nil; n = n.Next {
		out = append(out, n.Value)
	}
	return out
}
