package compose

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

var (
	// ErrRead indicates the compose source could not be read.
	ErrRead = errors.New("read compose file")

	// ErrDeserialize indicates the document does not match the compose shape.
	ErrDeserialize = errors.New("deserialize compose file")

	// ErrMissingServices indicates the document has no services section.
	ErrMissingServices = errors.New("missing services")
)

// ParseFile reads and deserializes the compose file at path.
func ParseFile(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a compose document from r and deserializes it.
func Parse(r io.Reader) (*Topology, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return Unmarshal(data)
}

// Unmarshal deserializes a compose document. The returned topology is not
// validated; see Validate.
func Unmarshal(data []byte) (*Topology, error) {
	var t Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserialize, err)
	}

	if t.Services == nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserialize, ErrMissingServices)
	}

	log.Debug("compose file deserialized", "services", len(t.Services), "networks", len(t.Networks))
	return &t, nil
}
