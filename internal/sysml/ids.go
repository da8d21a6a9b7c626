package sysml

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/cameronsjo/cargotecture/sysml"))

// namer hands out element names for one list. Positional names look like
// "port0"; stable names look like "port_1a2b3c4d".
type namer struct {
	prefix string
	stable bool
	index  int
	seen   map[string]int
}

func newNamer(prefix string, opts Options) *namer {
	return &namer{prefix: prefix, stable: opts.StableIDs, seen: make(map[string]int)}
}

// next returns the name for the element identified by key. Repeated keys
// get a numeric suffix.
func (n *namer) next(key string) string {
	if !n.stable {
		id := fmt.Sprintf("%s%d", n.prefix, n.index)
		n.index++
		return id
	}

	id := n.prefix + "_" + contentKey(key)
	n.seen[id]++
	if count := n.seen[id]; count > 1 {
		id = fmt.Sprintf("%s_%d", id, count)
	}
	return id
}

// contentKey is the first 8 hex characters of a name-based UUID for key.
func contentKey(key string) string {
	return uuid.NewSHA1(idNamespace, []byte(key)).String()[:8]
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sysmlName returns name unchanged when it is a basic identifier and as a
// quoted unrestricted name otherwise.
func sysmlName(name string) string {
	if identifier.MatchString(name) {
		return name
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return "'" + escaped + "'"
}
