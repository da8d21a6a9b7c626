package manifest

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/docker/go-connections/nat"
	"github.com/moby/buildkit/frontend/dockerfile/shell"
)

// defaultEscapeToken is the Dockerfile escape character unless an escape
// parser directive says otherwise.
const defaultEscapeToken = '\\'

// newLexer returns a word lexer that resolves quotes and escapes the way
// the Dockerfile frontend does. No build environment exists here, so
// variable references are kept as written.
func newLexer(escapeToken rune) *shell.Lex {
	lex := shell.NewLex(escapeToken)
	lex.SkipUnsetEnv = true
	return lex
}

// ParseExposedPort parses a single EXPOSE argument such as "8080",
// "8080/tcp" or "53/UDP". The protocol is matched case-insensitively and
// anything other than udp falls back to TCP. It reports false when the port
// is not a number in 1..65535.
func ParseExposedPort(raw string) (ExposedPort, bool) {
	proto, port := nat.SplitProtoPort(strings.TrimSpace(raw))

	n, err := strconv.ParseUint(strings.TrimSpace(port), 10, 16)
	if err != nil || n == 0 {
		return ExposedPort{}, false
	}

	p := ExposedPort{PortNumber: uint16(n), Protocol: ProtocolTCP}
	if strings.EqualFold(strings.TrimSpace(proto), "udp") {
		p.Protocol = ProtocolUDP
	}
	return p, true
}

// ParseVolume parses the argument text of a VOLUME instruction.
//
// Two forms are accepted and must yield the same mounts:
//
//	VOLUME ["/data", "/app"]
//	VOLUME /data /app
//
// The form is chosen by the first non-blank character. Malformed input of
// either form, or any other leading character, yields no mounts.
func ParseVolume(raw string) []VolumeMount {
	return parseVolume(raw, newLexer(defaultEscapeToken))
}

func parseVolume(raw string, lex *shell.Lex) []VolumeMount {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	switch trimmed[0] {
	case '[':
		return parseJSONVolume(trimmed)
	case '/':
		return parseShellVolume(trimmed, lex)
	default:
		return nil
	}
}

func parseJSONVolume(raw string) []VolumeMount {
	var paths []string
	if err := json.Unmarshal([]byte(raw), &paths); err != nil {
		return nil
	}
	return toMounts(paths)
}

// parseShellVolume splits on unquoted whitespace only; shell operators such
// as ';' or '|' are part of the path.
func parseShellVolume(raw string, lex *shell.Lex) []VolumeMount {
	paths, err := lex.ProcessWords(raw, nil)
	if err != nil {
		return nil
	}
	return toMounts(paths)
}

func toMounts(paths []string) []VolumeMount {
	if len(paths) == 0 {
		return nil
	}
	mounts := make([]VolumeMount, 0, len(paths))
	for _, p := range paths {
		mounts = append(mounts, VolumeMount{MountPoint: p})
	}
	return mounts
}

// unquote resolves quotes and escapes in a LABEL key or value. Whitespace
// inside the value is kept. Input the lexer rejects, such as an unterminated
// quote, is returned unchanged.
func unquote(lex *shell.Lex, value string) string {
	word, err := lex.ProcessWord(value, nil)
	if err != nil {
		return value
	}
	return word
}

// instructionArgs returns the raw text following the instruction keyword.
func instructionArgs(original string) string {
	s := strings.TrimSpace(original)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i:])
}
