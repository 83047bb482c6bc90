// core/probe/probe.go
package probe

import (
	"fmt"
	"strings"
)

// Length bounds for a scoreable probe (duplex alignment limit).
const (
	MinLen = 2
	MaxLen = 60
)

// Probe is one named query sequence (5'→3', A/C/G/T only).
type Probe struct {
	ID  string
	Seq string
}

// Normalize strips whitespace/quotes and uppercases.
func Normalize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\'' || c == '"':
			continue
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// Validate returns the normalized sequence, or an error if it is empty,
// outside [MinLen, MaxLen], or contains a non-ACGT base. Sequences are never
// truncated to fit.
func Validate(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return "", fmt.Errorf("empty probe sequence")
	}
	if len(s) < MinLen || len(s) > MaxLen {
		return "", fmt.Errorf("probe length %d outside [%d,%d]", len(s), MinLen, MaxLen)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return "", fmt.Errorf("invalid base %q at position %d; allowed: A C G T", s[i], i+1)
		}
	}
	return s, nil
}

// MaxProbeLen returns the longest sequence length in the set (0 if empty).
func MaxProbeLen(list []Probe) int {
	n := 0
	for _, p := range list {
		if len(p.Seq) > n {
			n = len(p.Seq)
		}
	}
	return n
}

// ParseInline parses an inline probe spec of the form "ID:SEQ" or "SEQ".
// idx names anonymous probes P1, P2, ...
func ParseInline(spec string, idx int) (Probe, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Probe{}, fmt.Errorf("empty --probe at position %d", idx+1)
	}
	id := ""
	seq := spec
	if k := strings.IndexByte(spec, ':'); k >= 0 {
		id = strings.TrimSpace(spec[:k])
		seq = strings.TrimSpace(spec[k+1:])
	}
	if id == "" {
		id = fmt.Sprintf("P%d", idx+1)
	}
	norm, err := Validate(seq)
	if err != nil {
		return Probe{}, fmt.Errorf("--probe %q: %v", spec, err)
	}
	return Probe{ID: id, Seq: norm}, nil
}
