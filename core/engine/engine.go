// core/engine/engine.go
package engine

import (
	"fmt"

	"offscan-core/probe"
	"offscan-core/thermo"
)

// Config holds the per-run scan parameters.
type Config struct {
	Conditions    thermo.Conditions
	ThresholdKcal float64 // keep matches with ΔG (kcal/mol) <= this
}

// Pattern is one registered orientation of a probe.
type Pattern struct {
	ProbeIdx int
	Strand   byte // '+' forward, '-' reverse complement
	Seq      []byte
}

// Match is one thresholded off-target candidate. Pos is the 0-based global
// coordinate of the window start; Seq is the matched window itself.
type Match struct {
	ProbeID    string
	SeqID      string
	SourceFile string
	Pos        int
	Strand     byte // '+' forward, '-' reverse complement
	DGKcal     float64
	TmC        float64
	Seq        string
}

// Engine owns the probe set, the registered patterns and the shared
// automaton. It is built once on the coordinating goroutine and is safe for
// concurrent use by scanning workers: all state is read-only after New.
type Engine struct {
	cfg      Config
	probes   []probe.Probe
	patterns []Pattern
	nodes    []acNode
	maxLen   int
}

// New validates the probe set, expands it into patterns according to the
// alignment type, and builds the automaton.
//
// AlignAny and AlignHairpin register forward + reverse complement; AlignEnd1
// registers forward only; AlignEnd2 reverse complement only.
func New(probes []probe.Probe, cfg Config) (*Engine, error) {
	if len(probes) == 0 {
		return nil, fmt.Errorf("engine: empty probe set")
	}
	if err := cfg.Conditions.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{cfg: cfg, probes: probes}
	fwd, rev := true, true
	switch cfg.Conditions.Alignment {
	case thermo.AlignEnd1:
		rev = false
	case thermo.AlignEnd2:
		fwd = false
	}
	for i, p := range probes {
		if _, err := probe.Validate(p.Seq); err != nil {
			return nil, fmt.Errorf("engine: probe %q: %w", p.ID, err)
		}
		b := []byte(p.Seq)
		if fwd {
			e.patterns = append(e.patterns, Pattern{ProbeIdx: i, Strand: '+', Seq: b})
		}
		if rev {
			e.patterns = append(e.patterns, Pattern{ProbeIdx: i, Strand: '-', Seq: probe.RevComp(b)})
		}
		if len(p.Seq) > e.maxLen {
			e.maxLen = len(p.Seq)
		}
	}

	pats := make([][]byte, len(e.patterns))
	for i := range e.patterns {
		pats[i] = e.patterns[i].Seq
	}
	e.nodes = buildAC(pats)
	return e, nil
}

// MaxProbeLen is the longest registered probe; chunk overlap must be at
// least MaxProbeLen-1 so no boundary occurrence is missed.
func (e *Engine) MaxProbeLen() int { return e.maxLen }

// Patterns exposes the registered patterns (read-only).
func (e *Engine) Patterns() []Pattern { return e.patterns }

// NewStream returns a restartable hit stream over the shared automaton.
func (e *Engine) NewStream(window []byte) *Stream {
	s := &Stream{nodes: e.nodes}
	s.Reset(window)
	return s
}

// ScanChunk scans one genome chunk. offset is the chunk's global start
// coordinate; len(chunk) must not exceed the target-window bound. Every
// exact occurrence is sliced out of the chunk, scored, and kept when it
// passes the threshold. Loci whose scoring fails (degenerate bytes, numeric
// corner cases) are skipped; they never abort the chunk.
func (e *Engine) ScanChunk(seqID string, offset int, chunk []byte) []Match {
	var out []Match
	scan(e.nodes, chunk, func(h Hit) bool {
		pat := e.patterns[h.Pattern]
		start := h.End - len(pat.Seq) + 1
		if start < 0 {
			return true
		}
		window := chunk[start : h.End+1]
		res := thermo.Score(window, e.cfg.Conditions)
		if res.Err != nil {
			// Per-locus failure: drop only this candidate.
			return true
		}
		if res.DGKcal() > e.cfg.ThresholdKcal {
			return true
		}
		out = append(out, Match{
			ProbeID: e.probes[pat.ProbeIdx].ID,
			SeqID:   seqID,
			Pos:     offset + start,
			Strand:  pat.Strand,
			DGKcal:  res.DGKcal(),
			TmC:     res.TmC,
			Seq:     string(window),
		})
		return true
	})
	return out
}
