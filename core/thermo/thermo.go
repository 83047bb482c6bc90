// core/thermo/thermo.go
// Duplex scoring for a perfectly matched, ungapped alignment: nearest-
// neighbor stacking plus duplex initiation, salt-corrected entropy, ΔG at
// the solution temperature, and the two-state melting temperature.
//
// This package has no app or output dependencies; engine imports it cleanly.

package thermo

import (
	"errors"
	"fmt"
	"math"

	"offscan-core/probe"
)

// Error kinds. Callers classify with errors.Is.
var (
	ErrLength         = errors.New("sequence length out of range")
	ErrRange          = errors.New("condition out of range")
	ErrDegenerateBase = errors.New("degenerate base")
)

// ErrorScore is the sentinel free energy carried by failed results. It never
// passes a threshold filter because filters must reject Err != nil first.
var ErrorScore = math.Inf(-1)

// Result reports the thermodynamics of one scored duplex.
// DH, DS and DG are in cal/mol (DS in cal/(K·mol)); TmC in °C.
// A Result is immutable once produced.
type Result struct {
	DH  float64
	DS  float64
	DG  float64
	TmC float64
	Err error
}

// DGKcal reports the free energy in kcal/mol, the unit thresholds and
// emitted records use.
func (r Result) DGKcal() float64 { return r.DG / 1000.0 }

func fail(err error) Result {
	return Result{DG: ErrorScore, TmC: ErrorScore, Err: err}
}

// Score evaluates seq (5'→3', assumed fully and ungapped-paired with its
// perfect complement) under cond. Failures are reported through Result.Err
// with the sentinel score; Score never panics on bad input.
func Score(seq []byte, cond Conditions) Result {
	if len(seq) < probe.MinLen || len(seq) > MaxAlignLen {
		return fail(fmt.Errorf("%w: %d not in [%d,%d]", ErrLength, len(seq), probe.MinLen, MaxAlignLen))
	}
	if err := cond.Validate(); err != nil {
		return fail(err)
	}

	var dh, ds float64

	// Duplex initiation.
	switch cond.Model {
	case ModelFull:
		p := InitiationEnergy(seq[0], seq[len(seq)-1])
		dh += p.DH
		ds += p.DS
	default:
		dh += initOther.DH
		ds += initOther.DS
	}

	// Interior stacking over every adjacent dinucleotide.
	for i := 0; i < len(seq)-1; i++ {
		p, ok := NNEnergy(seq[i], seq[i+1])
		if !ok {
			return fail(fmt.Errorf("%w: %q at position %d", ErrDegenerateBase, seq[i:i+2], i))
		}
		dh += p.DH
		ds += p.DS
	}

	// Salt-corrected entropy, scaled by the internal-linkage count N-1.
	naEq := cond.NaEquivalent()
	if naEq <= 0 {
		return fail(fmt.Errorf("%w: non-positive effective salt %g mM", ErrRange, naEq))
	}
	ds += 0.368 * float64(len(seq)-1) * math.Log(naEq/1000.0)

	// Free energy at the solution temperature, in cal/mol.
	dg := dh*1000.0 - cond.TempK*ds

	// Two-state Tm. Self-complementary duplexes are symmetric homodimers.
	divisor := 4.0
	if probe.IsSelfComplementary(seq) {
		divisor = 2.0
	}
	conc := cond.DNAConcNM * 1e-9 // nM → mol/L
	if conc <= 0 {
		return fail(fmt.Errorf("%w: dna_conc %g nM leaves Tm undefined", ErrRange, cond.DNAConcNM))
	}
	den := ds + Rcal*math.Log(conc/divisor)
	if math.Abs(den) < 1e-10 {
		return fail(errors.New("invalid thermodynamic parameters: vanishing Tm denominator"))
	}
	tm := dh*1000.0/den - AbsoluteZeroC

	if math.IsNaN(dg) || math.IsNaN(tm) || math.IsInf(dg, 0) || math.IsInf(tm, 0) {
		return fail(errors.New("invalid thermodynamic parameters: non-finite result"))
	}
	return Result{DH: dh * 1000.0, DS: ds, DG: dg, TmC: tm}
}

// Align scores query against a target window, assuming the query pairs fully
// and ungapped from the window start. It is the general scoring entry point
// for library callers holding an arbitrary (query, window) pair; the scan
// path itself calls Score directly, because its windows are exact matches
// already cut to query length. Oversized inputs are rejected, never
// truncated: the query is bounded by MaxAlignLen and the window by
// MaxTargetLen. With cond.Dimer unset the query is scored against itself
// (hairpin geometry).
func Align(query, window []byte, cond Conditions) Result {
	if len(query) > MaxAlignLen {
		return fail(fmt.Errorf("%w: query %d exceeds %d", ErrLength, len(query), MaxAlignLen))
	}
	if len(window) > MaxTargetLen {
		return fail(fmt.Errorf("%w: target window %d exceeds %d", ErrLength, len(window), MaxTargetLen))
	}
	if !cond.Dimer {
		return Score(query, cond)
	}
	n := len(query)
	if len(window) < n {
		n = len(window)
	}
	return Score(query[:n], cond)
}
