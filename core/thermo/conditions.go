// core/thermo/conditions.go
package thermo

import (
	"fmt"
	"math"
)

// Model selects the duplex-initiation treatment.
type Model int

const (
	// ModelSimple uses the uniform initiation term. This is the scanner's
	// historical default and the basis of the pinned regression values.
	ModelSimple Model = iota
	// ModelFull classifies the duplex termini via the initiation table.
	ModelFull
)

func (m Model) String() string {
	switch m {
	case ModelSimple:
		return "simple"
	case ModelFull:
		return "full"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// ParseModel maps a CLI spelling to a Model.
func ParseModel(s string) (Model, error) {
	switch s {
	case "simple", "":
		return ModelSimple, nil
	case "full":
		return ModelFull, nil
	default:
		return ModelSimple, fmt.Errorf("unknown model %q (want simple or full)", s)
	}
}

// AlignmentType selects which strand/orientation combinations the matcher
// registers. The variant set is closed; dispatch is by explicit branch.
type AlignmentType int

const (
	AlignAny AlignmentType = iota + 1
	AlignEnd1
	AlignEnd2
	AlignHairpin
)

func (a AlignmentType) String() string {
	switch a {
	case AlignAny:
		return "any"
	case AlignEnd1:
		return "end1"
	case AlignEnd2:
		return "end2"
	case AlignHairpin:
		return "hairpin"
	default:
		return fmt.Sprintf("AlignmentType(%d)", int(a))
	}
}

// ParseAlignmentType maps a CLI spelling to an AlignmentType.
func ParseAlignmentType(s string) (AlignmentType, error) {
	switch s {
	case "any", "":
		return AlignAny, nil
	case "end1":
		return AlignEnd1, nil
	case "end2":
		return AlignEnd2, nil
	case "hairpin":
		return AlignHairpin, nil
	default:
		return AlignAny, fmt.Errorf("unknown alignment type %q (want any, end1, end2 or hairpin)", s)
	}
}

// Conditions describes the solution a duplex is scored in. Temperature is
// held in kelvin; use Default or SetTempC to build one from °C.
type Conditions struct {
	MonovalentMM float64 // Na+ etc., mM
	DivalentMM   float64 // Mg2+, mM
	DNTPMM       float64 // dNTPs, mM
	DNAConcNM    float64 // probe strand concentration, nM
	TempK        float64 // kelvin
	MaxLoop      int     // bp; reserved, unused by the ungapped model
	Alignment    AlignmentType
	Dimer        bool // duplex (true) vs hairpin (false) geometry
	Model        Model
}

// Default mirrors the original tool's defaults: 50 mM Na+, 1.5 mM Mg2+,
// 0.6 mM dNTP, 50 nM probe, 37 °C, max loop 30, Any alignment, dimer.
func Default() Conditions {
	return Conditions{
		MonovalentMM: 50.0,
		DivalentMM:   1.5,
		DNTPMM:       0.6,
		DNAConcNM:    50.0,
		TempK:        37.0 + AbsoluteZeroC,
		MaxLoop:      30,
		Alignment:    AlignAny,
		Dimer:        true,
		Model:        ModelSimple,
	}
}

// SetTempC stores a °C temperature in kelvin.
func (c *Conditions) SetTempC(tc float64) { c.TempK = tc + AbsoluteZeroC }

// TempC reports the stored temperature in °C.
func (c Conditions) TempC() float64 { return c.TempK - AbsoluteZeroC }

// Validate rejects negative concentrations and sub-zero-kelvin temperatures.
func (c Conditions) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"monovalent", c.MonovalentMM},
		{"divalent", c.DivalentMM},
		{"dntp", c.DNTPMM},
		{"dna_conc", c.DNAConcNM},
	} {
		if v.val < 0 || math.IsNaN(v.val) {
			return fmt.Errorf("%w: %s concentration %g must be >= 0", ErrRange, v.name, v.val)
		}
	}
	if c.TempK < 0 || math.IsNaN(c.TempK) {
		return fmt.Errorf("%w: temperature %g K must be >= 0", ErrRange, c.TempK)
	}
	return nil
}

// NaEquivalent folds the divalent-cation and dNTP concentrations into a
// single monovalent-equivalent ionic strength (mM):
//
//	na_eq = na + 120*sqrt(max(0, mg - dntp))
func (c Conditions) NaEquivalent() float64 {
	mgEff := c.DivalentMM - c.DNTPMM
	if mgEff < 0 {
		mgEff = 0
	}
	return c.MonovalentMM + 120.0*math.Sqrt(mgEff)
}
