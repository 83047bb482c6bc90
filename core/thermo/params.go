// core/thermo/params.go
// Nearest-neighbor and duplex-initiation parameters (SantaLucia 1998 unified
// set, 1 M NaCl). Units: ΔH in kcal/mol, ΔS in cal/(K·mol).
//
// All tables are package data built once and never mutated, so they are safe
// to share across scanning workers without synchronization.

package thermo

const (
	// Rcal is the gas constant in cal/(K·mol).
	Rcal = 1.9872

	// AbsoluteZeroC converts between kelvin and °C.
	AbsoluteZeroC = 273.15

	// MaxAlignLen bounds a scoreable duplex.
	MaxAlignLen = 60

	// MaxTargetLen bounds a target window handed to the engine.
	MaxTargetLen = 10000
)

// NNParams holds one (ΔH, ΔS) propagation pair.
type NNParams struct {
	DH float64 // kcal/mol
	DS float64 // cal/(K·mol)
}

// Watson-Crick stacking parameters for all 16 ordered dinucleotides.
// Only 10 values are distinct: a dinucleotide and its reverse complement
// describe the same stacked pair read from opposite strands.
var nnStack = map[string]NNParams{
	"AA": {-7.9, -22.2}, "TT": {-7.9, -22.2},
	"AT": {-7.2, -20.4},
	"TA": {-7.2, -21.3},
	"CA": {-8.5, -22.7}, "TG": {-8.5, -22.7},
	"GT": {-8.4, -22.4}, "AC": {-8.4, -22.4},
	"CT": {-7.8, -21.0}, "AG": {-7.8, -21.0},
	"GA": {-8.2, -22.2}, "TC": {-8.2, -22.2},
	"CG": {-10.6, -27.2},
	"GC": {-9.8, -24.4},
	"GG": {-8.0, -19.9}, "CC": {-8.0, -19.9},
}

// Duplex initiation by terminal-base class.
var (
	initAT    = NNParams{2.3, 4.1}  // both termini A·T pairs
	initGC    = NNParams{0.1, -2.8} // both termini G·C pairs
	initMixed = NNParams{1.2, 0.7}  // one A·T terminus, one G·C terminus
	initOther = NNParams{0.2, -5.7} // uniform fallback (also the simple-model term)
)

// NNEnergy returns the stacking parameters for the ordered dinucleotide
// formed by bases a and b, and whether the pair is a valid ACGT dinucleotide.
func NNEnergy(a, b byte) (NNParams, bool) {
	p, ok := nnStack[string([]byte{a, b})]
	return p, ok
}

// InitiationEnergy classifies the two terminal bases of a duplex into one of
// four classes and returns that class's initiation parameters. Non-ACGT and
// like-with-like terminal combinations fall into the "other" class.
func InitiationEnergy(first, last byte) NNParams {
	switch {
	case (first == 'A' && last == 'T') || (first == 'T' && last == 'A'):
		return initAT
	case (first == 'G' && last == 'C') || (first == 'C' && last == 'G'):
		return initGC
	case isAT(first) && isGC(last), isGC(first) && isAT(last):
		return initMixed
	default:
		return initOther
	}
}

func isAT(b byte) bool { return b == 'A' || b == 'T' }
func isGC(b byte) bool { return b == 'G' || b == 'C' }
