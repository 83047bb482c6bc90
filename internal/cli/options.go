// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"strings"

	"offscan-core/thermo"

	"offscan/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Probe input
	ProbeFile   string
	ProbeInline []string

	// Genome input
	SeqFiles []string

	// Solution conditions
	NaMM      float64
	MgMM      float64
	DNTPMM    float64
	DNAConcNM float64
	TempC     float64
	MaxLoop   int
	Alignment string
	Model     string

	// Filtering
	ThresholdKcal float64

	// Performance
	Threads   int
	ChunkSize int
	DedupeCap int

	// Output
	Output string
	Sort   bool
	Header bool // true unless --no-header
	Quiet  bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: genome-wide probe off-target scanner

Flags candidate binding sites for a probe set by exact multi-pattern search
(forward + reverse complement) and nearest-neighbor thermodynamic scoring.
Version: %s

Usage:
  %s [options] --probes panel.tsv --threshold -12 ref.fa[.gz]
  %s [options] --probe ID:ACGT... --threshold -12 ref*.fa.gz

`, name, version.Version, name, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returning an Options struct.
// Positional arguments are treated as sequence files.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.ProbeFile, "probes", "", "probe TSV file (id<TAB>seq) [*]")
	var inline stringSlice
	fs.Var(&inline, "probe", "inline probe ID:SEQ (repeatable) [*]")
	var seq stringSlice
	fs.Var(&seq, "sequences", "FASTA file(s) (repeatable, .gz ok, '-' = stdin) [*]")

	fs.Float64Var(&opt.NaMM, "na", 50.0, "monovalent cations (mM) [50]")
	fs.Float64Var(&opt.MgMM, "mg", 1.5, "divalent cations (mM) [1.5]")
	fs.Float64Var(&opt.DNTPMM, "dntp", 0.6, "dNTPs (mM) [0.6]")
	fs.Float64Var(&opt.DNAConcNM, "dna-conc", 50.0, "probe strand concentration (nM) [50]")
	fs.Float64Var(&opt.TempC, "temp", 37.0, "temperature for ΔG (°C) [37]")
	fs.IntVar(&opt.MaxLoop, "max-loop", 30, "max loop size (bp; reserved by the ungapped model) [30]")
	fs.StringVar(&opt.Alignment, "alignment", "any", "orientations to register: any | end1 | end2 | hairpin [any]")
	fs.StringVar(&opt.Model, "model", "simple", "initiation model: simple | full [simple]")

	fs.Float64Var(&opt.ThresholdKcal, "threshold", math.NaN(), "max ΔG to report (kcal/mol) [required]")

	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")
	fs.IntVar(&opt.ChunkSize, "chunk-size", 1_000_000, "genome chunk size in bp [1000000]")
	fs.IntVar(&opt.DedupeCap, "dedupe-cap", 0, "overlap dedupe window capacity (0 = default) [0]")

	fs.StringVar(&opt.Output, "output", "text", "output format: text | json [text]")
	fs.BoolVar(&opt.Sort, "sort", false, "sort records (probe, sequence, position) [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text output [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.ProbeInline = inline
	opt.SeqFiles = append([]string(nil), seq...)
	opt.SeqFiles = append(opt.SeqFiles, fs.Args()...)
	opt.Header = !noHeader

	// Validation: configuration errors abort before any scanning starts.
	if opt.ProbeFile == "" && len(opt.ProbeInline) == 0 {
		return opt, errors.New("provide --probes and/or --probe")
	}
	if len(opt.SeqFiles) == 0 {
		return opt, errors.New("at least one sequence file is required (positional or --sequences)")
	}
	if math.IsNaN(opt.ThresholdKcal) {
		return opt, errors.New("--threshold is required (kcal/mol, e.g. -12)")
	}
	if opt.NaMM < 0 || opt.MgMM < 0 || opt.DNTPMM < 0 || opt.DNAConcNM < 0 {
		return opt, errors.New("concentrations must be ≥ 0")
	}
	if opt.TempC < -thermo.AbsoluteZeroC {
		return opt, fmt.Errorf("--temp %g is below absolute zero", opt.TempC)
	}
	if opt.MaxLoop < 0 || opt.MaxLoop > 30 {
		return opt, errors.New("--max-loop must be in [0,30]")
	}
	if _, err := thermo.ParseAlignmentType(opt.Alignment); err != nil {
		return opt, err
	}
	if _, err := thermo.ParseModel(opt.Model); err != nil {
		return opt, err
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	if opt.ChunkSize < 0 {
		return opt, errors.New("--chunk-size must be ≥ 0")
	}
	if opt.DedupeCap < 0 {
		return opt, errors.New("--dedupe-cap must be ≥ 0")
	}
	if opt.Output != "text" && opt.Output != "json" {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}

// Conditions assembles the thermodynamic conditions from parsed options.
func (o Options) Conditions() thermo.Conditions {
	cond := thermo.Default()
	cond.MonovalentMM = o.NaMM
	cond.DivalentMM = o.MgMM
	cond.DNTPMM = o.DNTPMM
	cond.DNAConcNM = o.DNAConcNM
	cond.SetTempC(o.TempC)
	cond.MaxLoop = o.MaxLoop
	cond.Alignment, _ = thermo.ParseAlignmentType(o.Alignment)
	cond.Model, _ = thermo.ParseModel(o.Model)
	return cond
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
