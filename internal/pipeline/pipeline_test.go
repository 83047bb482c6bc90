package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"offscan-core/engine"
	"offscan-core/probe"
	"offscan-core/thermo"
)

func writeFasta(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestEngine(t *testing.T, seqs ...string) *engine.Engine {
	t.Helper()
	var ps []probe.Probe
	for i, s := range seqs {
		ps = append(ps, probe.Probe{ID: fmt.Sprintf("p%d", i+1), Seq: s})
	}
	eng, err := engine.New(ps, engine.Config{Conditions: thermo.Default(), ThresholdKcal: 0})
	if err != nil {
		t.Fatal(err)
	}
	return eng
}

func runPipeline(t *testing.T, cfg Config, files []string, eng *engine.Engine) []engine.Match {
	t.Helper()
	var got []engine.Match
	err := ForEachMatch(context.Background(), cfg, files, eng, func(m engine.Match) error {
		got = append(got, m)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func fingerprint(ms []engine.Match) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, fmt.Sprintf("%s/%s/%s/%d/%c/%.4f", m.ProbeID, m.SourceFile, m.SeqID, m.Pos, m.Strand, m.DGKcal))
	}
	sort.Strings(out)
	return out
}

// Planted occurrences must come back at their exact positions.
func TestForEachMatch_PlantedPositions(t *testing.T) {
	p := "GATTACAGATTACA"
	seq := strings.Repeat("T", 10) + p + strings.Repeat("T", 20) + p + strings.Repeat("T", 5)
	file := writeFasta(t, t.TempDir(), "ref.fa", ">chr1\n"+seq+"\n")
	eng := newTestEngine(t, p)

	got := runPipeline(t, Config{Threads: 1, ChunkSize: 0}, []string{file}, eng)
	var fwd []int
	for _, m := range got {
		if m.Strand == '+' {
			fwd = append(fwd, m.Pos)
		}
		if m.SeqID != "chr1" || m.SourceFile != file {
			t.Errorf("identity: %+v", m)
		}
	}
	sort.Ints(fwd)
	if len(fwd) != 2 || fwd[0] != 10 || fwd[1] != 44 {
		t.Fatalf("forward positions %v, want [10 44]", fwd)
	}
}

// Chunked parallel runs must produce exactly the whole-record result set:
// overlap duplicates collapse, boundary occurrences survive.
func TestForEachMatch_ChunkingInvariance(t *testing.T) {
	p := "GATTACAGATTACA"
	rc := string(probe.RevComp([]byte(p)))
	// Occurrences scattered so several straddle 25- and 40-byte boundaries.
	seq := strings.Repeat("C", 18) + p + strings.Repeat("A", 7) + rc +
		strings.Repeat("G", 11) + p + strings.Repeat("C", 30)
	dir := t.TempDir()
	file := writeFasta(t, dir, "ref.fa", ">s1\n"+seq+"\n>s2\n"+seq+"\n")
	eng := newTestEngine(t, p)

	baseline := fingerprint(runPipeline(t, Config{Threads: 1, ChunkSize: 0}, []string{file}, eng))
	if len(baseline) == 0 {
		t.Fatal("baseline found nothing")
	}

	for _, chunk := range []int{25, 40, 64, 1000} {
		for _, threads := range []int{1, 4} {
			cfg := Config{Threads: threads, ChunkSize: chunk, Overlap: eng.MaxProbeLen() - 1, DedupeCap: 64}
			got := fingerprint(runPipeline(t, cfg, []string{file}, eng))
			if len(got) != len(baseline) {
				t.Fatalf("chunk=%d threads=%d: %d records, want %d\n got %v\nwant %v",
					chunk, threads, len(got), len(baseline), got, baseline)
			}
			for i := range baseline {
				if got[i] != baseline[i] {
					t.Fatalf("chunk=%d threads=%d: record %d differs: %s vs %s",
						chunk, threads, i, got[i], baseline[i])
				}
			}
		}
	}
}

// Multiple input files contribute independently; the same locus in two
// files is two records.
func TestForEachMatch_MultipleFiles(t *testing.T) {
	p := "GATTACAGATTACA"
	dir := t.TempDir()
	a := writeFasta(t, dir, "a.fa", ">x\nAA"+p+"AA\n")
	b := writeFasta(t, dir, "b.fa", ">x\nAA"+p+"AA\n")
	eng := newTestEngine(t, p)

	got := runPipeline(t, Config{Threads: 2, ChunkSize: 0}, []string{a, b}, eng)
	files := map[string]int{}
	for _, m := range got {
		files[m.SourceFile]++
	}
	if files[a] == 0 || files[b] == 0 {
		t.Fatalf("both files must contribute: %v", files)
	}
	if files[a] != files[b] {
		t.Errorf("identical files must contribute equally: %v", files)
	}
}

// A missing file is reported but does not cancel the rest of the scan.
func TestForEachMatch_MissingFileContinues(t *testing.T) {
	p := "GATTACAGATTACA"
	dir := t.TempDir()
	good := writeFasta(t, dir, "good.fa", ">x\nAA"+p+"AA\n")
	missing := filepath.Join(dir, "nope.fa")
	eng := newTestEngine(t, p)

	var got []engine.Match
	err := ForEachMatch(context.Background(), Config{Threads: 1, ChunkSize: 0}, []string{missing, good}, eng,
		func(m engine.Match) error { got = append(got, m); return nil })
	if err == nil {
		t.Fatal("missing file must surface an error")
	}
	if len(got) == 0 {
		t.Error("the good file should still have been scanned")
	}
}

func TestForEachMatch_VisitErrorStops(t *testing.T) {
	p := "GATTACAGATTACA"
	file := writeFasta(t, t.TempDir(), "ref.fa", ">x\nAA"+p+"AA"+p+"\n")
	eng := newTestEngine(t, p)

	boom := errors.New("boom")
	err := ForEachMatch(context.Background(), Config{Threads: 1, ChunkSize: 0}, []string{file}, eng,
		func(engine.Match) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
}

func TestForEachMatch_ContextCancel(t *testing.T) {
	p := "GATTACAGATTACA"
	file := writeFasta(t, t.TempDir(), "ref.fa", ">x\n"+strings.Repeat(p, 50)+"\n")
	eng := newTestEngine(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEachMatch(ctx, Config{Threads: 2, ChunkSize: 32, Overlap: 13}, []string{file}, eng,
		func(engine.Match) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
