package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"offscan/internal/output"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI against temp inputs and returns (code, stdout, stderr).
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var so, se bytes.Buffer
	code := Run(args, &so, &se)
	return code, so.String(), se.String()
}

func TestRun_EndToEndText(t *testing.T) {
	dir := t.TempDir()
	probes := writeFile(t, dir, "probes.tsv", "px\tGATTACAGATTACA\n")
	ref := writeFile(t, dir, "ref.fa", ">chr1 test\nAAAAAGATTACAGATTACAAAAAA\n")

	code, out, se := run(t, "--probes", probes, "--threshold", "-5", "--sort", ref)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, se)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != output.Header {
		t.Errorf("header = %q", lines[0])
	}
	want := "px\tchr1\t5\t+\t-10.05\t33.51\tGATTACAGATTACA"
	if lines[1] != want {
		t.Errorf("record:\n got %q\nwant %q", lines[1], want)
	}
}

// Tightening the threshold can only shrink the result set.
func TestRun_ThresholdMonotonic(t *testing.T) {
	dir := t.TempDir()
	probes := writeFile(t, dir, "probes.tsv", "px\tGATTACAGATTACA\npy\tTTACGGCTATGCA\n")
	ref := writeFile(t, dir, "ref.fa",
		">c\nGATTACAGATTACATTTTTTTACGGCTATGCATTTT\n")

	countAt := func(thr string) int {
		code, out, se := run(t, "--probes", probes, "--threshold", thr, "--no-header", ref)
		if code != 0 {
			t.Fatalf("threshold %s: exit %d, %s", thr, code, se)
		}
		out = strings.TrimRight(out, "\n")
		if out == "" {
			return 0
		}
		return len(strings.Split(out, "\n"))
	}

	loose := countAt("-5")
	mid := countAt("-11")
	tight := countAt("-30")
	if loose < mid || mid < tight {
		t.Fatalf("result counts must shrink with the threshold: %d, %d, %d", loose, mid, tight)
	}
	if loose == 0 {
		t.Fatal("loose threshold found nothing")
	}
	if tight != 0 {
		t.Fatalf("impossible threshold still matched %d records", tight)
	}
}

func TestRun_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	probes := writeFile(t, dir, "probes.tsv", "px\tGATTACAGATTACA\n")
	ref := writeFile(t, dir, "ref.fa", ">chr1\nTTGATTACAGATTACATT\n")

	code, out, se := run(t, "--probes", probes, "--threshold", "-5", "--output", "json", "--sort", ref)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, se)
	}
	var recs []output.Record
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(recs) != 1 || recs[0].ProbeID != "px" || recs[0].Position != 2 || recs[0].Strand != "+" {
		t.Fatalf("got %+v", recs)
	}
	if recs[0].SourceFile != ref || recs[0].SequenceID != "chr1" {
		t.Errorf("provenance: %+v", recs[0])
	}
}

func TestRun_InlineProbe(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", ">c\nAAGATTACAGATTACAAA\n")
	code, out, se := run(t, "--probe", "inl:GATTACAGATTACA", "--threshold", "-5", "--no-header", ref)
	if code != 0 {
		t.Fatalf("exit %d, %s", code, se)
	}
	if !strings.HasPrefix(out, "inl\t") {
		t.Errorf("got %q", out)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	probes := writeFile(t, dir, "probes.tsv", "px\tGATTACAGATTACA\n")
	ref := writeFile(t, dir, "ref.fa", ">c\nACGT\n")

	t.Run("no args prints usage", func(t *testing.T) {
		code, out, _ := run(t)
		if code != 0 || !strings.Contains(out, "Usage") {
			t.Fatalf("code %d, out %q", code, out)
		}
	})
	t.Run("bad flag is a config error", func(t *testing.T) {
		code, _, _ := run(t, "--nope")
		if code != 2 {
			t.Fatalf("code %d, want 2", code)
		}
	})
	t.Run("missing threshold is a config error", func(t *testing.T) {
		code, _, se := run(t, "--probes", probes, ref)
		if code != 2 || !strings.Contains(se, "threshold") {
			t.Fatalf("code %d, stderr %q", code, se)
		}
	})
	t.Run("missing probe file is a config error", func(t *testing.T) {
		code, _, _ := run(t, "--probes", filepath.Join(dir, "nope.tsv"), "--threshold", "-5", ref)
		if code != 2 {
			t.Fatalf("code %d, want 2", code)
		}
	})
	t.Run("invalid probe sequence is a config error", func(t *testing.T) {
		code, _, _ := run(t, "--probe", "x:ACGN", "--threshold", "-5", ref)
		if code != 2 {
			t.Fatalf("code %d, want 2", code)
		}
	})
	t.Run("missing sequence file is a runtime error", func(t *testing.T) {
		code, _, _ := run(t, "--probes", probes, "--threshold", "-5", filepath.Join(dir, "nope.fa"))
		if code != 3 {
			t.Fatalf("code %d, want 3", code)
		}
	})
	t.Run("version", func(t *testing.T) {
		code, out, _ := run(t, "--version")
		if code != 0 || !strings.Contains(out, "version") {
			t.Fatalf("code %d, out %q", code, out)
		}
	})
	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var so, se bytes.Buffer
		code := RunContext(ctx, []string{"--probes", probes, "--threshold", "-5", ref}, &so, &se)
		if code != 130 {
			t.Fatalf("code %d, want 130", code)
		}
	})
}

// failingSink accepts one write and then fails every subsequent one,
// imitating a consumer that goes away mid-stream.
type failingSink struct {
	writes int
	err    error
}

func (s *failingSink) Write(p []byte) (int, error) {
	s.writes++
	if s.writes > 1 {
		return 0, s.err
	}
	return len(p), nil
}

// A writer failure must stop the scan promptly, not leave the pipeline
// blocked feeding a dead writer.
func TestRun_WriterFailureStopsScan(t *testing.T) {
	dir := t.TempDir()
	probes := writeFile(t, dir, "probes.tsv", "px\tGATTACAGATTACA\n")
	// Tandem repeats: an occurrence every 7 bases, far more output than
	// the stdout buffer holds.
	ref := writeFile(t, dir, "ref.fa", ">c\n"+strings.Repeat("GATTACAGATTACA", 3000)+"\n")
	args := []string{"--probes", probes, "--threshold", "-5", "--threads", "2", ref}

	runGuarded := func(t *testing.T, sink *failingSink) int {
		t.Helper()
		done := make(chan int, 1)
		go func() {
			var se bytes.Buffer
			done <- Run(args, sink, &se)
		}()
		select {
		case code := <-done:
			return code
		case <-time.After(10 * time.Second):
			t.Fatal("scan did not stop after the writer failed")
			return -1
		}
	}

	t.Run("write error exits 3", func(t *testing.T) {
		code := runGuarded(t, &failingSink{err: errors.New("sink failed")})
		if code != 3 {
			t.Fatalf("code %d, want 3", code)
		}
	})
	t.Run("broken pipe exits 0", func(t *testing.T) {
		code := runGuarded(t, &failingSink{err: syscall.EPIPE})
		if code != 0 {
			t.Fatalf("code %d, want 0", code)
		}
	})
}

func TestRun_GzipInput(t *testing.T) {
	dir := t.TempDir()
	probes := writeFile(t, dir, "probes.tsv", "px\tGATTACAGATTACA\n")
	plain := ">c\nAAGATTACAGATTACAAA\n"
	gz := filepath.Join(dir, "ref.fa.gz")
	if err := writeGzip(gz, plain); err != nil {
		t.Fatal(err)
	}
	code, out, se := run(t, "--probes", probes, "--threshold", "-5", "--no-header", gz)
	if code != 0 {
		t.Fatalf("exit %d, %s", code, se)
	}
	if !strings.Contains(out, "px\tc\t2\t+") {
		t.Errorf("got %q", out)
	}
}
