// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"offscan-core/engine"
	"offscan-core/probe"

	"offscan/internal/cli"
	"offscan/internal/cmdutil"
	"offscan/internal/pipeline"
	"offscan/internal/runutil"
	"offscan/internal/version"
	"offscan/internal/writers"
)

// errOutputClosed aborts the scan once the writer has stopped accepting
// records; the writer's own error decides the exit code.
var errOutputClosed = errors.New("output writer stopped")

// RunContext wires CLI options into the scan pipeline and writer. Exit
// codes: 0 ok (also broken pipe), 2 configuration error, 3 runtime error,
// 130 canceled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("offscan")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "offscan version %s\n", version.Version)
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	// Probe set.
	var probes []probe.Probe
	if opts.ProbeFile != "" {
		probes, err = probe.LoadTSV(opts.ProbeFile)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
	}
	for i, spec := range opts.ProbeInline {
		p, err := probe.ParseInline(spec, i)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		probes = append(probes, p)
	}

	// Shared immutable engine (tables + automaton + conditions).
	eng, err := engine.New(probes, engine.Config{
		Conditions:    opts.Conditions(),
		ThresholdKcal: opts.ThresholdKcal,
	})
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	chunkSize, overlap, warns := runutil.ValidateChunking(opts.ChunkSize, eng.MaxProbeLen())
	for _, w := range warns {
		cmdutil.Warnf(stderr, opts.Quiet, "%s", w)
	}

	thr := opts.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	inCh, writeErr := writers.StartMatchWriter(outw, opts.Output, opts.Sort, opts.Header, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// A dead writer (broken pipe, full disk) must stop the scan, not
	// leave it feeding a drain loop to the end of the genome.
	var werr error
	writerDone := make(chan struct{})
	go func() {
		werr = <-writeErr
		close(writerDone)
	}()

	perr := pipeline.ForEachMatch(
		ctx,
		pipeline.Config{
			Threads:   thr,
			ChunkSize: chunkSize,
			Overlap:   overlap,
			DedupeCap: opts.DedupeCap,
		},
		opts.SeqFiles,
		eng,
		func(m engine.Match) error {
			select {
			case inCh <- m:
				return nil
			case <-writerDone:
				return errOutputClosed
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)
	<-writerDone

	if writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, perr)
		return 3
	}
	return 0
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
