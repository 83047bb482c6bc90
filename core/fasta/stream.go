// core/fasta/stream.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Chunk is a window of one FASTA record's sequence. Offset is the 0-based
// global coordinate of Seq[0] within the record, so downstream hits can be
// mapped back without re-reading the genome. Sequence bytes are uppercased;
// anything outside A/C/G/T (N runs, IUPAC codes) is left for the matcher to
// step over. Each chunk owns a private copy of its bytes.
type Chunk struct {
	ID     string
	Offset int
	Seq    []byte
}

// StreamChunksPathCtx opens path, scans FASTA, and emits overlapped chunks
// as the record streams in. With chunking on, only the active chunk plus its
// small overlap is ever resident, so chromosome-scale records never load
// whole.
//
//	chunkSize <= 0 → whole record as one chunk (overlap ignored)
//	overlap   <  0 → treated as 0; clamped below chunkSize
//
// Consecutive chunks overlap by `overlap` bytes so occurrences spanning a
// boundary appear in at least one chunk. emit may return a non-nil error
// (e.g. ctx.Err()) to stop early.
func StreamChunksPathCtx(ctx context.Context, path string, chunkSize, overlap int, emit func(Chunk) error) error {
	if overlap < 0 {
		overlap = 0
	}
	if chunkSize > 0 && overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	sc := bufio.NewScanner(rc)
	const maxLine = 64 * 1024 * 1024 // tolerate very long single-line sequences
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id  string
		buf = make([]byte, 0, 1<<20)
		off int // global coordinate of buf[0]
	)

	// drain emits full chunks while enough bytes are buffered, sliding the
	// buffer so only the overlap carries over.
	drain := func() error {
		if chunkSize <= 0 {
			return nil
		}
		step := chunkSize - overlap
		for len(buf) >= chunkSize {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := emit(Chunk{ID: id, Offset: off, Seq: bytes.ToUpper(buf[:chunkSize])}); err != nil {
				return err
			}
			buf = append(buf[:0], buf[step:]...)
			off += step
		}
		return nil
	}

	// endRecord flushes whatever remains. A tail no longer than the overlap
	// was already fully contained in the previous chunk and is skipped.
	endRecord := func() error {
		if id == "" {
			return nil
		}
		if len(buf) > 0 && (off == 0 || len(buf) > overlap) {
			if err := emit(Chunk{ID: id, Offset: off, Seq: bytes.ToUpper(buf)}); err != nil {
				return err
			}
		}
		buf = buf[:0]
		off = 0
		return nil
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := endRecord(); err != nil {
				return err
			}
			id = parseHeaderID(line[1:])
			continue
		}
		buf = append(buf, bytes.TrimSpace(line)...)
		if err := drain(); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return endRecord()
}

// StreamChunks is the channel wrapper around StreamChunksPathCtx. Open
// errors for non-stdin paths are reported immediately; scan-time errors end
// the stream.
func StreamChunks(ctx context.Context, path string, chunkSize, overlap int) (<-chan Chunk, error) {
	if path != "-" {
		rc, err := openReader(path)
		if err != nil {
			return nil, err
		}
		_ = rc.Close()
	}
	out := make(chan Chunk, 8)
	go func() {
		defer close(out)
		_ = StreamChunksPathCtx(ctx, path, chunkSize, overlap, func(c Chunk) error {
			select {
			case out <- c:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, nil
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
