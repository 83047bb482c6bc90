// core/fasta/open.go
package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// decodedFile is an open genome file plus any decoding layer stacked on
// top of it. Close tears the stack down outermost first.
type decodedFile struct {
	io.Reader
	stack []io.Closer
}

func (d *decodedFile) Close() error {
	var first error
	for _, c := range d.stack {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openReader resolves a genome path into a plain byte stream. "-" reads
// stdin; gzip input is decompressed transparently, recognized by the two
// leading magic bytes so a mislabeled file still opens, with a .gz suffix
// as a fallback for empty or truncated files.
func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(fh)
	sig, _ := br.Peek(2)
	gzipped := len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b
	if !gzipped && !strings.HasSuffix(path, ".gz") {
		return &decodedFile{Reader: br, stack: []io.Closer{fh}}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return &decodedFile{Reader: gr, stack: []io.Closer{gr, fh}}, nil
}
