// internal/writers/match.go
package writers

import (
	"fmt"
	"io"

	"offscan-core/engine"

	"offscan/internal/common"
	"offscan/internal/output"
)

// StartMatchWriter spins up the writer goroutine. Records sent on the
// returned channel are serialized in the requested format; closing the
// channel finishes the output and delivers the terminal error (nil on
// success) on the error channel.
//
// The error is delivered as soon as the writer stops, which for streaming
// text can be mid-scan (a downstream `head` closing the pipe). The
// goroutine keeps draining the channel afterwards, so producers that miss
// the signal never block on a dead writer.
func StartMatchWriter(out io.Writer, format string, sorted, header bool, bufSize int) (chan<- engine.Match, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Match, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case "json":
			var buf []engine.Match
			for m := range in {
				buf = append(buf, m)
			}
			if sorted {
				common.SortMatches(buf)
			}
			err = output.WriteJSON(out, buf)

		case "text":
			if sorted {
				var buf []engine.Match
				for m := range in {
					buf = append(buf, m)
				}
				common.SortMatches(buf)
				err = output.WriteText(out, buf, header)
			} else {
				err = output.StreamText(out, in, header)
			}

		default:
			err = fmt.Errorf("unsupported output %q", format)
		}
		errCh <- err
		for range in {
		}
	}()

	return in, errCh
}
