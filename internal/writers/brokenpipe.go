// internal/writers/brokenpipe.go
package writers

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe classifies write failures caused by the consumer going away,
// e.g. `offscan ... | head` once head has what it needs. The scan treats
// these as a clean stop, not a runtime error.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EPIPE) {
		return true
	}
	return errors.Is(err, io.ErrClosedPipe)
}
