// internal/runutil/runutil.go
package runutil

import "fmt"

// ValidateChunking fixes up the chunk geometry for a probe set. The overlap
// is always maxProbeLen-1 so an occurrence ending just past a boundary still
// fits entirely inside the next chunk. A chunk size too small to make
// progress is grown rather than rejected.
func ValidateChunking(chunkSize, maxProbeLen int) (size, overlap int, warns []string) {
	overlap = maxProbeLen - 1
	if overlap < 0 {
		overlap = 0
	}
	size = chunkSize
	if size > 0 && size <= overlap {
		grown := 2 * (overlap + 1)
		warns = append(warns,
			fmt.Sprintf("--chunk-size %d is not larger than the probe overlap %d; using %d", size, overlap, grown))
		size = grown
	}
	return size, overlap, warns
}
