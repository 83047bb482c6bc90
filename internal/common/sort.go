// internal/common/sort.go
package common

import (
	"sort"

	"offscan-core/engine"
)

// LessMatch defines a stable order for records (for --sort).
func LessMatch(a, b engine.Match) bool {
	if a.ProbeID != b.ProbeID {
		return a.ProbeID < b.ProbeID
	}
	if a.SeqID != b.SeqID {
		return a.SeqID < b.SeqID
	}
	if a.Pos != b.Pos {
		return a.Pos < b.Pos
	}
	return a.Strand < b.Strand
}

func SortMatches(ms []engine.Match) {
	sort.Slice(ms, func(i, j int) bool { return LessMatch(ms[i], ms[j]) })
}
