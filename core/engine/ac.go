// core/engine/ac.go
package engine

/*
Aho-Corasick multi-pattern matcher over the 4-letter DNA alphabet.

- buildAC(patterns) builds a dense goto trie with BFS failure links and
  propagated outputs.
- Stream walks a window lazily, reporting every full-length exact occurrence
  as (pattern index, end offset); it can be reset onto a new window.
- Non-ACGT bytes reset the automaton state, so no occurrence ever spans one.

Matching time is linear in window length plus occurrence count, independent
of how many patterns are registered.
*/

type acNode struct {
	next [4]int // dense goto; -1 while building, resolved in BFS
	fail int
	out  []int // pattern indices ending at this state
}

func baseIdx(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return -1
	}
}

func buildAC(patterns [][]byte) []acNode {
	nodes := make([]acNode, 1)
	for i := range nodes[0].next {
		nodes[0].next[i] = -1
	}

	for pi, pat := range patterns {
		state := 0
		for _, b := range pat {
			ix := baseIdx(b)
			if ix < 0 {
				// Patterns are validated upstream.
				state = 0
				continue
			}
			if nodes[state].next[ix] == -1 {
				nodes[state].next[ix] = len(nodes)
				var nn acNode
				for k := range nn.next {
					nn.next[k] = -1
				}
				nodes = append(nodes, nn)
			}
			state = nodes[state].next[ix]
		}
		nodes[state].out = append(nodes[state].out, pi)
	}

	// Failure links by BFS; missing root edges loop back to the root.
	queue := make([]int, 0, len(nodes))
	for ch := 0; ch < 4; ch++ {
		nx := nodes[0].next[ch]
		if nx != -1 {
			nodes[nx].fail = 0
			queue = append(queue, nx)
		} else {
			nodes[0].next[ch] = 0
		}
	}
	for qh := 0; qh < len(queue); qh++ {
		r := queue[qh]
		for ch := 0; ch < 4; ch++ {
			s := nodes[r].next[ch]
			if s != -1 {
				queue = append(queue, s)
				f := nodes[r].fail
				nodes[s].fail = nodes[f].next[ch]
				nodes[s].out = append(nodes[s].out, nodes[nodes[s].fail].out...)
			} else {
				nodes[r].next[ch] = nodes[nodes[r].fail].next[ch]
			}
		}
	}
	return nodes
}

// Hit is one exact full-length occurrence: Pattern ends at End (the index of
// its last byte) within the scanned window.
type Hit struct {
	Pattern int
	End     int
}

// Stream walks one window and yields hits one at a time.
type Stream struct {
	nodes   []acNode
	seq     []byte
	state   int
	pos     int
	pending []int // unreported outputs at the current position
}

// Reset points the stream at a new window and rewinds it.
func (s *Stream) Reset(seq []byte) {
	s.seq = seq
	s.state = 0
	s.pos = 0
	s.pending = nil
}

// scan is the eager counterpart of Stream: it walks seq once and calls
// visit for every hit, stopping early when visit returns false.
func scan(nodes []acNode, seq []byte, visit func(Hit) bool) {
	state := 0
	for pos := 0; pos < len(seq); pos++ {
		ix := baseIdx(seq[pos])
		if ix < 0 {
			state = 0
			continue
		}
		state = nodes[state].next[ix]
		for _, pi := range nodes[state].out {
			if !visit(Hit{Pattern: pi, End: pos}) {
				return
			}
		}
	}
}

// Next returns the next hit, or ok=false once the window is exhausted.
func (s *Stream) Next() (Hit, bool) {
	for {
		if len(s.pending) > 0 {
			pi := s.pending[0]
			s.pending = s.pending[1:]
			return Hit{Pattern: pi, End: s.pos - 1}, true
		}
		if s.pos >= len(s.seq) {
			return Hit{}, false
		}
		ix := baseIdx(s.seq[s.pos])
		if ix < 0 {
			s.state = 0
		} else {
			s.state = s.nodes[s.state].next[ix]
			if out := s.nodes[s.state].out; len(out) > 0 {
				s.pending = out
			}
		}
		s.pos++
	}
}
