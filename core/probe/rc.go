// core/probe/rc.go
package probe

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
}

// RevComp returns the reverse-complement of seq. Non-ACGT bytes map to 'N'
// so they can never silently pair.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// IsSelfComplementary reports whether seq equals its own reverse complement.
// Any non-ACGT byte makes the answer false.
func IsSelfComplementary(seq []byte) bool {
	n := len(seq)
	if n == 0 {
		return false
	}
	if n%2 == 1 {
		// An odd-length duplex would need a base pairing with itself.
		return false
	}
	for i := 0; i < n/2; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 || seq[i] != c {
			return false
		}
	}
	return true
}
