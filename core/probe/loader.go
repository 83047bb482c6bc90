// core/probe/loader.go
package probe

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadTSV reads a probe file: one probe per line, either "id<TAB>seq" or a
// bare sequence (auto-named P1, P2, ...). '#' lines and blanks are skipped.
func LoadTSV(path string) ([]Probe, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var list []Probe
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(fh)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		var p Probe
		switch len(fields) {
		case 1:
			p.ID = fmt.Sprintf("P%d", len(list)+1)
			p.Seq = fields[0]
		case 2:
			p.ID = fields[0]
			p.Seq = fields[1]
		default:
			return nil, fmt.Errorf("%s:%d: expected 1 or 2 columns (id seq), got %d", path, ln, len(fields))
		}
		norm, err := Validate(p.Seq)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", path, ln, err)
		}
		p.Seq = norm
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%s:%d: duplicate probe id %q", path, ln, p.ID)
		}
		seen[p.ID] = struct{}{}
		list = append(list, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: no probes found", path)
	}
	return list, nil
}
