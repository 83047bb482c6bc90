// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"offscan-core/engine"
)

// Header is the text-format column line.
const Header = "probe_id\tsequence_id\tposition\tstrand\tdg\ttm\tsequence"

func writeLine(w io.Writer, m engine.Match) error {
	_, err := fmt.Fprintf(w, "%s\t%s\t%d\t%c\t%.2f\t%.2f\t%s\n",
		m.ProbeID, m.SeqID, m.Pos, m.Strand, m.DGKcal, m.TmC, m.Seq)
	return err
}

// WriteText prints one line per record from a buffered slice.
func WriteText(w io.Writer, list []engine.Match, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, Header); err != nil {
			return err
		}
	}
	for _, m := range list {
		if err := writeLine(w, m); err != nil {
			return err
		}
	}
	return nil
}

// StreamText prints records as they arrive.
func StreamText(w io.Writer, in <-chan engine.Match, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, Header); err != nil {
			return err
		}
	}
	for m := range in {
		if err := writeLine(w, m); err != nil {
			return err
		}
	}
	return nil
}
