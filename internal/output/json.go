// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"offscan-core/engine"
)

// Record is the JSON shape of one match.
type Record struct {
	ProbeID    string  `json:"probe_id"`
	SequenceID string  `json:"sequence_id"`
	SourceFile string  `json:"source_file,omitempty"`
	Position   int     `json:"position"`
	Strand     string  `json:"strand"`
	DG         float64 `json:"dg"`
	Tm         float64 `json:"tm"`
	Sequence   string  `json:"sequence"`
}

// ToRecord converts an engine match to its JSON shape.
func ToRecord(m engine.Match) Record {
	return Record{
		ProbeID:    m.ProbeID,
		SequenceID: m.SeqID,
		SourceFile: m.SourceFile,
		Position:   m.Pos,
		Strand:     string(m.Strand),
		DG:         m.DGKcal,
		Tm:         m.TmC,
		Sequence:   m.Seq,
	}
}

// WriteJSON emits the full record list as one JSON array.
func WriteJSON(w io.Writer, list []engine.Match) error {
	recs := make([]Record, 0, len(list))
	for _, m := range list {
		recs = append(recs, ToRecord(m))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
