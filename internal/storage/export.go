package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/flowsynth/internal/field"
)

type ExportData struct {
	RunMetadata
	UField [][][]float64 `json:"u_field"`
	VField [][][]float64 `json:"v_field,omitempty"`
}

// ExportJSON writes the metadata and nested [t][x][y] arrays of a run.
func ExportJSON(w io.Writer, meta RunMetadata, p *field.Pair) error {
	data := ExportData{
		RunMetadata: meta,
		UField:      p.U.ToSlices(),
	}
	if !p.Scalar() {
		data.VField = p.V.ToSlices()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
