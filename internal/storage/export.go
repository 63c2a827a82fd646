package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run          RunMetadata `json:"run"`
	Times        []float64   `json:"times"`
	Measurements []float64   `json:"measurements"`
	Setpoints    []float64   `json:"setpoints"`
	Errors       []float64   `json:"errors"`
	Efforts      []float64   `json:"efforts"`
	States       [][]float64 `json:"states"`
}

// ExportJSON writes a run and its trace as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, rows []TraceRow) error {
	data := ExportData{
		Run:          meta,
		Times:        make([]float64, len(rows)),
		Measurements: make([]float64, len(rows)),
		Setpoints:    make([]float64, len(rows)),
		Errors:       make([]float64, len(rows)),
		Efforts:      make([]float64, len(rows)),
		States:       make([][]float64, len(rows)),
	}

	for i, r := range rows {
		data.Times[i] = r.Time
		data.Measurements[i] = r.Measurement
		data.Setpoints[i] = r.Setpoint
		data.Errors[i] = r.Error
		data.Efforts[i] = r.Effort
		data.States[i] = r.State
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
