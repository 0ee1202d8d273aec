package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	ID       string             `json:"id"`
	Scenario string             `json:"scenario"`
	Stepper  string             `json:"stepper"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Digest   string             `json:"digest"`
	Labels   []string           `json:"labels"`
	Columns  []string           `json:"columns"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

func newExportData(meta *RunMetadata, states *States) ExportData {
	return ExportData{
		ID:       meta.ID,
		Scenario: meta.Scenario,
		Stepper:  meta.Stepper,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    meta.Steps,
		Digest:   meta.Digest,
		Labels:   meta.Labels,
		Columns:  states.Columns,
		Times:    states.Times,
		States:   states.Rows,
		Metrics:  meta.Metrics,
	}
}

func WriteJSON(w io.Writer, meta *RunMetadata, states *States) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, states))
}

func ExportJSON(path string, meta *RunMetadata, states *States) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, states)
}

func ExportJSONStdout(meta *RunMetadata, states *States) error {
	return WriteJSON(os.Stdout, meta, states)
}

// WriteCSV writes the sampled trajectory with a header row.
func WriteCSV(w io.Writer, states *States) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, states.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range states.Rows {
		rec := []string{formatFloat(states.Times[i])}
		for _, v := range row {
			rec = append(rec, formatFloat(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
