package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
)

const (
	metadataFile   = "metadata.json"
	statesFile     = "states.csv"
	collisionsFile = "collisions.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one recorded run. The run cannot be resumed from it;
// Bodies are the initial conditions and Digest fingerprints the final state.
type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	G           float64            `json:"g"`
	Softening   float64            `json:"softening"`
	Stepper     string             `json:"stepper"`
	Steps       int                `json:"steps"`
	Time        float64            `json:"time"`
	Digest      string             `json:"digest"`
	Collisions  int                `json:"collisions"`
	SampleEvery int                `json:"sample_every"`
	Labels      []string           `json:"labels"`
	Bodies      []body.Spec        `json:"bodies"`
	Metrics     map[string]float64 `json:"metrics"`
}

// States is the sampled trajectory of a run. Columns names every value in a
// row after the time.
type States struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Column returns the series for one column name.
func (s *States) Column(name string) ([]float64, bool) {
	for j, c := range s.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(s.Rows))
		for i, row := range s.Rows {
			if j < len(row) {
				out[i] = row[j]
			}
		}
		return out, true
	}
	return nil, false
}

// Frames rebuilds per-sample positions for the given body labels. Labels
// without both columns are left at the origin.
func (s *States) Frames(labels []string) [][]body.Vec2 {
	frames := make([][]body.Vec2, len(s.Rows))
	for i := range frames {
		frames[i] = make([]body.Vec2, len(labels))
	}
	for j, l := range labels {
		xs, okX := s.Column(l + ".x")
		ys, okY := s.Column(l + ".y")
		if !okX || !okY {
			continue
		}
		for i := range frames {
			frames[i][j] = body.V(xs[i], ys[i])
		}
	}
	return frames
}

func formatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", cfg.Name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    cfg.Name,
		Timestamp:   time.Now(),
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		G:           cfg.G,
		Softening:   cfg.Softening,
		Stepper:     cfg.Stepper,
		Steps:       result.Steps,
		Time:        result.Time,
		Digest:      formatDigest(result.Digest),
		Collisions:  len(result.Collisions),
		SampleEvery: cfg.SampleEvery,
		Labels:      result.Labels,
		Bodies:      cfg.Bodies,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}
	if err := writeCollisions(filepath.Join(runDir, collisionsFile), result); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeStates(path string, result *experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time", "energy"}
	for _, l := range result.Labels {
		header = append(header, l+".x", l+".y")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{formatFloat(result.Times[i]), ""}
		if i < len(result.Energies) {
			row[1] = formatFloat(result.Energies[i])
		}
		for _, p := range result.States[i] {
			row = append(row, formatFloat(p.X), formatFloat(p.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeCollisions(path string, result *experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "time", "a", "b", "radius_a", "radius_b"}); err != nil {
		return err
	}
	for _, e := range result.Collisions {
		a, b := labelOf(e.A, e.NameA), labelOf(e.B, e.NameB)
		row := []string{strconv.Itoa(e.Step), formatFloat(e.Time), a, b, formatFloat(e.RadiusA), formatFloat(e.RadiusB)}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func labelOf(r body.Ref, name string) string {
	return body.View{Ref: r, Name: name}.Label()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) (*States, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := &States{}
	if len(records) == 0 {
		return out, nil
	}
	out.Columns = append(out.Columns, records[0][1:]...)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, len(record)-1)
		for j, field := range record[1:] {
			if field == "" {
				continue
			}
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			row[j] = val
		}
		out.Times = append(out.Times, t)
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

// CollisionsPath is the location of the run's collision log.
func (s *Store) CollisionsPath(runID string) string {
	return filepath.Join(s.baseDir, runID, collisionsFile)
}

// LoadCollisions reads the collision log back as raw records, header
// excluded.
func (s *Store) LoadCollisions(runID string) ([][]string, error) {
	file, err := os.Open(s.CollisionsPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return [][]string{}, nil
	}
	return records[1:], nil
}
