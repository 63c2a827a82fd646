// Package storage keeps finished runs on disk, one directory per run with a
// metadata.json and a trace.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/rs/xid"

	"github.com/san-kum/ctrlkit/internal/control"
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/telemetry"
)

const (
	metadataFile  = "metadata.json"
	traceFile     = "trace.csv"
	telemetryFile = "telemetry.csv"
)

var ErrNotFound = errors.New("storage: run not found")

// traceHeader lists the fixed trace.csv columns. State columns x0..xn
// follow them.
var traceHeader = []string{"time", "dt", "measurement", "setpoint", "error", "effort", "p", "i", "d"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Plant      string             `json:"plant"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Jitter     float64            `json:"jitter,omitempty"`
	Integrator string             `json:"integrator"`
	Gains      control.Gains      `json:"gains"`
	Setpoint   float64            `json:"setpoint"`
	Window     int                `json:"window"`
	Angular    bool               `json:"angular"`
	Filters    []string           `json:"filters,omitempty"`
	StepsTaken int                `json:"steps_taken"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// TraceRow is one line of trace.csv.
type TraceRow struct {
	dynamo.Sample
	Effort float64
}

// Save writes a run and returns its ID. meta.ID and meta.Timestamp are
// filled in. trace may be nil.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result, trace *telemetry.Trace) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Plant, xid.New().String())
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.StepsTaken = result.StepsTaken
	meta.Metrics = finiteMetrics(result.Metrics)
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result.Samples); err != nil {
		return "", err
	}
	if trace != nil && trace.Len() > 0 {
		if err := writeTelemetry(filepath.Join(runDir, telemetryFile), trace.Entries()); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

// finiteMetrics drops NaN and Inf values, which JSON cannot hold.
func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			glog.Warningf("storage: dropping non-finite metric %s=%v", k, v)
			continue
		}
		out[k] = v
	}
	return out
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

func writeTrace(path string, samples []dynamo.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string(nil), traceHeader...)
	if len(samples) > 0 {
		for i := range samples[0].State {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range samples {
		row := []string{
			formatFloat(smp.Time),
			formatFloat(smp.Dt),
			formatFloat(smp.Measurement),
			formatFloat(smp.Setpoint),
			formatFloat(smp.Error),
			formatFloat(smp.Effort()),
			formatFloat(smp.P),
			formatFloat(smp.I),
			formatFloat(smp.D),
		}
		for _, v := range smp.State {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeTelemetry(path string, entries []telemetry.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "key", "value"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write([]string{formatFloat(e.Time), e.Key, fmt.Sprint(e.Value)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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
			glog.V(1).Infof("storage: skipping %s: %v", entry.Name(), err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrace reads trace.csv back. Malformed rows are skipped.
func (s *Store) LoadTrace(runID string) ([]TraceRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
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
	if len(records) < 2 {
		return []TraceRow{}, nil
	}

	rows := make([]TraceRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row, ok := parseTraceRow(record)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseTraceRow(record []string) (TraceRow, bool) {
	if len(record) < len(traceHeader) {
		return TraceRow{}, false
	}
	vals := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return TraceRow{}, false
		}
		vals[i] = v
	}

	row := TraceRow{
		Sample: dynamo.Sample{
			Time:        vals[0],
			Dt:          vals[1],
			Measurement: vals[2],
			Setpoint:    vals[3],
			Error:       vals[4],
			Control:     dynamo.Control{vals[5]},
			P:           vals[6],
			I:           vals[7],
			D:           vals[8],
			State:       dynamo.State(vals[len(traceHeader):]),
		},
		Effort: vals[5],
	}
	return row, true
}

// Samples converts trace rows back into samples.
func Samples(rows []TraceRow) []dynamo.Sample {
	out := make([]dynamo.Sample, len(rows))
	for i, r := range rows {
		out[i] = r.Sample
	}
	return out
}
