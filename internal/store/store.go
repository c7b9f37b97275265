// Package store persists solve sessions: a metadata record plus one CSV
// trajectory per leg. Bundles are written once and never read back by
// the transcription engine.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/trajopt/internal/arm"
	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/metrics"
	"github.com/san-kum/trajopt/internal/nlp"
	"github.com/san-kum/trajopt/internal/solve"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// LegMetadata captures one solver leg's outcome.
type LegMetadata struct {
	Status      string         `json:"status"`
	Converged   bool           `json:"converged"`
	Evaluations int            `json:"evaluations"`
	Objective   float64        `json:"objective"`
	Energy      metrics.Energy `json:"energy"`
}

// RunMetadata is the bundle record written next to the trajectories.
type RunMetadata struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Config    *config.Config `json:"config"`
	Robot     *arm.Params    `json:"robot"`
	Forward   LegMetadata    `json:"forward"`
	Reverse   LegMetadata    `json:"reverse"`
}

var csvHeader = []string{
	"t",
	"q1", "q2", "q3",
	"v1", "v2", "v3",
	"a1", "a2", "a3",
	"u1", "u2", "u3",
	"p1", "p2", "p3",
}

// Save writes one session bundle and returns its run ID.
func (s *Store) Save(cfg *config.Config, prob *nlp.Problem, forward, reverse *solve.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	runID, runDir, err := s.newRunDir()
	if err != nil {
		return "", err
	}

	fwTraj := FromVector(prob, forward.X)
	rvTraj := FromVector(prob.Swapped(), reverse.X)

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Config:    cfg,
		Robot:     prob.Robot,
		Forward:   legMetadata(prob, forward, fwTraj),
		Reverse:   legMetadata(prob, reverse, rvTraj),
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", errors.Wrap(err, "write metadata")
	}
	if err := writeTrajectory(filepath.Join(runDir, "forward.csv"), fwTraj); err != nil {
		return "", errors.Wrap(err, "write forward trajectory")
	}
	if err := writeTrajectory(filepath.Join(runDir, "reverse.csv"), rvTraj); err != nil {
		return "", errors.Wrap(err, "write reverse trajectory")
	}
	return runID, nil
}

// newRunDir reserves a fresh run directory. Mkdir fails on an existing
// path, so two sessions landing on the same timestamp retry instead of
// overwriting each other.
func (s *Store) newRunDir() (runID, runDir string, err error) {
	for attempt := 0; attempt < 4; attempt++ {
		runID = fmt.Sprintf("run_%d", time.Now().UnixNano())
		runDir = filepath.Join(s.baseDir, runID)
		err = os.Mkdir(runDir, 0755)
		if err == nil || !os.IsExist(err) {
			return runID, runDir, err
		}
	}
	return "", "", err
}

func legMetadata(prob *nlp.Problem, res *solve.Result, tr *Trajectory) LegMetadata {
	return LegMetadata{
		Status:      res.Status,
		Converged:   res.Converged,
		Evaluations: res.Evaluations,
		Objective:   res.Energy,
		Energy:      metrics.Integrate(prob.Robot, tr.Times, tr.V, tr.U),
	}
}

// List returns the stored run records, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(e.Name())
		if err != nil {
			continue // skip foreign directories
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads one leg ("forward" or "reverse") back from a run.
func (s *Store) LoadTrajectory(runID, leg string) (*Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, leg+".csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.Errorf("trajectory %s/%s is empty", runID, leg)
	}

	tr := &Trajectory{}
	for _, row := range rows[1:] {
		vals := make([]float64, len(row))
		for i, cell := range row {
			if vals[i], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, errors.Wrapf(err, "parse %q", cell)
			}
		}
		tr.Times = append(tr.Times, vals[0])
		tr.Q = append(tr.Q, vals[1:4])
		tr.V = append(tr.V, vals[4:7])
		tr.A = append(tr.A, vals[7:10])
		tr.U = append(tr.U, vals[10:13])
		tr.Power = append(tr.Power, vals[13:16])
	}
	return tr, nil
}

// ExportJSON writes one run's metadata to path, or to stdout when path
// is empty.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.LoadMetadata(runID)
	if err != nil {
		return err
	}
	if path == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}
	return writeJSON(path, meta)
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

func writeTrajectory(path string, tr *Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	row := make([]string, len(csvHeader))
	for i := range tr.Times {
		cells := make([]float64, 0, len(csvHeader))
		cells = append(cells, tr.Times[i])
		cells = append(cells, tr.Q[i]...)
		cells = append(cells, tr.V[i]...)
		cells = append(cells, tr.A[i]...)
		cells = append(cells, tr.U[i]...)
		cells = append(cells, tr.Power[i]...)
		for k, v := range cells {
			row[k] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
