package store

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/solve"
)

func sessionFixture(t *testing.T) (*config.Config, *Store, *solve.Result, *solve.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Nodes = 5
	prob, err := cfg.Problem()
	if err != nil {
		t.Fatalf("Problem: %v", err)
	}
	rng := rand.New(rand.NewSource(6))
	fw := &solve.Result{X: prob.InitialGuess(rng), Status: "converged", Converged: true, Evaluations: 12}
	rv := &solve.Result{X: prob.InitialGuess(rng), Status: "maxeval reached", Evaluations: 99}
	return cfg, New(t.TempDir()), fw, rv
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg, s, fw, rv := sessionFixture(t)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	prob, _ := cfg.Problem()

	runID, err := s.Save(cfg, prob, fw, rv)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := s.LoadMetadata(runID)
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if !meta.Forward.Converged || meta.Reverse.Converged {
		t.Errorf("leg statuses lost: %+v %+v", meta.Forward, meta.Reverse)
	}
	if meta.Config.Nodes != 5 {
		t.Errorf("config lost: %+v", meta.Config)
	}

	tr, err := s.LoadTrajectory(runID, "forward")
	if err != nil {
		t.Fatalf("LoadTrajectory: %v", err)
	}
	if len(tr.Times) != 5 {
		t.Fatalf("trajectory has %d nodes, want 5", len(tr.Times))
	}

	want := FromVector(prob, fw.X)
	for i := range tr.Times {
		for j := 0; j < 3; j++ {
			if math.Abs(tr.Q[i][j]-want.Q[i][j]) > 1e-12 {
				t.Fatalf("angle (%d,%d) drifted through CSV: %g vs %g",
					i, j, tr.Q[i][j], want.Q[i][j])
			}
		}
	}

	runs, err := s.List()
	if err != nil || len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("List: %v %v", runs, err)
	}
}

// Two sessions saved back to back must land in distinct run directories
// rather than the second overwriting the first.
func TestSaveAssignsUniqueRunIDs(t *testing.T) {
	cfg, s, fw, rv := sessionFixture(t)
	prob, err := cfg.Problem()
	if err != nil {
		t.Fatalf("Problem: %v", err)
	}

	first, err := s.Save(cfg, prob, fw, rv)
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := s.Save(cfg, prob, fw, rv)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if first == second {
		t.Fatalf("both sessions saved under %q", first)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("stored %d runs, want 2", len(runs))
	}
}

func TestListEmptyStore(t *testing.T) {
	s := New(t.TempDir() + "/missing")
	runs, err := s.List()
	if err != nil || runs != nil {
		t.Fatalf("expected empty list, got %v %v", runs, err)
	}
}

func TestFromVectorAccelerations(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Nodes = 3
	cfg.TFinal = 2 // h = 1 keeps arithmetic visible
	prob, err := cfg.Problem()
	if err != nil {
		t.Fatalf("Problem: %v", err)
	}
	lay := prob.Layout()
	x := make([]float64, lay.NumVars())
	x[lay.Velocity[0][0]] = 1
	x[lay.Velocity[0][1]] = 3
	x[lay.Velocity[0][2]] = 3

	tr := FromVector(prob, x)
	if tr.A[0][0] != 2 || tr.A[1][0] != 0 {
		t.Errorf("accelerations: %v", Column(tr.A, 0))
	}
	if tr.A[2][0] != tr.A[1][0] {
		t.Error("trailing acceleration row must repeat its predecessor")
	}
}
