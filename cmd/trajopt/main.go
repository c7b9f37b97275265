package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/trajopt/internal/arm"
	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/deriv"
	"github.com/san-kum/trajopt/internal/solve"
	"github.com/san-kum/trajopt/internal/store"
	"github.com/san-kum/trajopt/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	nodes       int
	tFinal      float64
	scheme      string
	vCap        float64
	seed        int64
	maxEval     int
	leg         string
	outFile     string
	frameRate   int
	checkTrials int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trajopt",
		Short: "minimum-energy trajectory optimizer for a regenerative 3-joint arm",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultBaseDir, "data directory")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve the forward and reverse trajectories",
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	solveCmd.Flags().IntVar(&nodes, "nodes", 0, "override node count")
	solveCmd.Flags().Float64Var(&tFinal, "time", 0, "override horizon length")
	solveCmd.Flags().StringVar(&scheme, "scheme", "", "override discretization (backward_euler|midpoint)")
	solveCmd.Flags().Float64Var(&vCap, "vcap", 0, "override storage voltage cap")
	solveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	solveCmd.Flags().IntVar(&maxEval, "max-eval", 0, "override solver evaluation cap")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "compare analytic derivatives against finite differences",
		RunE:  runCheck,
	}
	checkCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	checkCmd.Flags().IntVar(&checkTrials, "trials", 20, "number of probe points")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  runList,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&leg, "leg", "forward", "which leg to plot (forward|reverse)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (stdout when empty)")

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "play a stored trajectory back in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&leg, "leg", "forward", "which leg to play (forward|reverse)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "playback frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(solveCmd, checkCmd, listCmd, plotCmd, exportCmd, liveCmd, presetsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (see `trajopt presets`)", preset)
		}
	}
	if nodes > 0 {
		cfg.Nodes = nodes
	}
	if tFinal > 0 {
		cfg.TFinal = cfg.TIni + tFinal
	}
	if scheme != "" {
		cfg.Scheme = scheme
	}
	if vCap > 0 {
		cfg.VCap = vCap
	}
	if maxEval > 0 {
		cfg.MaxEval = maxEval
	}
	cfg.Seed = seed
	return cfg, cfg.Validate()
}

func runSolve(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	prob, err := cfg.Problem()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := solve.NewSession(prob, solve.Options{
		MaxEval:   cfg.MaxEval,
		FtolRel:   cfg.FtolRel,
		DefectTol: cfg.DefectTol,
		Seed:      cfg.Seed,
	}, log)

	forward, reverse, err := session.Run(ctx)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, prob, forward, reverse)
	if err != nil {
		return err
	}
	log.Infow("run saved", "id", runID)

	meta, err := st.LoadMetadata(runID)
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary("forward", meta.Forward.Status, meta.Forward.Converged, meta.Forward.Energy))
	fmt.Println(viz.Summary("reverse", meta.Reverse.Status, meta.Reverse.Converged, meta.Reverse.Energy))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	p := arm.DefaultParams()
	rng := rand.New(rand.NewSource(seed))
	worst := 0.0

	for trial := 0; trial < checkTrials; trial++ {
		z := make([]float64, arm.BlockDim)
		zdot := make([]float64, arm.StateDim)
		for i := range z {
			z[i] = rng.Float64()*4 - 2
		}
		for i := range zdot {
			zdot[i] = rng.Float64()*4 - 2
		}

		fz, fdot := arm.Jacobian(p, z, zdot)
		analytic := make([]float64, 0, arm.StateDim*arm.BlockDim)
		for _, row := range fz {
			analytic = append(analytic, row[:]...)
		}
		fd := deriv.Central(func(x []float64) []float64 {
			return arm.Residual(p, x, zdot)
		}, z, arm.StateDim)
		if d := deriv.MaxRel(analytic, fd); d > worst {
			worst = d
		}

		analytic = analytic[:0]
		for _, row := range fdot {
			analytic = append(analytic, row[:arm.StateDim]...)
		}
		fd = deriv.Central(func(x []float64) []float64 {
			return arm.Residual(p, z, x)
		}, zdot, arm.StateDim)
		if d := deriv.MaxRel(analytic, fd); d > worst {
			worst = d
		}
	}

	fmt.Printf("worst relative deviation over %d probes: %.3e\n", checkTrials, worst)
	if worst > 1e-4 {
		return fmt.Errorf("analytic derivatives deviate from finite differences: %.3e", worst)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tNODES\tSCHEME\tFWD STATUS\tFWD ENERGY\tREV ENERGY")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%.4f\t%.4f\n",
			r.ID, r.Timestamp.Format(time.RFC3339), r.Config.Nodes, r.Config.Scheme,
			r.Forward.Status, r.Forward.Energy.Total, r.Reverse.Energy.Total)
	}
	return w.Flush()
}

func loadLeg(runID string) (*store.Trajectory, error) {
	leg = strings.ToLower(leg)
	if leg != "forward" && leg != "reverse" {
		return nil, fmt.Errorf("unknown leg %q", leg)
	}
	return store.New(dataDir).LoadTrajectory(runID, leg)
}

func runPlot(cmd *cobra.Command, args []string) error {
	tr, err := loadLeg(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.PlotTrajectory(tr))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	return store.New(dataDir).ExportJSON(args[0], outFile)
}

func runLive(cmd *cobra.Command, args []string) error {
	tr, err := loadLeg(args[0])
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(viz.NewModel(tr, leg, frameRate)).Run()
	return err
}
