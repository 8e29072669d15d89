package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/san-kum/idealgas/internal/automation"
	"github.com/san-kum/idealgas/internal/viz"
)

var (
	dataDir   string
	verbosity int
	themeName string
	// Config sources
	configFile string
	preset     string
	// Arena overrides
	arenaWidth  float64
	arenaHeight float64
	margin      float64
	// Species overrides, applied to every species
	count  int
	mass   float64
	radius float64
	vx     float64
	vy     float64
	// Run overrides
	seed     uint64
	frames   int
	parallel int
	// Histogram
	binWidth float64
	bins     int
	// Output
	metricNames []string
	noSave      bool
	outFile     string
	svgWidth    int
	seriesName  string
	// Ensemble
	numRuns int
	limit   int
	// Sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// Bench
	benchFrameCount int
)

// newLogger writes structured log lines to stderr. -v raises verbosity.
func newLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(os.Stderr, prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: verbosity})
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&arenaWidth, "width", 750, "arena width")
	cmd.Flags().Float64Var(&arenaHeight, "height", 750, "arena height")
	cmd.Flags().Float64Var(&margin, "margin", 75, "wall margin")
	cmd.Flags().IntVar(&count, "count", 60, "particles per species")
	cmd.Flags().Float64Var(&mass, "mass", 5, "particle mass (all species)")
	cmd.Flags().Float64Var(&radius, "radius", 10, "particle radius (all species)")
	cmd.Flags().Float64Var(&vx, "vx", 4, "initial x velocity (all species)")
	cmd.Flags().Float64Var(&vy, "vy", 4, "initial y velocity (all species)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "placement seed")
	cmd.Flags().IntVar(&frames, "frames", 1000, "frames to simulate")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "min particles per worker for wall/integrate passes (0 = sequential)")
	cmd.Flags().Float64Var(&binWidth, "bin-width", 0.5, "speed histogram bin width")
	cmd.Flags().IntVar(&bins, "bins", 12, "speed histogram bins")
}

// main is the entry point for the idealgas CLI; with no subcommand it opens
// the interactive preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:          "idealgas",
		Short:        "2d ideal gas simulation lab",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(newLogger())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".idealgas", "data directory")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", viz.ThemeMinimal.Name, "live view color theme")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return viz.SetTheme(themeName)
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the results",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default: all)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	histCmd := &cobra.Command{
		Use:   "hist [run_id]",
		Short: "speed histogram of the final state",
		Args:  cobra.ExactArgs(1),
		RunE:  histRun,
	}
	histCmd.Flags().Float64Var(&binWidth, "bin-width", 0.5, "speed histogram bin width")
	histCmd.Flags().IntVar(&bins, "bins", 12, "speed histogram bins")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the final state or a series to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().IntVar(&svgWidth, "size", 600, "image width in pixels")
	svgCmd.Flags().StringVar(&seriesName, "series", "", "plot this series instead of the arena")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frame throughput",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchFrameCount, "frames", 200, "frames per measurement")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same setup under many seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVarP(&numRuns, "runs", "n", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&limit, "limit", 0, "max concurrent runs (0 = unbounded)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report the resulting gas",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", automation.ParamSpeed, "parameter to sweep (speed, mass, radius, count, margin)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 8, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, histCmd, exportJSONCmd, svgCmd, presetsCmd, benchCmd, ensembleCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
