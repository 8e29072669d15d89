package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/idealgas/internal/analysis"
	"github.com/san-kum/idealgas/internal/arena"
	"github.com/san-kum/idealgas/internal/automation"
	"github.com/san-kum/idealgas/internal/config"
	"github.com/san-kum/idealgas/internal/experiment"
	"github.com/san-kum/idealgas/internal/export"
	"github.com/san-kum/idealgas/internal/particle"
	"github.com/san-kum/idealgas/internal/sim"
	"github.com/san-kum/idealgas/internal/storage"
	"github.com/san-kum/idealgas/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	registry := experiment.NewRegistry()
	metrics, err := registry.Metrics(metricNames, experiment.Bounds(cfg))
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, log)
	if err := exp.Setup(metrics); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d particles, %d frames...\n", name, exp.GetSimulator().Arena().Len(), cfg.Frames)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted after %d frames\n", result.Frames)
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(name, cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("collisions: %d\n", result.Collisions)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	hist, err := analysis.NewHistogram(cfg.Histogram.BinWidth, cfg.Histogram.Bins)
	if err != nil {
		return err
	}
	log := newLogger()
	build := func() (*arena.Arena, error) { return experiment.Build(cfg, log) }
	return viz.RunLive(name, build, hist)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tFRAMES\tPARTICLES\tCOLLISIONS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Particles,
			run.Collisions,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

var seriesCaptions = map[string]string{
	sim.SeriesKineticEnergy: "kinetic energy",
	sim.SeriesMeanSpeed:     "mean speed",
	sim.SeriesCollisions:    "collisions per frame",
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("frames: %d\n\n", meta.Frames)

	plotted := 0
	for _, name := range []string{sim.SeriesKineticEnergy, sim.SeriesMeanSpeed, sim.SeriesCollisions} {
		data := series[name]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(seriesCaptions[name]),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}
	if plotted == 0 {
		return fmt.Errorf("no data to plot")
	}

	return nil
}

func histRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	ps, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		return fmt.Errorf("run %s has no particles", runID)
	}

	h, err := analysis.NewHistogram(binWidth, bins)
	if err != nil {
		return err
	}
	h.Observe(ps)
	kT := analysis.Temperature(ps)

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("kT: %.4f  mean speed: %.4f\n\n", kT, analysis.MeanSpeed(ps))

	byTag := make(map[particle.Tag][]particle.Particle)
	for _, p := range ps {
		byTag[p.Tag()] = append(byTag[p.Tag()], p)
	}

	edges := h.Edges()
	for _, tag := range h.Tags() {
		group := byTag[tag]
		meanMass := 0.0
		for _, p := range group {
			meanMass += p.Mass()
		}
		meanMass /= float64(len(group))
		expected := analysis.ExpectedCounts(h, len(group), meanMass, kT)

		fmt.Printf("%s (%d particles, mass %.2f)\n", tag, len(group), meanMass)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SPEED\tCOUNT\tEXPECTED\t")
		for i, c := range h.Counts(tag) {
			fmt.Fprintf(w, "%.2f\t%d\t%.1f\t%s\n", edges[i], c, expected[i], strings.Repeat("#", c))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.Export(os.Stdout, args[0])
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := st.Export(f, args[0]); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if seriesName != "" {
		series, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		data, ok := series[seriesName]
		if !ok {
			return fmt.Errorf("unknown series: %s", seriesName)
		}
		svg = export.SeriesToSVG(data, svgWidth, svgWidth/2, "#00ff88")
	} else {
		ps, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		cfg := &config.Config{Arena: meta.Arena}
		svg = export.ArenaToSVG(experiment.Bounds(cfg), ps, svgWidth)
	}
	if svg == "" {
		return fmt.Errorf("nothing to render")
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tARENA\tFRAMES\tSPECIES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		species := make([]string, 0, len(cfg.Species))
		for _, s := range cfg.Species {
			species = append(species, fmt.Sprintf("%s x%d (m=%g r=%g)", s.Tag, s.Count, s.Mass, s.Radius))
		}
		fmt.Fprintf(w, "%s\t%gx%g\t%d\t%s\n", name, cfg.Arena.Width, cfg.Arena.Height, cfg.Frames, strings.Join(species, ", "))
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	counts := []int{50, 100, 200, 400}
	chunks := []int{0, 64}
	log := newLogger()

	fmt.Printf("benchmarking %d frames\n\n", benchFrameCount)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tPARALLEL\tTIME\tFRAMES/SEC\tCOLLISIONS")

	for _, n := range counts {
		for _, chunk := range chunks {
			cfg := config.DefaultConfig()
			cfg.Species[0].Count = n
			cfg.Species[0].Radius = 5
			cfg.Parallel = chunk
			cfg.Seed = 42

			a, err := experiment.Build(cfg, log)
			if err != nil {
				return err
			}

			collisions := 0
			start := time.Now()
			for i := 0; i < benchFrameCount; i++ {
				collisions += a.AdvanceOneFrame()
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%d\n",
				a.Len(), chunk, elapsed, float64(benchFrameCount)/elapsed.Seconds(), collisions)
		}
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()
	registry := experiment.NewRegistry()
	bounds := experiment.Bounds(cfg)

	build := func(s uint64) (*arena.Arena, error) {
		c := cfg.Clone()
		c.Seed = s
		return experiment.Build(c, log)
	}
	ens := sim.NewEnsemble(build, numRuns, cfg.Seed).
		WithLimit(limit).
		WithMetrics(func() []sim.Metric { return registry.DefaultMetrics(bounds) })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("ensemble %s: %d runs x %d frames\n\n", name, numRuns, cfg.Frames)
	start := time.Now()
	results, err := ens.Run(ctx, sim.Config{Frames: cfg.Frames, ValidateState: true})
	if err != nil {
		return err
	}

	names := registry.ListMetrics()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))
	columns := make(map[string][]float64)
	for i, r := range results {
		row := []string{fmt.Sprintf("%d", cfg.Seed+uint64(i))}
		for _, n := range names {
			v := r.Metrics[n]
			columns[n] = append(columns[n], v)
			row = append(row, fmt.Sprintf("%.4f", v))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	mean := []string{"mean"}
	std := []string{"stddev"}
	for _, n := range names {
		m, s := stat.MeanStdDev(columns[n], nil)
		mean = append(mean, fmt.Sprintf("%.4f", m))
		std = append(std, fmt.Sprintf("%.4f", s))
	}
	fmt.Fprintln(w, strings.Join(mean, "\t"))
	fmt.Fprintln(w, strings.Join(std, "\t"))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	log := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, runErr := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), log)

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tNAME\tFRAMES\tCOLLISIONS\tENERGY DRIFT\tRUN ID")
	for i, r := range results {
		runID := "-"
		if st != nil {
			if runID, err = st.Save(r.Name, r.Config, r.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.3e\t%s\n", i+1, r.Name, r.Result.Frames, r.Result.Collisions, r.Result.EnergyDrift, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}
	fmt.Printf("sweep %s over %s: %d points x %d frames\n\n", name, sweepParam, len(sweep.Values()), cfg.Frames)

	results, err := automation.RunSweep(ctx, sweep, newLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPARTICLES\tKT\tMEAN SPEED\tCOLLISIONS/FRAME\tENERGY DRIFT\n", strings.ToUpper(sweepParam))
	temps := make([]float64, 0, len(results))
	for _, r := range results {
		temps = append(temps, r.Temperature)
		fmt.Fprintf(w, "%.4g\t%d\t%.4f\t%.4f\t%.4f\t%.3e\n",
			r.ParamValue, r.Particles, r.Temperature, r.MeanSpeed, r.CollisionRate, r.EnergyDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(temps) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(temps, asciigraph.Height(8), asciigraph.Caption("kT vs "+sweepParam)))
	}
	return nil
}
