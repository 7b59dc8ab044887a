package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gaslab/internal/config"
	"github.com/san-kum/gaslab/internal/export"
	"github.com/san-kum/gaslab/internal/gas"
	"github.com/san-kum/gaslab/internal/metrics"
	"github.com/san-kum/gaslab/internal/server"
	"github.com/san-kum/gaslab/internal/storage"
	"github.com/san-kum/gaslab/internal/tui"
)

var (
	dataDir  string
	dt       float64
	duration float64
	seed     int64

	heavyCount  int
	lightCount  int
	temperature float64
	boxWidth    float64
	collisions  bool
	holdMode    string
	divider     bool
	dividerX    float64
	lidOpening  float64

	configFile string
	preset     string

	addr       string
	frameRate  int
	observable string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gaslab",
		Short: "interactive kinetic gas chamber",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(gas.DefaultConfig())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gaslab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the observables",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive chamber view in the terminal",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream snapshots over websocket",
		RunE:  runServe,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's observables",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run observables to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and observables to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one observable as an SVG plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&observable, "observable", "temperature", "temperature, pressure or width")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run briefly and emit the final chamber state as SVG",
		RunE:  snapshotSVG,
	}
	addSimFlags(snapshotCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-14s heavy=%d light=%d T=%.0fK hold=%s\n",
					name, cfg.HeavyCount, cfg.LightCount, cfg.Temperature, cfg.Hold)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark stepping across population sizes",
		RunE:  benchSim,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, snapshotCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 0.2, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 200.0, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&heavyCount, "heavy", 100, "heavy particle target")
	cmd.Flags().IntVar(&lightCount, "light", 0, "light particle target")
	cmd.Flags().Float64Var(&temperature, "temp", gas.DefaultTemperature, "injection temperature")
	cmd.Flags().Float64Var(&boxWidth, "width", gas.DefaultWidth, "container width")
	cmd.Flags().BoolVar(&collisions, "collisions", true, "particle-particle collisions")
	cmd.Flags().StringVar(&holdMode, "hold", "nothing", "hold mode: nothing, volume, temperature, pressure-v, pressure-t")
	cmd.Flags().BoolVar(&divider, "divider", false, "start with a center divider")
	cmd.Flags().Float64Var(&dividerX, "divider-x", 0, "divider position (0 = center)")
	cmd.Flags().Float64Var(&lidOpening, "lid", 0, "lid opening half-width")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves preset, config file and flags into a simulation
// config. CLI flags override file values; the file overrides the preset.
func buildConfig(cmd *cobra.Command) (gas.Config, string, error) {
	label := "run"
	fileCfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return gas.Config{}, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		fileCfg = p
		label = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return gas.Config{}, "", fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		fileCfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		fileCfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") || fileCfg.Seed == 0 {
		fileCfg.Seed = seed
	}
	if cmd.Flags().Changed("heavy") {
		fileCfg.HeavyCount = heavyCount
	}
	if cmd.Flags().Changed("light") {
		fileCfg.LightCount = lightCount
	}
	if cmd.Flags().Changed("temp") {
		fileCfg.Temperature = temperature
	}
	if cmd.Flags().Changed("width") {
		fileCfg.Container.Width = boxWidth
	}
	if cmd.Flags().Changed("collisions") {
		fileCfg.Collisions = collisions
	}
	if cmd.Flags().Changed("hold") {
		fileCfg.Hold = holdMode
	}
	if cmd.Flags().Changed("divider") {
		fileCfg.Container.Divider = divider
	}
	if cmd.Flags().Changed("divider-x") {
		fileCfg.Container.DividerX = dividerX
	}
	if cmd.Flags().Changed("lid") {
		fileCfg.Container.LidHalfWidth = lidOpening
	}

	simCfg, err := fileCfg.ToSimConfig()
	if err != nil {
		return gas.Config{}, "", err
	}
	return simCfg, label, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, label, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := gas.New(cfg)
	if err != nil {
		return err
	}
	s.AddMetric(metrics.NewMeanTemperature())
	s.AddMetric(metrics.NewMeanPressure())
	s.AddMetric(metrics.NewCollisionRate())
	s.AddMetric(metrics.NewStability(cfg.InitialTemperature, 0.05))

	fmt.Printf("running %s...\n", label)
	start := time.Now()

	result, err := s.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(label, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("collisions: %d wall, %d pair\n", result.WallCollisions, result.PairCollisions)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, _, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	s, err := gas.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(s, addr, frameRate).Run(ctx)
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
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tDURATION\tHEAVY\tLIGHT\tT\tHOLD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%d\t%d\t%.0fK\t%s\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.HeavyCount,
			run.LightCount,
			run.Temperature,
			run.Hold,
		)
	}

	return w.Flush()
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
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	plots := []struct {
		caption string
		data    []float64
	}{
		{"temperature (K)", series.Temperature},
		{"pressure (kPa)", series.Pressure},
		{"container width", series.Widths},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	counts := make([]float64, len(series.HeavyCounts))
	for i := range series.HeavyCounts {
		counts[i] = float64(series.HeavyCounts[i] + series.LightCounts[i])
	}
	graph := asciigraph.Plot(counts,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("particle count"),
	)
	fmt.Println(graph)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "temperature", "pressure", "heavy", "light", "width"}); err != nil {
		return err
	}
	for i := range series.Times {
		row := []string{
			strconv.FormatFloat(series.Times[i], 'f', 6, 64),
			strconv.FormatFloat(series.Temperature[i], 'f', 6, 64),
			strconv.FormatFloat(series.Pressure[i], 'f', 6, 64),
			strconv.Itoa(series.HeavyCounts[i]),
			strconv.Itoa(series.LightCounts[i]),
			strconv.FormatFloat(series.Widths[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
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

	out := struct {
		Meta        *storage.RunMetadata `json:"meta"`
		Times       []float64            `json:"times"`
		Temperature []float64            `json:"temperature"`
		Pressure    []float64            `json:"pressure"`
		HeavyCounts []int                `json:"heavy_counts"`
		LightCounts []int                `json:"light_counts"`
		Widths      []float64            `json:"widths"`
	}{meta, series.Times, series.Temperature, series.Pressure,
		series.HeavyCounts, series.LightCounts, series.Widths}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	var data []float64
	var color string
	switch observable {
	case "temperature":
		data, color = series.Temperature, "#ff6644"
	case "pressure":
		data, color = series.Pressure, "#ffcc00"
	case "width":
		data, color = series.Widths, "#00ccff"
	default:
		return fmt.Errorf("unknown observable: %s", observable)
	}

	svg := export.SeriesToSVG(series.Times, data, 800, 400, color)
	if svg == "" {
		return fmt.Errorf("not enough data to plot")
	}
	fmt.Println(svg)
	return nil
}

func snapshotSVG(cmd *cobra.Command, args []string) error {
	cfg, _, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := gas.New(cfg)
	if err != nil {
		return err
	}
	if _, err := s.Run(context.Background()); err != nil {
		return err
	}

	fmt.Println(export.SnapshotToSVG(s.Snapshot(), 2.0))
	return nil
}

func benchSim(cmd *cobra.Command, args []string) error {
	counts := []int{100, 500, 2000}
	dts := []float64{0.1, 0.2, 0.5}

	fmt.Println("benchmarking")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		for _, stepSize := range dts {
			cfg := gas.DefaultConfig()
			cfg.Seed = 42
			cfg.Dt = stepSize
			cfg.Duration = 100
			cfg.HeavyCount = n

			s, err := gas.New(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := s.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%.2f\t%d\t%v\t%.0f\n",
				n, stepSize, result.StepsTaken, elapsed.Round(time.Millisecond), stepsPerSec)
		}
	}

	return w.Flush()
}
