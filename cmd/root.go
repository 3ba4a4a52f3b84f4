package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/queue-sim/sim"
	"github.com/inference-sim/queue-sim/sim/report"
	"github.com/inference-sim/queue-sim/sim/scenario"
	"github.com/inference-sim/queue-sim/sim/trace"
)

var (
	// CLI flags for the run command
	scenarioPath string  // YAML scenario file
	presetName   string  // Built-in scenario, used when no file is given
	seed         int64   // Overrides the scenario seed when set
	horizon      float64 // Overrides the scenario stop time when set
	days         int     // Overrides the scenario length in days when set
	logLevel     string  // Log verbosity level
	outputPath   string  // Completion CSV path
	summaryPath  string  // Summary JSON path
	traceLevel   string  // Routing decision trace level
	replications int     // Independent replications
	workers      int     // Goroutines running replications
	rngName      string  // Overrides the scenario random stream family when set
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queue-sim",
	Short: "Discrete-event simulator for queueing networks",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a queueing network scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		spec, err := loadSpec(scenarioPath, presetName)
		if err != nil {
			logrus.Fatalf("Could not load scenario: %v", err)
		}
		applyOverrides(cmd, spec)

		startTime := time.Now()
		if replications > 1 {
			err = runReplications(spec, replications, workers, os.Stdout)
		} else {
			err = runOnce(spec, runOutputs{csv: outputPath, summary: summaryPath}, os.Stdout)
		}
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// loadSpec reads the scenario file when given, otherwise the named preset.
func loadSpec(path, preset string) (*scenario.Spec, error) {
	if path != "" {
		return scenario.Load(path)
	}
	return scenario.Preset(preset)
}

// applyOverrides copies explicitly set flags onto spec. Unset flags leave the
// scenario's own values alone.
func applyOverrides(cmd *cobra.Command, spec *scenario.Spec) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		logrus.Infof("CLI --seed %d overrides scenario seed %d", seed, spec.Seed)
		spec.Seed = seed
	}
	if flags.Changed("horizon") {
		spec.Horizon = horizon
	}
	if flags.Changed("days") {
		spec.Days = days
		if !flags.Changed("horizon") {
			spec.Horizon = 0
		}
	}
	if flags.Changed("trace") {
		spec.Trace = traceLevel
	}
	if flags.Changed("rng") {
		spec.RNG = rngName
	}
}

type runOutputs struct {
	csv     string
	summary string
}

// runOnce builds and runs spec, then writes the requested outputs.
// The human-readable summary always goes to stdout.
func runOnce(spec *scenario.Spec, out runOutputs, stdout io.Writer) error {
	n, err := scenario.Build(spec, scenario.Options{Log: logrus.StandardLogger()})
	if err != nil {
		return err
	}
	logrus.Infof("Starting simulation: %d buffers, %d servers, stop time %g, seed %d",
		len(n.Buffers), len(n.Servers), n.Horizon, spec.Seed)

	res, err := n.Run()
	if err != nil {
		return err
	}
	if c := n.Census(); !c.Balanced() {
		return fmt.Errorf("entity census does not balance: %s", c)
	}

	records := n.Collector.Records()
	summary := report.Summarize(records, res.EndTime, n.Servers)
	summary.Print(stdout)
	fmt.Fprintf(stdout, "Stopped              : %s after %d events\n", res.Reason, res.EventsDispatched)
	if n.Trace != nil {
		printTraceSummary(stdout, trace.Summarize(n.Trace))
	}

	if out.csv != "" {
		if err := report.WriteCSVFile(out.csv, records); err != nil {
			return err
		}
	}
	if out.summary != "" {
		if err := writeSummaryFile(out.summary, summary); err != nil {
			return err
		}
	}
	return nil
}

// runReplications runs n copies of spec with consecutive seeds and prints the spread of
// mean sojourn times.
func runReplications(spec *scenario.Spec, n, workers int, stdout io.Writer) error {
	reps, err := report.Replicate(n, workers, func(i int) (*sim.Network, error) {
		rep := *spec
		rep.Seed = spec.Seed + int64(i)
		return scenario.Build(&rep, scenario.Options{})
	})
	if err != nil {
		return err
	}
	for _, r := range reps {
		if r.Err != nil {
			return fmt.Errorf("replication %d: %w", r.Index, r.Err)
		}
	}
	fmt.Fprintf(stdout, "=== Replications (%d) ===\n", n)
	stats := report.MeanSojourn(reps)
	for _, name := range sortedKeys(stats) {
		st := stats[name]
		fmt.Fprintf(stdout, "[%s] mean sojourn %.4f ± %.4f (min %.4f, max %.4f, n=%d)\n",
			name, st.Mean, st.StdDev, st.Min, st.Max, st.N)
	}
	return nil
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Routing Trace ===")
	fmt.Fprintf(w, "Decisions            : %d (%d opened an idle buffer)\n", ts.TotalDecisions, ts.OpenedIdle)
	for _, target := range sortedKeys(ts.TargetDistribution) {
		fmt.Fprintf(w, "  %-18s : %d\n", target, ts.TargetDistribution[target])
	}
}

// sortedKeys returns the keys of m in lexical order for stable output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeSummaryFile(path string, s *report.Summary) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return s.WriteJSON(file)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file")
	runCmd.Flags().StringVar(&presetName, "preset", "lab", "Built-in scenario to run when --scenario is not given")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the random streams (overrides the scenario)")
	runCmd.Flags().Float64Var(&horizon, "horizon", 0, "Stop time in simulated minutes (overrides the scenario; 0 = until halted)")
	runCmd.Flags().IntVar(&days, "days", 1, "Simulated days of 1440 minutes (overrides the scenario)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&rngName, "rng", scenario.RNGPCG, "Random stream family (pcg, rngstream)")

	// Outputs
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write one CSV line per completed entity to this path")
	runCmd.Flags().StringVar(&summaryPath, "summary", "", "Write the summary statistics as JSON to this path")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Routing trace level (none, decisions)")

	// Replications
	runCmd.Flags().IntVar(&replications, "replications", 1, "Independent replications with consecutive seeds")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Goroutines running replications (0 = one per CPU)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
