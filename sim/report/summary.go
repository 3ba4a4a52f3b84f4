package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/queue-sim/sim"
)

// Distribution summarizes one sample of durations.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	Max    float64 `json:"max"`
}

// TypeSummary aggregates the completed entities of one type.
type TypeSummary struct {
	Count   int          `json:"count"`
	Wait    Distribution `json:"wait"`
	Sojourn Distribution `json:"sojourn"`
}

// ServerSummary reports one server's load.
type ServerSummary struct {
	Name        string  `json:"name"`
	Served      int64   `json:"served"`
	BusyTime    float64 `json:"busy_time"`
	Utilisation float64 `json:"utilisation"`
}

// Summary aggregates a finished run for final reporting.
type Summary struct {
	Completed int                    `json:"completed"`
	EndTime   float64                `json:"end_time"`
	Types     map[string]TypeSummary `json:"types"` // keyed by entity type name
	Servers   []ServerSummary        `json:"servers"`
}

// Summarize computes per-type wait and sojourn statistics and per-server utilisation
// up to end, the simulation time the run stopped at.
func Summarize(records []sim.Record, end float64, servers []*sim.Server) *Summary {
	s := &Summary{
		Completed: len(records),
		EndTime:   end,
		Types:     make(map[string]TypeSummary),
	}

	waits := make(map[sim.EntityType][]float64)
	sojourns := make(map[sim.EntityType][]float64)
	for _, r := range records {
		waits[r.Type] = append(waits[r.Type], r.Wait())
		sojourns[r.Type] = append(sojourns[r.Type], r.Sojourn())
	}
	for typ, w := range waits {
		s.Types[typ.String()] = TypeSummary{
			Count:   len(w),
			Wait:    describe(w),
			Sojourn: describe(sojourns[typ]),
		}
	}

	for _, srv := range servers {
		busy := srv.BusyTime(end)
		ss := ServerSummary{Name: srv.Name(), Served: srv.Served(), BusyTime: busy}
		if end > 0 {
			ss.Utilisation = busy / end
		}
		s.Servers = append(s.Servers, ss)
	}
	return s
}

// describe sorts x in place.
func describe(x []float64) Distribution {
	if len(x) == 0 {
		return Distribution{}
	}
	sort.Float64s(x)
	d := Distribution{
		Mean: stat.Mean(x, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, x, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, x, nil),
		P99:  stat.Quantile(0.99, stat.Empirical, x, nil),
		Max:  floats.Max(x),
	}
	if len(x) > 1 {
		d.StdDev = stat.StdDev(x, nil)
	}
	return d
}

// Print displays the summary at the end of the simulation.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Completed Entities   : %d\n", s.Completed)
	fmt.Fprintf(w, "End Time             : %.4f\n", s.EndTime)
	for _, name := range s.typeNames() {
		ts := s.Types[name]
		fmt.Fprintf(w, "[%s] count=%d\n", name, ts.Count)
		fmt.Fprintf(w, "  Average Wait       : %.4f (p90 %.4f, p99 %.4f)\n", ts.Wait.Mean, ts.Wait.P90, ts.Wait.P99)
		fmt.Fprintf(w, "  Average Sojourn    : %.4f (p90 %.4f, p99 %.4f)\n", ts.Sojourn.Mean, ts.Sojourn.P90, ts.Sojourn.P99)
	}
	for _, ss := range s.Servers {
		fmt.Fprintf(w, "%-20s : served %d, utilisation %.2f%%\n", ss.Name, ss.Served, 100*ss.Utilisation)
	}
}

// WriteJSON writes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func (s *Summary) typeNames() []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
