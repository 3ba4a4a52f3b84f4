package report

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/queue-sim/sim"
)

// BuildFunc assembles the network for replication i. Each call must return an
// independent network with its own scheduler and random streams.
type BuildFunc func(i int) (*sim.Network, error)

// Replication is the outcome of one independent run.
type Replication struct {
	Index   int
	Result  sim.RunResult
	Summary *Summary
	Err     error
}

// ReplicationStats aggregates one metric across replications.
type ReplicationStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	N      int     `json:"n"`
}

// Replicate builds n networks in index order, then runs them on up to workers goroutines.
// Networks are built sequentially because stream providers may share process-wide state;
// each network then runs on its own goroutine and shares nothing with the others.
// workers <= 0 uses one goroutine per CPU.
func Replicate(n, workers int, build BuildFunc) ([]Replication, error) {
	if n < 1 {
		return nil, fmt.Errorf("replications must be at least 1, got %d", n)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	networks := make([]*sim.Network, n)
	for i := range networks {
		net, err := build(i)
		if err != nil {
			return nil, fmt.Errorf("building replication %d: %w", i, err)
		}
		networks[i] = net
	}

	out := make([]Replication, n)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers && w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = runOne(i, networks[i])
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out, nil
}

func runOne(i int, n *sim.Network) Replication {
	res, err := n.Run()
	if err != nil {
		return Replication{Index: i, Err: err}
	}
	return Replication{
		Index:   i,
		Result:  res,
		Summary: Summarize(n.Collector.Records(), res.EndTime, n.Servers),
	}
}

// MeanSojourn aggregates the per-replication mean sojourn time of each entity type.
// Failed replications and replications without completions of a type are skipped.
func MeanSojourn(reps []Replication) map[string]ReplicationStats {
	samples := make(map[string][]float64)
	for _, r := range reps {
		if r.Err != nil || r.Summary == nil {
			continue
		}
		for name, ts := range r.Summary.Types {
			samples[name] = append(samples[name], ts.Sojourn.Mean)
		}
	}
	out := make(map[string]ReplicationStats, len(samples))
	for name, x := range samples {
		sort.Float64s(x)
		rs := ReplicationStats{Mean: stat.Mean(x, nil), Min: x[0], Max: x[len(x)-1], N: len(x)}
		if len(x) > 1 {
			rs.StdDev = stat.StdDev(x, nil)
		}
		out[name] = rs
	}
	return out
}
