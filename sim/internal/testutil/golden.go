// Package testutil provides shared test infrastructure for the queue simulator.
// It consolidates golden dataset types and assertion helpers used across
// sim/ sub-packages and cmd/.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is a single-counter run driven entirely by finite schedules,
// so every expected value can be traced by hand.
type GoldenTestCase struct {
	Name             string             `json:"name"`
	ArrivalIntervals []float64          `json:"arrival_intervals"`
	ServiceDurations []float64          `json:"service_durations"`
	OnExhaust        string             `json:"on_exhaust"`
	Horizon          float64            `json:"horizon"`
	Completions      []GoldenCompletion `json:"completions"`
	Metrics          GoldenMetrics      `json:"metrics"`
}

// GoldenCompletion is one expected collector record, in completion order.
type GoldenCompletion struct {
	Arrival      float64 `json:"arrival"`
	ServiceStart float64 `json:"service_start"`
	Completion   float64 `json:"completion"`
}

// GoldenMetrics represents the expected run outcome.
type GoldenMetrics struct {
	StopReason  string  `json:"stop_reason"`
	EndTime     float64 `json:"end_time"`
	Completed   int     `json:"completed"`
	MeanSojourn float64 `json:"mean_sojourn"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
