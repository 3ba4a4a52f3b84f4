package trace

import "strings"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions     int
	UniqueTargets      int
	OpenedIdle         int            // decisions that opened an idle buffer
	TargetDistribution map[string]int // buffer name → count of entities routed
	ReasonDistribution map[string]int // reason prefix → count
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[string]int),
		ReasonDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Routings)
	for _, r := range st.Routings {
		summary.TargetDistribution[r.Target]++
		kind := reasonKind(r.Reason)
		summary.ReasonDistribution[kind]++
		if kind == "open-idle" {
			summary.OpenedIdle++
		}
	}
	summary.UniqueTargets = len(summary.TargetDistribution)

	return summary
}

// reasonKind strips the parenthesized detail from a decision reason.
func reasonKind(reason string) string {
	if i := strings.Index(reason, " ("); i >= 0 {
		return reason[:i]
	}
	return reason
}
