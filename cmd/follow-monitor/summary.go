package main

import (
	"fmt"
	"sort"

	"github.com/teslashibe/go-follow/pkg/follow"
	"gonum.org/v1/gonum/stat"
)

// maxSamples bounds the latency window kept for the exit summary.
const maxSamples = 10000

// summary accumulates per-cycle telemetry for a closing report.
type summary struct {
	cycles    int
	drives    int
	latencyMS []float64
	causes    map[follow.Cause]int
}

func newSummary() *summary {
	return &summary{causes: make(map[follow.Cause]int)}
}

func (s *summary) add(c follow.Cycle) {
	s.cycles++
	if c.Command.IsStop() {
		s.causes[c.Command.Cause]++
	} else {
		s.drives++
	}
	if len(s.latencyMS) < maxSamples {
		s.latencyMS = append(s.latencyMS, float64(c.Latency.Microseconds())/1000)
	}
}

func (s *summary) String() string {
	if s.cycles == 0 {
		return "no cycles received"
	}

	sorted := append([]float64(nil), s.latencyMS...)
	sort.Float64s(sorted)
	mean := stat.Mean(sorted, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, sorted, nil)

	out := fmt.Sprintf("%d cycles, %.0f%% driving, latency mean %.1fms p95 %.1fms",
		s.cycles, 100*float64(s.drives)/float64(s.cycles), mean, p95)

	causes := make([]follow.Cause, 0, len(s.causes))
	for c := range s.causes {
		causes = append(causes, c)
	}
	sort.Slice(causes, func(i, j int) bool { return causes[i] < causes[j] })
	for _, c := range causes {
		out += fmt.Sprintf("\n  stop %-22s %d", c.String(), s.causes[c])
	}
	return out
}
