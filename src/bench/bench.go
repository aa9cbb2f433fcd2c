// Package bench times the settlement engine over a participant-count sweep
// without altering its behavior. Timing happens strictly outside the core
// invocation boundary.
package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"auction-engine/src/auction"
	"auction-engine/src/scenario"
)

// Result is one size's measurement, shaped for the downstream analysis
// tooling.
type Result struct {
	ParticipantCount int     `json:"participant_count"`
	Repetitions      int     `json:"repetitions"`
	SettleP50Ms      float64 `json:"settle_p50_ms"`
	SettleP99Ms      float64 `json:"settle_p99_ms"`
	NsPerParticipant float64 `json:"ns_per_participant"`
	ClearingPrice    uint64  `json:"clearing_price"`
	ClearedQuantity  uint64  `json:"cleared_quantity"`
	JournalSizeBytes int     `json:"journal_size_bytes"`
	JournalDigest    string  `json:"journal_digest"`
}

// Runner sweeps participant counts, settling a generated scenario
// Repetitions times per size.
type Runner struct {
	Sizes       []int
	Repetitions int
	Seed        int64
}

// Run executes the sweep. Each repetition settles the identical scenario,
// so it doubles as a determinism check: every repetition must produce the
// same journal digest.
func (r *Runner) Run() ([]Result, error) {
	reps := r.Repetitions
	if reps <= 0 {
		reps = 1
	}

	results := make([]Result, 0, len(r.Sizes))

	for _, n := range r.Sizes {
		s := scenario.Generate(n, r.Seed)
		participants := s.EngineParticipants()

		durations := make([]time.Duration, 0, reps)
		var outcome *auction.Outcome
		var digest string

		for rep := 0; rep < reps; rep++ {
			start := time.Now()
			out, err := auction.Run(participants, nil)
			elapsed := time.Since(start)
			if err != nil {
				return nil, fmt.Errorf("bench N=%d rep=%d: %w", n, rep, err)
			}

			d := out.Journal.Digest()
			if digest == "" {
				digest = d
			} else if d != digest {
				return nil, fmt.Errorf("bench N=%d rep=%d: journal digest diverged", n, rep)
			}

			outcome = out
			durations = append(durations, elapsed)
		}

		p50, p99 := percentiles(durations)
		results = append(results, Result{
			ParticipantCount: n,
			Repetitions:      reps,
			SettleP50Ms:      p50,
			SettleP99Ms:      p99,
			NsPerParticipant: float64(median(durations).Nanoseconds()) / float64(n),
			ClearingPrice:    outcome.Result.Price,
			ClearedQuantity:  outcome.Result.Cleared,
			JournalSizeBytes: len(outcome.Journal.Encode()),
			JournalDigest:    digest,
		})
	}

	return results, nil
}

// WriteSummary writes the sweep results for offline analysis.
func WriteSummary(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode benchmark summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write benchmark summary %s: %w", path, err)
	}
	return nil
}

func percentiles(durations []time.Duration) (p50, p99 float64) {
	if len(durations) == 0 {
		return 0, 0
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	p50Index := int(float64(len(sorted)) * 0.50)
	p99Index := int(float64(len(sorted)) * 0.99)
	if p50Index >= len(sorted) {
		p50Index = len(sorted) - 1
	}
	if p99Index >= len(sorted) {
		p99Index = len(sorted) - 1
	}

	p50 = float64(sorted[p50Index].Nanoseconds()) / 1e6
	p99 = float64(sorted[p99Index].Nanoseconds()) / 1e6
	return p50, p99
}

func median(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}
