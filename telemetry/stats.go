// Package telemetry aggregates per-generation statistics of an
// evolution run and writes them to structured output.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rlucine/creature-evolution/creature"
)

// GenerationStats holds aggregated statistics for one generation.
type GenerationStats struct {
	Generation int     `csv:"generation"`
	Best       float64 `csv:"best"`
	Mean       float64 `csv:"mean"`
	Median     float64 `csv:"median"`
	Worst      float64 `csv:"worst"`
	StdDev     float64 `csv:"stddev"`

	// Body plan drift across the population
	MeanNodes   float64 `csv:"mean_nodes"`
	MeanMuscles float64 `csv:"mean_muscles"`

	DurationSec float64 `csv:"duration_sec"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Float64("best", s.Best),
		slog.Float64("mean", s.Mean),
		slog.Float64("median", s.Median),
		slog.Float64("worst", s.Worst),
		slog.Float64("stddev", s.StdDev),
		slog.Float64("mean_nodes", s.MeanNodes),
		slog.Float64("mean_muscles", s.MeanMuscles),
		slog.Float64("duration_sec", s.DurationSec),
	)
}

// Log emits the stats at info level.
func (s GenerationStats) Log() {
	slog.Info("generation complete", "stats", s)
}

// Collector turns raw population scores into GenerationStats. The
// scratch buffer is reused, so a run of any length allocates once.
type Collector struct {
	scratch []float64
}

func NewCollector(capacity int) *Collector {
	return &Collector{scratch: make([]float64, 0, capacity)}
}

// Collect aggregates one generation. Scores follow the walk-fitness
// sign convention of the engine, where lower is better; they are
// negated here so the reported numbers read as walk distance.
func (c *Collector) Collect(generation int, scores []float64, pop func(i int) *creature.Creature, elapsed time.Duration) GenerationStats {
	c.scratch = c.scratch[:0]
	for _, s := range scores {
		c.scratch = append(c.scratch, -s)
	}
	sort.Float64s(c.scratch)

	mean, std := stat.MeanStdDev(c.scratch, nil)
	stats := GenerationStats{
		Generation:  generation,
		Best:        c.scratch[len(c.scratch)-1],
		Worst:       c.scratch[0],
		Mean:        mean,
		Median:      stat.Quantile(0.5, stat.Empirical, c.scratch, nil),
		StdDev:      std,
		DurationSec: elapsed.Seconds(),
	}

	var nodes, muscles float64
	for i := range scores {
		ent := pop(i)
		nodes += float64(ent.NNodes)
		muscles += float64(ent.NMuscles)
	}
	stats.MeanNodes = nodes / float64(len(scores))
	stats.MeanMuscles = muscles / float64(len(scores))
	return stats
}
