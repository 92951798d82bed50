package rlwe

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// NoiseStats aggregates the centered residuals returned by [Decryptor.Residual].
type NoiseStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Median float64
	MaxAbs int64
}

// NewNoiseStats computes the statistics of the given residuals.
// An error is returned if residuals is empty.
func NewNoiseStats(residuals []int64) (ns NoiseStats, err error) {

	data := make(stats.Float64Data, len(residuals))
	for i, r := range residuals {
		data[i] = float64(r)
		if a := int64(math.Abs(float64(r))); a > ns.MaxAbs {
			ns.MaxAbs = a
		}
	}

	if ns.Mean, err = stats.Mean(data); err != nil {
		return NoiseStats{}, fmt.Errorf("cannot NewNoiseStats: %w", err)
	}

	if ns.StdDev, err = stats.StandardDeviation(data); err != nil {
		return NoiseStats{}, fmt.Errorf("cannot NewNoiseStats: %w", err)
	}

	if ns.Median, err = stats.Median(data); err != nil {
		return NoiseStats{}, fmt.Errorf("cannot NewNoiseStats: %w", err)
	}

	ns.Count = len(residuals)

	return
}

// Exact returns true if all the residuals were zero, i.e. if the corresponding
// messages were recovered exactly.
func (ns NoiseStats) Exact() bool {
	return ns.MaxAbs == 0
}

func (ns NoiseStats) String() string {
	return fmt.Sprintf("count=%d mean=%.4f std=%.4f median=%.1f max|e|=%d", ns.Count, ns.Mean, ns.StdDev, ns.Median, ns.MaxAbs)
}
