package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// ErrNoData is returned whenever an aggregate would divide by an empty or
// all-zero denominator. Every function in this package reports it the same
// way instead of returning NaN or zero.
var ErrNoData = errors.New("no data")

// Total is one group key and its reduced value.
type Total struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// GroupSum sums val per key, keeping keys in order of first appearance.
func GroupSum[T any](rows []T, key func(T) string, val func(T) float64) []Total {
	sums := map[string]float64{}
	order := make([]string, 0)
	for _, row := range rows {
		k := key(row)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += val(row)
	}
	return lo.Map(order, func(k string, _ int) Total {
		return Total{Key: k, Value: sums[k]}
	})
}

// SortDesc orders totals by value, largest first. Ties keep their input order.
func SortDesc(totals []Total) []Total {
	out := append([]Total(nil), totals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// SortAsc orders totals by value, smallest first. Ties keep their input order.
func SortAsc(totals []Total) []Total {
	out := append([]Total(nil), totals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// SortKeys orders totals lexically by key.
func SortKeys(totals []Total) []Total {
	out := append([]Total(nil), totals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Top returns at most n totals from the head of the slice.
func Top(totals []Total, n int) []Total {
	if n >= 0 && len(totals) > n {
		return totals[:n]
	}
	return totals
}

// Keys and Values split totals into parallel slices.
func Keys(totals []Total) []string {
	return lo.Map(totals, func(t Total, _ int) string { return t.Key })
}

func Values(totals []Total) []float64 {
	return lo.Map(totals, func(t Total, _ int) float64 { return t.Value })
}

// Sum adds val over every row.
func Sum[T any](rows []T, val func(T) float64) float64 {
	return lo.SumBy(rows, val)
}

// Mean is the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoData
	}
	return lo.Sum(values) / float64(len(values)), nil
}

// WeightedMean computes sum(w_i*x_i)/sum(w_i).
func WeightedMean(values, weights []float64) (float64, error) {
	if len(values) != len(weights) {
		return 0, fmt.Errorf("weighted mean: %d values but %d weights", len(values), len(weights))
	}
	var num, den float64
	for i := range values {
		num += values[i] * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return 0, ErrNoData
	}
	return num / den, nil
}

// SampleStdDev is the n-1 standard deviation. Fewer than two samples yield zero.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := lo.Sum(values) / float64(len(values))
	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// QualityScore ranks a lead source by volume plus twice the spread of its
// per-row average ages. It is an unvalidated heuristic carried over from the
// original dashboards and should not be read as a statistical measure.
func QualityScore(totalUsers float64, avgAges []float64) float64 {
	return totalUsers + 2*SampleStdDev(avgAges)
}

// Percent returns part/total*100.
func Percent(part, total float64) (float64, error) {
	if total == 0 {
		return 0, ErrNoData
	}
	return part / total * 100, nil
}

// Ratio returns num/den.
func Ratio(num, den float64) (float64, error) {
	if den == 0 {
		return 0, ErrNoData
	}
	return num / den, nil
}

// FormatPercent renders part/total as "12.3%".
func FormatPercent(part, total float64) (string, error) {
	pct, err := Percent(part, total)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.1f%%", pct), nil
}

// FormatRatio renders num/den as "1.48x".
func FormatRatio(num, den float64) (string, error) {
	ratio, err := Ratio(num, den)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.2fx", ratio), nil
}

// ArgMax returns the index of the largest value; the first one wins ties.
func ArgMax(values []float64) (int, error) {
	if len(values) == 0 {
		return -1, ErrNoData
	}
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best, nil
}

func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}
