package forecast

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Statistics summarizes a historical series.
type Statistics struct {
	Min    decimal.Decimal `json:"min" example:"1000.00"`
	Max    decimal.Decimal `json:"max" example:"1210.00"`
	Mean   decimal.Decimal `json:"mean" example:"1103.33"`
	Median decimal.Decimal `json:"median" example:"1100.00"`
	StdDev decimal.Decimal `json:"stdDev" example:"85.83"`
	Sum    decimal.Decimal `json:"sum" example:"3310.00"`
}

// Stats computes min, max, mean, median, population standard deviation and
// sum of a series. The zero Statistics value is returned for an empty
// series.
func Stats(series []Point) Statistics {
	if len(series) == 0 {
		return Statistics{}
	}

	n := decimal.NewFromInt(int64(len(series)))

	stats := Statistics{
		Min: series[0].Total,
		Max: series[0].Total,
		Sum: decimal.Zero,
	}

	sorted := make([]decimal.Decimal, 0, len(series))
	for _, p := range series {
		if p.Total.LessThan(stats.Min) {
			stats.Min = p.Total
		}
		if p.Total.GreaterThan(stats.Max) {
			stats.Max = p.Total
		}
		stats.Sum = stats.Sum.Add(p.Total)
		sorted = append(sorted, p.Total)
	}

	stats.Mean = stats.Sum.Div(n)

	slices.SortFunc(sorted, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	middle := len(sorted) / 2
	if len(sorted)%2 == 0 {
		// Even-length series average the two central values
		stats.Median = sorted[middle-1].Add(sorted[middle]).Div(decimal.NewFromInt(2))
	} else {
		stats.Median = sorted[middle]
	}

	// Population standard deviation. The square root forces a detour
	// through float64, the variance itself stays exact.
	variance := decimal.Zero
	for _, v := range sorted {
		diff := v.Sub(stats.Mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(n)

	f, _ := variance.Float64()
	stats.StdDev = decimal.NewFromFloat(math.Sqrt(f))

	return stats
}

// Seasonal reports whether the series shows monthly seasonality. It needs
// at least twelve data points. For each calendar month, the ratio of that
// month's average to the overall average forms a seasonal factor, and the
// series counts as seasonal when the variance of the twelve factors
// exceeds 0.01.
func Seasonal(series []Point) bool {
	if len(series) < 12 {
		return false
	}

	overall := decimal.Zero
	for _, p := range series {
		overall = overall.Add(p.Total)
	}
	overall = overall.Div(decimal.NewFromInt(int64(len(series))))

	if overall.IsZero() {
		return false
	}

	sums := make(map[int]decimal.Decimal)
	counts := make(map[int]int)
	for _, p := range series {
		month := int(p.Period.Month())
		sums[month] = sums[month].Add(p.Total)
		counts[month]++
	}

	factors := make([]float64, 0, 12)
	for month := 1; month <= 12; month++ {
		if counts[month] == 0 {
			continue
		}

		average := sums[month].Div(decimal.NewFromInt(int64(counts[month])))
		factor, _ := average.Div(overall).Float64()
		factors = append(factors, factor)
	}

	if len(factors) < 12 {
		return false
	}

	mean := 0.0
	for _, f := range factors {
		mean += f
	}
	mean /= float64(len(factors))

	variance := 0.0
	for _, f := range factors {
		variance += (f - mean) * (f - mean)
	}
	variance /= float64(len(factors))

	return variance > 0.01
}
