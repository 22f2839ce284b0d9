// Package forecast projects future monthly revenue from a historical
// series. It offers several estimation methods plus summary statistics so
// that a human can judge how much to trust the projection.
package forecast

import (
	"errors"
	"fmt"

	"github.com/finbooks/backend/internal/types"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptySeries    = errors.New("the series contains no data points")
	ErrInvalidHorizon = errors.New("the forecast horizon must be at least one period")
	ErrUnknownMethod  = errors.New("unknown forecast method")
)

// Method selects the estimation algorithm.
type Method string

const (
	// MethodSimple is a plain moving average over the most recent points,
	// without any trend.
	MethodSimple Method = "simple"
	// MethodWeighted is a moving average with linearly increasing weights
	// by recency, compounded with the average period-over-period growth.
	MethodWeighted Method = "weighted"
	// MethodExponential is exponential smoothing with a factor of 0.3,
	// compounded with a half-dampened growth rate.
	MethodExponential Method = "exponential"
	// MethodLinear is a linear regression over the series index positions,
	// extrapolated directly.
	MethodLinear Method = "linear"
)

// Valid reports whether the method is one of the known methods.
func (m Method) Valid() bool {
	switch m {
	case MethodSimple, MethodWeighted, MethodExponential, MethodLinear:
		return true
	}
	return false
}

// Point is one period of the historical series.
type Point struct {
	Period types.Month     `json:"period" example:"2024-01"`
	Total  decimal.Decimal `json:"total" example:"1000.00"`
}

// Estimate is one projected future period.
type Estimate struct {
	Period types.Month     `json:"period" example:"2024-04"`
	Value  decimal.Decimal `json:"value" example:"1331.00"`
	Method Method          `json:"method" example:"exponential"`
}

// Result is the forecast output: the projected periods plus the statistics
// and seasonality assessment of the historical series.
type Result struct {
	Estimates  []Estimate      `json:"estimates"`
	Stats      Statistics      `json:"stats"`
	GrowthRate decimal.Decimal `json:"growthRate" example:"0.1"`
	Seasonal   bool            `json:"seasonal" example:"false"`
}

// window is the number of recent points the moving averages consider.
const window = 3

// smoothingFactor is the alpha of the exponential smoothing method.
var smoothingFactor = decimal.NewFromFloat(0.3)

// Forecast projects the given number of future periods from an ordered
// monthly series. Individual predictions are floored at zero, revenue
// cannot be negative.
func Forecast(series []Point, periods int, method Method) (Result, error) {
	if len(series) == 0 {
		return Result{}, ErrEmptySeries
	}
	if periods < 1 {
		return Result{}, ErrInvalidHorizon
	}
	if !method.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	growth := GrowthRate(series)

	result := Result{
		Estimates:  make([]Estimate, 0, periods),
		Stats:      Stats(series),
		GrowthRate: growth,
		Seasonal:   Seasonal(series),
	}

	one := decimal.NewFromInt(1)
	last := series[len(series)-1].Period

	var predict func(step int) decimal.Decimal
	switch method {
	case MethodSimple:
		base := SimpleMovingAverage(series)
		predict = func(int) decimal.Decimal { return base }

	case MethodWeighted:
		base := WeightedMovingAverage(series)
		factor := one.Add(growth)
		predict = func(step int) decimal.Decimal {
			return base.Mul(factor.Pow(decimal.NewFromInt(int64(step))))
		}

	case MethodExponential:
		base := ExponentialSmoothing(series)
		damped := one.Add(growth.Div(decimal.NewFromInt(2)))
		predict = func(step int) decimal.Decimal {
			return base.Mul(damped.Pow(decimal.NewFromInt(int64(step))))
		}

	case MethodLinear:
		slope, intercept := LinearRegression(series)
		predict = func(step int) decimal.Decimal {
			// The series index keeps growing into the forecast horizon
			x := decimal.NewFromInt(int64(len(series) - 1 + step))
			return slope.Mul(x).Add(intercept)
		}
	}

	for step := 1; step <= periods; step++ {
		value := predict(step)
		if value.IsNegative() {
			value = decimal.Zero
		}

		result.Estimates = append(result.Estimates, Estimate{
			Period: last.AddDate(0, step),
			Value:  value.Round(2),
			Method: method,
		})
	}

	return result, nil
}

// SimpleMovingAverage returns the mean of the last min(3, n) points.
func SimpleMovingAverage(series []Point) decimal.Decimal {
	recent := tail(series)

	sum := decimal.Zero
	for _, p := range recent {
		sum = sum.Add(p.Total)
	}

	return sum.Div(decimal.NewFromInt(int64(len(recent))))
}

// WeightedMovingAverage returns the average of the last min(3, n) points
// with linearly increasing weights, the most recent point weighing most.
func WeightedMovingAverage(series []Point) decimal.Decimal {
	recent := tail(series)

	sum, weights := decimal.Zero, decimal.Zero
	for i, p := range recent {
		weight := decimal.NewFromInt(int64(i + 1))
		sum = sum.Add(p.Total.Mul(weight))
		weights = weights.Add(weight)
	}

	return sum.Div(weights)
}

// ExponentialSmoothing folds the whole series into a single smoothed value
// with s = alpha*x + (1-alpha)*s, seeded with the first point.
func ExponentialSmoothing(series []Point) decimal.Decimal {
	one := decimal.NewFromInt(1)

	smoothed := series[0].Total
	for _, p := range series[1:] {
		smoothed = smoothingFactor.Mul(p.Total).Add(one.Sub(smoothingFactor).Mul(smoothed))
	}

	return smoothed
}

// LinearRegression fits totals against their index positions by ordinary
// least squares and returns slope and intercept.
func LinearRegression(series []Point) (slope, intercept decimal.Decimal) {
	n := decimal.NewFromInt(int64(len(series)))

	sumX, sumY, sumXY, sumXX := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i, p := range series {
		x := decimal.NewFromInt(int64(i))
		sumX = sumX.Add(x)
		sumY = sumY.Add(p.Total)
		sumXY = sumXY.Add(x.Mul(p.Total))
		sumXX = sumXX.Add(x.Mul(x))
	}

	denominator := n.Mul(sumXX).Sub(sumX.Mul(sumX))
	if denominator.IsZero() {
		// A single point has no trend
		return decimal.Zero, series[0].Total
	}

	slope = n.Mul(sumXY).Sub(sumX.Mul(sumY)).Div(denominator)
	intercept = sumY.Sub(slope.Mul(sumX)).Div(n)
	return slope, intercept
}

// GrowthRate returns the mean of the period-over-period relative changes.
// Periods whose prior value is zero are skipped, there is no meaningful
// relative change from zero.
func GrowthRate(series []Point) decimal.Decimal {
	sum, count := decimal.Zero, 0

	for i := 1; i < len(series); i++ {
		prior := series[i-1].Total
		if prior.IsZero() {
			continue
		}

		change := series[i].Total.Sub(prior).Div(prior)
		sum = sum.Add(change)
		count++
	}

	if count == 0 {
		return decimal.Zero
	}

	return sum.Div(decimal.NewFromInt(int64(count)))
}

// tail returns the last min(3, n) points of the series.
func tail(series []Point) []Point {
	if len(series) <= window {
		return series
	}
	return series[len(series)-window:]
}
