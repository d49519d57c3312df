package calculator

import "math"

// meanStd returns the mean and sample standard deviation (ddof=1) of
// values. ok is false when any value is NaN or there are fewer than two.
func meanStd(values []float64) (mean, std float64, ok bool) {
	if len(values) < 2 {
		return math.NaN(), math.NaN(), false
	}
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN(), math.NaN(), false
		}
		sum += v
	}
	mean = sum / float64(len(values))
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(values)-1)), true
}
