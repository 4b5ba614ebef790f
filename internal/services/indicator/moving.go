package indicator

// SMA computes the simple moving average of values over period. Output is
// aligned with the input; indices before period-1 are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if err := checkInput(len(values), period, period); err != nil {
		return nil, err
	}
	out := nanSeries(len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// EMA computes the exponential moving average of values over period, seeded
// with the SMA of the first period values. Indices before period-1 are NaN.
func EMA(values []float64, period int) ([]float64, error) {
	if err := checkInput(len(values), period, period); err != nil {
		return nil, err
	}
	out := nanSeries(len(values))
	multiplier := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out[period-1] = sum / float64(period)

	for i := period; i < len(values); i++ {
		out[i] = values[i]*multiplier + out[i-1]*(1-multiplier)
	}
	return out, nil
}
