package indicator

// RSI computes the Wilder-smoothed relative strength index over period.
// Output is aligned with the input closes; the first defined value sits at
// index period (period price changes are needed).
//
// Flat input never divides by zero: when the average loss is exactly zero and
// the average gain is positive RSI is 100; when both are zero RSI is 50.
func RSI(closes []float64, period int) ([]float64, error) {
	if err := checkInput(len(closes), period, period+1); err != nil {
		return nil, err
	}
	out := nanSeries(len(closes))

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain > 0 {
			return 100
		}
		return 50
	}
	rsi := 100 - 100/(1+avgGain/avgLoss)
	if rsi < 0 {
		return 0
	}
	if rsi > 100 {
		return 100
	}
	return rsi
}

// MACD computes the MACD line (EMA(fast) - EMA(slow)), its signal line
// (EMA(signalPeriod) of the MACD line) and the histogram (line - signal).
func MACD(closes []float64, fast, slow, signalPeriod int) (line, signal, hist []float64, err error) {
	if fast >= slow {
		fast, slow = slow, fast
	}
	if err := checkInput(len(closes), signalPeriod, slow+signalPeriod-1); err != nil {
		return nil, nil, nil, err
	}
	emaFast, err := EMA(closes, fast)
	if err != nil {
		return nil, nil, nil, err
	}
	emaSlow, err := EMA(closes, slow)
	if err != nil {
		return nil, nil, nil, err
	}

	line = nanSeries(len(closes))
	for i := slow - 1; i < len(closes); i++ {
		line[i] = emaFast[i] - emaSlow[i]
	}

	// Signal line is an EMA over the defined portion of the MACD line.
	defined := line[slow-1:]
	sigDefined, err := EMA(defined, signalPeriod)
	if err != nil {
		return nil, nil, nil, err
	}
	signal = nanSeries(len(closes))
	copy(signal[slow-1:], sigDefined)

	hist = nanSeries(len(closes))
	for i := range closes {
		hist[i] = line[i] - signal[i] // NaN propagates where either is NaN
	}
	return line, signal, hist, nil
}
