package domain

// ComfortScore computes the composite commute comfort score in [0, 100].
// It is defined for every row: with no weather inputs at all the score is the
// neutral baseline of 50.
//
// The two blend steps are sequential and order-dependent. Temperature blends
// first at half weight, then PM10 blends into the result at 30% weight;
// swapping them changes the output, so the order is fixed.
func ComfortScore(f FeatureRecord) float64 {
	score := 50.0

	if f.Temperature != nil {
		score = score*0.5 + tempSubScore(*f.Temperature)*0.5
	}
	if f.PM10 != nil {
		score = score*0.7 + pm10SubScore(*f.PM10)*0.3
	}

	if f.IsRushHour {
		score -= 10
	}
	if f.IsWeekend {
		score += 5
	}
	if f.TempExtreme {
		score -= 20
	}

	return clamp(score, 0, 100)
}

// tempSubScore maps temperature to a sub-score via fixed comfort bands.
func tempSubScore(t float64) float64 {
	switch {
	case t >= 15 && t <= 22:
		return 90
	case t >= 10 && t <= 25:
		return 70
	case t >= 5 && t <= 30:
		return 50
	case t >= 0 && t <= 35:
		return 20
	default:
		return 10
	}
}

// pm10SubScore maps PM10 concentration to a sub-score via fixed air-quality bands.
func pm10SubScore(p float64) float64 {
	switch {
	case p <= 15:
		return 90
	case p <= 35:
		return 70
	case p <= 75:
		return 50
	case p <= 150:
		return 30
	default:
		return 10
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
