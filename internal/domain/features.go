package domain

import (
	"math"
	"time"
)

// Engineered features for the commute comfort dataset. Every feature is a
// pure function of its own row; binned features stay nil when the source
// numeric is missing, while temporal and station features are always set.

// Station code lookup tables (KMA surface observation network).
var (
	metroStations = map[string]bool{
		"100": true, "101": true, "102": true, "104": true, "105": true,
		"108": true, "112": true, "119": true, "129": true, "133": true,
	}
	coastalStations = map[string]bool{
		"102": true, "104": true, "115": true, "130": true, "131": true,
		"152": true, "156": true, "159": true, "168": true,
	}
)

// Rush hour sets and threshold constants.
const (
	comfortTemp          = 20.0
	heatingThreshold     = 10.0
	coolingThreshold     = 25.0
	maskThreshold        = 50.0
	outdoorThreshold     = 80.0
	sunProtectThreshold  = 0.02
	extremeColdThreshold = 0.0
	extremeHotThreshold  = 30.0
)

// BuildFeatures derives the full feature row for every fused record. It is
// total: no row is ever dropped and no input combination fails.
func BuildFeatures(fused []FusedRecord) []FeatureRecord {
	features := make([]FeatureRecord, 0, len(fused))
	for _, row := range fused {
		features = append(features, buildFeatureRow(row))
	}
	return features
}

func buildFeatureRow(row FusedRecord) FeatureRecord {
	f := FeatureRecord{FusedRecord: row}

	f.Hour = row.Datetime.Hour()
	f.DayOfWeek = mondayIndexed(row.Datetime.Weekday())
	f.Month = int(row.Datetime.Month())

	f.IsMorningRush = f.Hour >= 7 && f.Hour <= 9
	f.IsEveningRush = f.Hour >= 18 && f.Hour <= 20
	f.IsRushHour = f.IsMorningRush || f.IsEveningRush
	f.IsWeekday = f.DayOfWeek < 5
	f.IsWeekend = !f.IsWeekday
	f.Season = season(f.Month)

	if t := row.Temperature; t != nil {
		f.TempCategory = strPtr(tempCategory(*t))
		comfort := comfortTemp - math.Abs(*t-comfortTemp)
		f.TempComfort = &comfort
		f.TempExtreme = *t < extremeColdThreshold || *t > extremeHotThreshold
		f.HeatingNeeded = *t < heatingThreshold
		f.CoolingNeeded = *t > coolingThreshold
	}

	f.IsMetroArea = metroStations[row.StationID]
	f.IsCoastal = coastalStations[row.StationID]
	f.Region = region(row.StationID)

	if p := row.PM10; p != nil {
		if grade := pm10Grade(*p); grade != "" {
			f.PM10Grade = strPtr(grade)
		}
		f.MaskNeeded = *p > maskThreshold
		f.OutdoorActivityOK = *p <= outdoorThreshold
	}

	if uvb := row.UVB; uvb != nil {
		f.HasUV = *uvb > 0
		f.SunProtectionNeeded = *uvb > sunProtectThreshold
	}

	f.ComfortScore = ComfortScore(f)
	return f
}

// mondayIndexed converts Go's Sunday-based weekday to the 0=Monday convention
// used by the dataset.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func season(month int) string {
	switch month {
	case 12, 1, 2:
		return "winter"
	case 3, 4, 5:
		return "spring"
	case 6, 7, 8:
		return "summer"
	default:
		return "autumn"
	}
}

// tempCategory bins temperature into five bands, upper bound inclusive.
func tempCategory(t float64) string {
	switch {
	case t <= 0:
		return "very_cold"
	case t <= 10:
		return "cold"
	case t <= 20:
		return "mild"
	case t <= 30:
		return "warm"
	default:
		return "hot"
	}
}

// pm10Grade bins PM10 per the environment-ministry scale. The scale starts
// above zero, so non-positive readings have no grade.
func pm10Grade(p float64) string {
	switch {
	case p <= 0:
		return ""
	case p <= 30:
		return "good"
	case p <= 80:
		return "moderate"
	case p <= 150:
		return "unhealthy"
	default:
		return "very_unhealthy"
	}
}

// region buckets a station by the leading digit of its code.
func region(stationID string) string {
	if stationID == "" {
		return "other"
	}
	switch stationID[0] {
	case '1':
		return "central"
	case '2':
		return "south"
	case '3':
		return "east"
	case '9':
		return "west"
	default:
		return "other"
	}
}
