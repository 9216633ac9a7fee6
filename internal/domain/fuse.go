package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Fusion of the per-source record streams into one FusedRecord per
// (station, datetime) key.
//
// Sources are processed in a fixed order (asos, pm10, uv) and each source
// writes only the fields it is authoritative for, so a later source can fill
// gaps but never clears a field set by an earlier one. Numeric coercion
// failures become missing fields; the record itself is always kept.

type fuseKey struct {
	stationID string
	unixMin   int64
}

// Fuse merges the three parsed record streams into the sorted wide table.
// Records without a usable observation time carry no key and are dropped.
// The output is ordered by (datetime, station id) ascending; that ordering is
// part of the downstream contract.
func Fuse(asos, pm10, uv []ObservationRecord) []FusedRecord {
	index := make(map[fuseKey]*FusedRecord)
	order := make([]fuseKey, 0, len(asos)+len(pm10)+len(uv))

	lookup := func(rec ObservationRecord) *FusedRecord {
		if rec.ObservedAt.IsZero() {
			return nil
		}
		key := fuseKey{stationID: rec.StationID, unixMin: rec.ObservedAt.Unix()}
		row, ok := index[key]
		if !ok {
			row = &FusedRecord{StationID: rec.StationID, Datetime: rec.ObservedAt.UTC()}
			index[key] = row
			order = append(order, key)
		}
		return row
	}

	for _, rec := range asos {
		if row := lookup(rec); row != nil {
			row.Temperature = coerceTemperature(rec.Value)
		}
	}
	for _, rec := range pm10 {
		if row := lookup(rec); row != nil {
			row.PM10 = coerceFloat(rec.Value)
		}
	}
	for _, rec := range uv {
		if row := lookup(rec); row != nil {
			row.UVB = coerceFloat(rec.Value)
			row.UVA = coerceFloat(rec.UVA)
			row.EUV = coerceFloat(rec.EUV)
		}
	}

	fused := make([]FusedRecord, 0, len(order))
	for _, key := range order {
		fused = append(fused, *index[key])
	}
	sort.Slice(fused, func(i, j int) bool {
		if !fused[i].Datetime.Equal(fused[j].Datetime) {
			return fused[i].Datetime.Before(fused[j].Datetime)
		}
		return fused[i].StationID < fused[j].StationID
	})
	return fused
}

// coerceTemperature parses a ground-station temperature token. The token must
// be all digits after stripping sign and decimal point; anything else is
// missing.
func coerceTemperature(value *string) *float64 {
	if value == nil {
		return nil
	}
	stripped := strings.NewReplacer(".", "", "-", "").Replace(*value)
	if !isDigits(stripped) {
		return nil
	}
	return coerceFloat(value)
}

// coerceFloat parses a numeric token, treating parse failures as missing.
func coerceFloat(value *string) *float64 {
	if value == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*value), 64)
	if err != nil {
		return nil
	}
	return &v
}
