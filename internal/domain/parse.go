package domain

import (
	"log/slog"
	"strings"
	"time"
)

// Parsing of the three raw KMA text formats into ObservationRecords.
//
// All three parsers share the same leniency policy: comment and blank lines
// are skipped, lines with too few tokens are dropped, and a timestamp token
// that is not 12 or 10 digits falls back to the current time instead of
// rejecting the record. A wholly unparsable payload yields an empty slice,
// never an error.

const (
	commentPrefix = "#"
	unitPM10      = "μg/m³"
	unitUV        = "W/m²"

	// uvMissing is the upstream sentinel for "no reading" in the UV feed.
	uvMissing = "-999.0"
)

// ParseASOS parses the ground-station (ASOS) feed: whitespace-delimited lines
// of at least (timestamp, station id, temperature).
func ParseASOS(raw string, logger *slog.Logger) []ObservationRecord {
	records := make([]ObservationRecord, 0)
	for _, line := range dataLines(raw) {
		parts := strings.Fields(line)
		if len(parts) < 3 {
			logger.Debug("dropping short asos line", "tokens", len(parts))
			continue
		}
		records = append(records, ObservationRecord{
			StationID:  parts[1],
			ObservedAt: parseLineTime(parts[0]),
			Category:   SourceASOS,
			Value:      strPtr(parts[2]),
			Unit:       "",
			CreatedAt:  clock.Now().UTC(),
			RawLine:    line,
		})
	}
	logger.Info("parsed asos payload", "records", len(records))
	return records
}

// ParsePM10 parses the particulate feed: comma-delimited lines of at least
// (timestamp, station id, pm10). The value is kept only when it is a
// non-negative integer string; anything else becomes missing.
func ParsePM10(raw string, logger *slog.Logger) []ObservationRecord {
	records := make([]ObservationRecord, 0)
	for _, line := range dataLines(raw) {
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			logger.Debug("dropping short pm10 line", "tokens", len(parts))
			continue
		}
		var value *string
		if v := strings.TrimSpace(parts[2]); isDigits(v) {
			value = &v
		}
		records = append(records, ObservationRecord{
			StationID:  strings.TrimSpace(parts[1]),
			ObservedAt: parseLineTime(strings.TrimSpace(parts[0])),
			Category:   SourcePM10,
			Value:      value,
			Unit:       unitPM10,
			CreatedAt:  clock.Now().UTC(),
			RawLine:    line,
		})
	}
	logger.Info("parsed pm10 payload", "records", len(records))
	return records
}

// ParseUV parses the ultraviolet feed: whitespace-delimited lines of at least
// (timestamp, station id, UVB, UVA, erythemal UV). The -999.0 sentinel in any
// of the three readings is normalized to missing.
func ParseUV(raw string, logger *slog.Logger) []ObservationRecord {
	records := make([]ObservationRecord, 0)
	for _, line := range dataLines(raw) {
		parts := strings.Fields(line)
		if len(parts) < 5 {
			logger.Debug("dropping short uv line", "tokens", len(parts))
			continue
		}
		records = append(records, ObservationRecord{
			StationID:  parts[1],
			ObservedAt: parseLineTime(parts[0]),
			Category:   SourceUV,
			Value:      uvReading(parts[2]),
			UVA:        uvReading(parts[3]),
			EUV:        uvReading(parts[4]),
			Unit:       unitUV,
			CreatedAt:  clock.Now().UTC(),
			RawLine:    line,
		})
	}
	logger.Info("parsed uv payload", "records", len(records))
	return records
}

// dataLines splits a payload into lines, dropping comments and blanks.
func dataLines(raw string) []string {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, commentPrefix) || strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseLineTime parses a KMA line timestamp: 12 digits (YYYYMMDDHHMM) or
// 10 digits (YYMMDDHHMM, century-prefixed with "20"). Any other shape falls
// back to the current time.
func parseLineTime(token string) time.Time {
	switch len(token) {
	case 12:
		// keep as-is
	case 10:
		token = "20" + token
	default:
		return clock.Now().UTC()
	}
	t, err := time.ParseInLocation("200601021504", token, time.UTC)
	if err != nil {
		return clock.Now().UTC()
	}
	return t
}

// uvReading keeps a UV token unless it is the missing sentinel.
func uvReading(token string) *string {
	if token == uvMissing {
		return nil
	}
	return strPtr(token)
}

// isDigits reports whether s is a non-empty string of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func strPtr(s string) *string { return &s }
