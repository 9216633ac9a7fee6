// Package domain models KMA (Korea Meteorological Administration) surface
// observations and the commute-comfort feature set derived from them.
//
// # Data Sources
//
// The pipeline pulls three hourly feeds from the KMA API hub:
//
//	asos  — ground-station surface observations (temperature), whitespace-
//	        delimited lines of (timestamp, station, value, ...).
//	pm10  — particulate concentration in μg/m³, comma-delimited lines of
//	        (timestamp, station, value, ...). Values are non-negative
//	        integers; anything else is unmeasured.
//	uv    — ultraviolet readings in W/m², whitespace-delimited lines of
//	        (timestamp, station, UVB, UVA, erythemal UV, ...).
//
// Payloads are plain text with "#"-prefixed comment headers.
//
// # Timestamp Format
//
//	YYYYMMDDHHMM, e.g. "202501011300" = 2025-01-01 13:00 UTC.
//	Ten-digit values omit the century and are prefixed with "20".
//	Any other shape falls back to the current time rather than dropping the
//	record — the feeds occasionally truncate the column and the reading is
//	still worth keeping.
//
// # Missing Values
//
// The UV feed uses -999.0 as its "no reading" sentinel. All sentinels,
// non-numeric tokens, and absent columns normalize to nil optionals; every
// downstream step treats nil as a first-class value, not an error path.
//
// # Fusion
//
// Records merge into one row per (station id, observation hour). Sources are
// applied in the order asos, pm10, uv; each writes only its own columns
// (asos → temperature, pm10 → pm10, uv → uvb/uva/euv), so later sources never
// clear earlier fields. Rows sort by (datetime, station id) — downstream
// consumers rely on that ordering.
//
// # Station Codes
//
// Three-digit KMA station codes. The leading digit buckets the region
// (1xx central, 2xx south, 3xx east, 9xx west); fixed lookup tables flag the
// metro-area and coastal stations.
//
// # Comfort Score
//
// A bounded 0–100 composite: baseline 50, blended with a temperature
// sub-score (50% weight) and then a PM10 sub-score (30% weight), adjusted
// for rush hour (-10), weekends (+5), and extreme temperatures (-20).
// See [ComfortScore].
package domain
