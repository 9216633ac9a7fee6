package domain

import "time"

// Source identifies which KMA feed an observation came from.
type Source string

const (
	SourceASOS Source = "asos"
	SourcePM10 Source = "pm10"
	SourceUV   Source = "uv"
)

// Sources lists all feeds in the order they are fused.
var Sources = []Source{SourceASOS, SourcePM10, SourceUV}

// ObservationRecord is the normalized per-source record shape shared by all
// three parsers. Value holds the raw token before numeric coercion; nil means
// the source reported nothing usable. UVA and EUV are populated only for the
// UV feed.
type ObservationRecord struct {
	StationID  string    `json:"station_id"`
	ObservedAt time.Time `json:"observed_at"`
	Category   Source    `json:"category"`
	Value      *string   `json:"value"`
	UVA        *string   `json:"uva_value,omitempty"`
	EUV        *string   `json:"euv_value,omitempty"`
	Unit       string    `json:"unit"`
	CreatedAt  time.Time `json:"created_at"`
	RawLine    string    `json:"raw_line"`
}

// FusedRecord is one row of the wide table: all sources merged on the
// (station, datetime) key. Nil fields mean no source provided a usable value.
type FusedRecord struct {
	StationID   string    `json:"station_id"`
	Datetime    time.Time `json:"datetime"`
	Temperature *float64  `json:"temperature"`
	PM10        *float64  `json:"pm10"`
	UVB         *float64  `json:"uv_uvb"`
	UVA         *float64  `json:"uv_uva"`
	EUV         *float64  `json:"uv_euv"`
}

// FeatureRecord is a FusedRecord extended with the engineered features and
// the composite comfort score.
//
// The binned features (TempCategory, PM10Grade) and the derived numerics
// (TempComfort) are nil when their source field is missing. The boolean
// threshold flags are plain bools and read false for missing inputs; temporal
// and station features are always populated.
type FeatureRecord struct {
	FusedRecord

	// Temporal.
	Hour          int    `json:"hour"`
	DayOfWeek     int    `json:"day_of_week"` // 0 = Monday
	Month         int    `json:"month"`
	IsRushHour    bool   `json:"is_rush_hour"`
	IsMorningRush bool   `json:"is_morning_rush"`
	IsEveningRush bool   `json:"is_evening_rush"`
	IsWeekday     bool   `json:"is_weekday"`
	IsWeekend     bool   `json:"is_weekend"`
	Season        string `json:"season"`

	// Temperature.
	TempCategory  *string  `json:"temp_category"`
	TempComfort   *float64 `json:"temp_comfort"`
	TempExtreme   bool     `json:"temp_extreme"`
	HeatingNeeded bool     `json:"heating_needed"`
	CoolingNeeded bool     `json:"cooling_needed"`

	// Station classification.
	IsMetroArea bool   `json:"is_metro_area"`
	IsCoastal   bool   `json:"is_coastal"`
	Region      string `json:"region"`

	// Air quality.
	PM10Grade         *string `json:"pm10_grade"`
	MaskNeeded        bool    `json:"mask_needed"`
	OutdoorActivityOK bool    `json:"outdoor_activity_ok"`

	// Ultraviolet.
	HasUV               bool `json:"has_uv"`
	SunProtectionNeeded bool `json:"sun_protection_needed"`

	// Composite.
	ComfortScore float64 `json:"comfort_score"`
}
