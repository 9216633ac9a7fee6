// Package dataset encodes the feature table to and from the parquet format
// used for the ml_dataset artifacts.
package dataset

import (
	"fmt"
	"time"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/domain"
)

// featureRow is the parquet schema for one feature record. Optional columns
// are pointers; datetime is milliseconds since the epoch, UTC.
type featureRow struct {
	StationID string   `parquet:"name=station_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Datetime  int64    `parquet:"name=datetime, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Temp      *float64 `parquet:"name=temperature, type=DOUBLE, repetitiontype=OPTIONAL"`
	PM10      *float64 `parquet:"name=pm10, type=DOUBLE, repetitiontype=OPTIONAL"`
	UVB       *float64 `parquet:"name=uv_uvb, type=DOUBLE, repetitiontype=OPTIONAL"`
	UVA       *float64 `parquet:"name=uv_uva, type=DOUBLE, repetitiontype=OPTIONAL"`
	EUV       *float64 `parquet:"name=uv_euv, type=DOUBLE, repetitiontype=OPTIONAL"`

	Hour          int32  `parquet:"name=hour, type=INT32"`
	DayOfWeek     int32  `parquet:"name=day_of_week, type=INT32"`
	Month         int32  `parquet:"name=month, type=INT32"`
	IsRushHour    bool   `parquet:"name=is_rush_hour, type=BOOLEAN"`
	IsMorningRush bool   `parquet:"name=is_morning_rush, type=BOOLEAN"`
	IsEveningRush bool   `parquet:"name=is_evening_rush, type=BOOLEAN"`
	IsWeekday     bool   `parquet:"name=is_weekday, type=BOOLEAN"`
	IsWeekend     bool   `parquet:"name=is_weekend, type=BOOLEAN"`
	Season        string `parquet:"name=season, type=BYTE_ARRAY, convertedtype=UTF8"`

	TempCategory  *string  `parquet:"name=temp_category, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	TempComfort   *float64 `parquet:"name=temp_comfort, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempExtreme   bool     `parquet:"name=temp_extreme, type=BOOLEAN"`
	HeatingNeeded bool     `parquet:"name=heating_needed, type=BOOLEAN"`
	CoolingNeeded bool     `parquet:"name=cooling_needed, type=BOOLEAN"`

	IsMetroArea bool   `parquet:"name=is_metro_area, type=BOOLEAN"`
	IsCoastal   bool   `parquet:"name=is_coastal, type=BOOLEAN"`
	Region      string `parquet:"name=region, type=BYTE_ARRAY, convertedtype=UTF8"`

	PM10Grade         *string `parquet:"name=pm10_grade, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	MaskNeeded        bool    `parquet:"name=mask_needed, type=BOOLEAN"`
	OutdoorActivityOK bool    `parquet:"name=outdoor_activity_ok, type=BOOLEAN"`

	HasUV               bool `parquet:"name=has_uv, type=BOOLEAN"`
	SunProtectionNeeded bool `parquet:"name=sun_protection_needed, type=BOOLEAN"`

	ComfortScore float64 `parquet:"name=comfort_score, type=DOUBLE"`
}

// Marshal encodes feature records into an in-memory parquet file.
func Marshal(records []domain.FeatureRecord) ([]byte, error) {
	fw := buffer.NewBufferFile()

	pw, err := writer.NewParquetWriter(fw, new(featureRow), 1)
	if err != nil {
		return nil, fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range records {
		if err := pw.Write(toRow(&records[i])); err != nil {
			return nil, fmt.Errorf("write parquet row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finalize parquet file: %w", err)
	}
	return fw.Bytes(), nil
}

// Unmarshal decodes a parquet file back into feature records.
func Unmarshal(data []byte) ([]domain.FeatureRecord, error) {
	fr := buffer.NewBufferFileFromBytes(data)

	pr, err := reader.NewParquetReader(fr, new(featureRow), 1)
	if err != nil {
		return nil, fmt.Errorf("create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]featureRow, pr.GetNumRows())
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}

	records := make([]domain.FeatureRecord, 0, len(rows))
	for i := range rows {
		records = append(records, fromRow(&rows[i]))
	}
	return records, nil
}

func toRow(f *domain.FeatureRecord) *featureRow {
	return &featureRow{
		StationID: f.StationID,
		Datetime:  f.Datetime.UTC().UnixMilli(),
		Temp:      f.Temperature,
		PM10:      f.PM10,
		UVB:       f.UVB,
		UVA:       f.UVA,
		EUV:       f.EUV,

		Hour:          int32(f.Hour),
		DayOfWeek:     int32(f.DayOfWeek),
		Month:         int32(f.Month),
		IsRushHour:    f.IsRushHour,
		IsMorningRush: f.IsMorningRush,
		IsEveningRush: f.IsEveningRush,
		IsWeekday:     f.IsWeekday,
		IsWeekend:     f.IsWeekend,
		Season:        f.Season,

		TempCategory:  f.TempCategory,
		TempComfort:   f.TempComfort,
		TempExtreme:   f.TempExtreme,
		HeatingNeeded: f.HeatingNeeded,
		CoolingNeeded: f.CoolingNeeded,

		IsMetroArea: f.IsMetroArea,
		IsCoastal:   f.IsCoastal,
		Region:      f.Region,

		PM10Grade:         f.PM10Grade,
		MaskNeeded:        f.MaskNeeded,
		OutdoorActivityOK: f.OutdoorActivityOK,

		HasUV:               f.HasUV,
		SunProtectionNeeded: f.SunProtectionNeeded,

		ComfortScore: f.ComfortScore,
	}
}

func fromRow(r *featureRow) domain.FeatureRecord {
	return domain.FeatureRecord{
		FusedRecord: domain.FusedRecord{
			StationID:   r.StationID,
			Datetime:    time.UnixMilli(r.Datetime).UTC(),
			Temperature: r.Temp,
			PM10:        r.PM10,
			UVB:         r.UVB,
			UVA:         r.UVA,
			EUV:         r.EUV,
		},

		Hour:          int(r.Hour),
		DayOfWeek:     int(r.DayOfWeek),
		Month:         int(r.Month),
		IsRushHour:    r.IsRushHour,
		IsMorningRush: r.IsMorningRush,
		IsEveningRush: r.IsEveningRush,
		IsWeekday:     r.IsWeekday,
		IsWeekend:     r.IsWeekend,
		Season:        r.Season,

		TempCategory:  r.TempCategory,
		TempComfort:   r.TempComfort,
		TempExtreme:   r.TempExtreme,
		HeatingNeeded: r.HeatingNeeded,
		CoolingNeeded: r.CoolingNeeded,

		IsMetroArea: r.IsMetroArea,
		IsCoastal:   r.IsCoastal,
		Region:      r.Region,

		PM10Grade:         r.PM10Grade,
		MaskNeeded:        r.MaskNeeded,
		OutdoorActivityOK: r.OutdoorActivityOK,

		HasUV:               r.HasUV,
		SunProtectionNeeded: r.SunProtectionNeeded,

		ComfortScore: r.ComfortScore,
	}
}
