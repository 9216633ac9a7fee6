package domain

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozenNow = time.Date(2025, 1, 1, 14, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeClock(t *testing.T) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(frozenNow))
	t.Cleanup(func() { SetClock(nil) })
}

func TestParseASOS(t *testing.T) {
	freezeClock(t)

	t.Run("single line", func(t *testing.T) {
		records := ParseASOS("202501011300 108 5.2", testLogger())

		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "108", rec.StationID)
		assert.Equal(t, time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC), rec.ObservedAt)
		assert.Equal(t, SourceASOS, rec.Category)
		require.NotNil(t, rec.Value)
		assert.Equal(t, "5.2", *rec.Value)
		assert.Equal(t, frozenNow, rec.CreatedAt)
	})

	t.Run("comments and blanks skipped", func(t *testing.T) {
		raw := "# START7777\n#  TM  STN  TA\n\n202501011300 108 5.2\n\n# END7777"
		records := ParseASOS(raw, testLogger())

		require.Len(t, records, 1)
		assert.Equal(t, "108", records[0].StationID)
	})

	t.Run("short line dropped, rest kept", func(t *testing.T) {
		raw := "202501011300 108\n202501011300 119 3.1"
		records := ParseASOS(raw, testLogger())

		require.Len(t, records, 1)
		assert.Equal(t, "119", records[0].StationID)
	})

	t.Run("only comments yields empty", func(t *testing.T) {
		records := ParseASOS("# header\n# trailer", testLogger())
		assert.Empty(t, records)
	})

	t.Run("empty payload yields empty", func(t *testing.T) {
		assert.Empty(t, ParseASOS("", testLogger()))
	})
}

func TestParsePM10(t *testing.T) {
	freezeClock(t)

	t.Run("numeric value", func(t *testing.T) {
		records := ParsePM10("202501011300,108,42", testLogger())

		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "108", rec.StationID)
		assert.Equal(t, SourcePM10, rec.Category)
		assert.Equal(t, "μg/m³", rec.Unit)
		require.NotNil(t, rec.Value)
		assert.Equal(t, "42", *rec.Value)
	})

	t.Run("non-numeric value becomes missing, record kept", func(t *testing.T) {
		records := ParsePM10("202501011300,108,abc", testLogger())

		require.Len(t, records, 1)
		assert.Nil(t, records[0].Value)
		assert.Equal(t, "108", records[0].StationID)
	})

	t.Run("negative value becomes missing", func(t *testing.T) {
		records := ParsePM10("202501011300,108,-5", testLogger())

		require.Len(t, records, 1)
		assert.Nil(t, records[0].Value)
	})

	t.Run("whitespace around fields trimmed", func(t *testing.T) {
		records := ParsePM10("202501011300, 108 , 42 ", testLogger())

		require.Len(t, records, 1)
		assert.Equal(t, "108", records[0].StationID)
		require.NotNil(t, records[0].Value)
		assert.Equal(t, "42", *records[0].Value)
	})

	t.Run("only comments yields empty", func(t *testing.T) {
		assert.Empty(t, ParsePM10("# header", testLogger()))
	})
}

func TestParseUV(t *testing.T) {
	freezeClock(t)

	t.Run("all readings present", func(t *testing.T) {
		records := ParseUV("202501011300 108 0.031 1.25 0.08", testLogger())

		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, "108", rec.StationID)
		assert.Equal(t, SourceUV, rec.Category)
		assert.Equal(t, "W/m²", rec.Unit)
		require.NotNil(t, rec.Value)
		assert.Equal(t, "0.031", *rec.Value)
		require.NotNil(t, rec.UVA)
		assert.Equal(t, "1.25", *rec.UVA)
		require.NotNil(t, rec.EUV)
		assert.Equal(t, "0.08", *rec.EUV)
	})

	t.Run("sentinel reading becomes missing", func(t *testing.T) {
		records := ParseUV("202501011300 108 -999.0 1.25 -999.0", testLogger())

		require.Len(t, records, 1)
		assert.Nil(t, records[0].Value)
		require.NotNil(t, records[0].UVA)
		assert.Nil(t, records[0].EUV)
	})

	t.Run("fewer than five tokens dropped", func(t *testing.T) {
		assert.Empty(t, ParseUV("202501011300 108 0.031 1.25", testLogger()))
	})

	t.Run("only blanks yields empty", func(t *testing.T) {
		assert.Empty(t, ParseUV("\n\n", testLogger()))
	})
}

func TestParseLineTime(t *testing.T) {
	freezeClock(t)

	tests := []struct {
		name     string
		token    string
		expected time.Time
	}{
		{"twelve digits", "202501011300", time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)},
		{"ten digits century-prefixed", "2501011300", time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)},
		{"wrong length falls back to now", "20250101", frozenNow},
		{"empty falls back to now", "", frozenNow},
		{"garbage of right length falls back to now", "2025010113xx", frozenNow},
		{"impossible month falls back to now", "202513011300", frozenNow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLineTime(tt.token))
		})
	}
}
