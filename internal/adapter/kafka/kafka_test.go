package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	at := time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)
	temp := 21.5
	record := domain.FeatureRecord{
		FusedRecord: domain.FusedRecord{
			StationID:   "108",
			Datetime:    at,
			Temperature: &temp,
		},
		Hour:         8,
		Season:       "summer",
		Region:       "central",
		ComfortScore: 70,
	}

	msg, err := serializeToMessage(record)
	require.NoError(t, err)

	assert.Equal(t, []byte("108|2025-06-16T08:00:00Z"), msg.Key)
	assert.Contains(t, string(msg.Value), `"station_id":"108"`)
	assert.Contains(t, string(msg.Value), `"comfort_score":70`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "station_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("108"), msg.Headers[0].Value)
	assert.Equal(t, "observed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(at.Format(time.RFC3339)), msg.Headers[1].Value)
}
