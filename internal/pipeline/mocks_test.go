package pipeline

import (
	"context"
	"time"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/domain"
)

// mockFetcher returns canned payloads per source, or an error when set.
type mockFetcher struct {
	asos, pm10, uv          string
	asosErr, pm10Err, uvErr error
}

func (m *mockFetcher) FetchASOS(_ context.Context, _ time.Time) (string, error) {
	return m.asos, m.asosErr
}

func (m *mockFetcher) FetchPM10(_ context.Context, _, _ time.Time) (string, error) {
	return m.pm10, m.pm10Err
}

func (m *mockFetcher) FetchUV(_ context.Context, _ time.Time) (string, error) {
	return m.uv, m.uvErr
}

// mockStore records every artifact save in memory.
type mockStore struct {
	raw        map[domain.Source]string
	processed  map[domain.Source][]domain.ObservationRecord
	dataset    []domain.FeatureRecord
	datasetErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		raw:       make(map[domain.Source]string),
		processed: make(map[domain.Source][]domain.ObservationRecord),
	}
}

func (m *mockStore) SaveRaw(_ context.Context, source domain.Source, raw string, _ time.Time) (string, error) {
	m.raw[source] = raw
	return "raw/" + string(source), nil
}

func (m *mockStore) SaveProcessed(_ context.Context, source domain.Source, records []domain.ObservationRecord, _ time.Time) (string, error) {
	m.processed[source] = records
	return "processed/" + string(source), nil
}

func (m *mockStore) SaveDataset(_ context.Context, records []domain.FeatureRecord, _ time.Time) (string, error) {
	if m.datasetErr != nil {
		return "", m.datasetErr
	}
	m.dataset = records
	return "ml_dataset/dataset.parquet", nil
}

// mockPublisher records published batches, or fails when err is set.
type mockPublisher struct {
	published []domain.FeatureRecord
	err       error
}

func (m *mockPublisher) PublishFeatures(_ context.Context, records []domain.FeatureRecord) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, records...)
	return nil
}
