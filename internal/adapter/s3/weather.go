package s3

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/dataset"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/domain"
)

// Key layout. The partition scheme is a published contract; downstream
// consumers key off these exact prefixes, and the HHMMSS suffix sorts
// lexicographically in chronological order.
const (
	prefixRaw       = "raw/"
	prefixProcessed = "processed/"
	prefixDataset   = "ml_dataset/"

	datasetSuffix = ".parquet"
)

// ObjectStore is the subset of Store the weather handler needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// WeatherStore persists raw payloads, normalized records, and feature
// datasets under the partitioned key scheme.
type WeatherStore struct {
	store  ObjectStore
	logger *slog.Logger
}

// NewWeatherStore wraps an object store with the weather-data key layout.
func NewWeatherStore(store ObjectStore, logger *slog.Logger) *WeatherStore {
	return &WeatherStore{store: store, logger: logger}
}

// Inventory reports object counts per artifact kind.
type Inventory struct {
	RawData       int `json:"raw_data"`
	ProcessedData int `json:"processed_data"`
	MLDatasets    int `json:"ml_datasets"`
	Total         int `json:"total"`
}

// SaveRaw stores an unmodified upstream payload.
func (w *WeatherStore) SaveRaw(ctx context.Context, source domain.Source, raw string, ts time.Time) (string, error) {
	key, err := w.store.Put(ctx, rawKey(source, ts), []byte(raw), "text/plain")
	if err != nil {
		return "", err
	}
	w.logger.Info("raw payload stored", "source", source, "key", key, "bytes", len(raw))
	return key, nil
}

// SaveProcessed stores a source's normalized records as a JSON array.
func (w *WeatherStore) SaveProcessed(ctx context.Context, source domain.Source, records []domain.ObservationRecord, ts time.Time) (string, error) {
	body, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal %s records: %w", source, err)
	}
	key, err := w.store.Put(ctx, processedKey(source, ts), body, "application/json")
	if err != nil {
		return "", err
	}
	w.logger.Info("processed records stored", "source", source, "key", key, "records", len(records))
	return key, nil
}

// SaveDataset stores the feature table as a parquet object.
func (w *WeatherStore) SaveDataset(ctx context.Context, records []domain.FeatureRecord, ts time.Time) (string, error) {
	body, err := dataset.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode dataset: %w", err)
	}
	key, err := w.store.Put(ctx, datasetKey(ts), body, "application/octet-stream")
	if err != nil {
		return "", err
	}
	w.logger.Info("feature dataset stored", "key", key, "rows", len(records))
	return key, nil
}

// LoadLatestDataset fetches and decodes the most recent feature dataset.
// "Latest" is the lexicographically maximal parquet key, which matches
// chronological order because of the timestamp-derived key suffix.
func (w *WeatherStore) LoadLatestDataset(ctx context.Context) (string, []domain.FeatureRecord, error) {
	keys, err := w.store.List(ctx, prefixDataset)
	if err != nil {
		return "", nil, err
	}

	parquetKeys := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, datasetSuffix) {
			parquetKeys = append(parquetKeys, k)
		}
	}
	if len(parquetKeys) == 0 {
		return "", nil, fmt.Errorf("no feature dataset found under %q", prefixDataset)
	}
	sort.Strings(parquetKeys)
	latest := parquetKeys[len(parquetKeys)-1]

	body, err := w.store.Get(ctx, latest)
	if err != nil {
		return "", nil, err
	}
	records, err := dataset.Unmarshal(body)
	if err != nil {
		return "", nil, fmt.Errorf("decode dataset %q: %w", latest, err)
	}
	return latest, records, nil
}

// Inventory counts stored objects per top-level prefix.
func (w *WeatherStore) Inventory(ctx context.Context) (Inventory, error) {
	var inv Inventory
	counts := []struct {
		prefix string
		out    *int
	}{
		{prefixRaw, &inv.RawData},
		{prefixProcessed, &inv.ProcessedData},
		{prefixDataset, &inv.MLDatasets},
		{"", &inv.Total},
	}
	for _, c := range counts {
		keys, err := w.store.List(ctx, c.prefix)
		if err != nil {
			return Inventory{}, err
		}
		*c.out = len(keys)
	}
	return inv, nil
}

func rawKey(source domain.Source, ts time.Time) string {
	return fmt.Sprintf("%s%s/%s/%s.txt", prefixRaw, source, datePartition(ts), timeSuffix(ts))
}

func processedKey(source domain.Source, ts time.Time) string {
	return fmt.Sprintf("%s%s/%s/%s.json", prefixProcessed, source, datePartition(ts), timeSuffix(ts))
}

func datasetKey(ts time.Time) string {
	return fmt.Sprintf("%s%s/dataset_%s%s", prefixDataset, datePartition(ts), timeSuffix(ts), datasetSuffix)
}

func datePartition(ts time.Time) string {
	return ts.UTC().Format("2006/01/02")
}

func timeSuffix(ts time.Time) string {
	return ts.UTC().Format("150405")
}
