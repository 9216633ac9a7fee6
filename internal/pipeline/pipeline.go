// Package pipeline orchestrates one fetch-parse-fuse-store cycle over the
// three upstream weather sources.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/domain"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/observability"
)

// ErrEmptyDataset is returned when a run produces zero fused rows. It is the
// only run-fatal condition; individual source failures degrade gracefully.
var ErrEmptyDataset = errors.New("no observation rows fused from any source")

// Fetcher retrieves raw text payloads from the upstream weather API.
type Fetcher interface {
	FetchASOS(ctx context.Context, target time.Time) (string, error)
	FetchPM10(ctx context.Context, from, to time.Time) (string, error)
	FetchUV(ctx context.Context, target time.Time) (string, error)
}

// ArtifactStore persists the raw, processed, and dataset artifacts of a run.
type ArtifactStore interface {
	SaveRaw(ctx context.Context, source domain.Source, raw string, ts time.Time) (string, error)
	SaveProcessed(ctx context.Context, source domain.Source, records []domain.ObservationRecord, ts time.Time) (string, error)
	SaveDataset(ctx context.Context, records []domain.FeatureRecord, ts time.Time) (string, error)
}

// Publisher pushes feature records to a downstream sink.
type Publisher interface {
	PublishFeatures(ctx context.Context, records []domain.FeatureRecord) error
}

// Pipeline wires a fetcher, an artifact store, and an optional publisher into
// the hourly ingestion cycle.
type Pipeline struct {
	fetcher   Fetcher
	store     ArtifactStore
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to disable downstream
// publishing.
func New(f Fetcher, s ArtifactStore, p Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   f,
		store:     s,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// successful run.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run executes one complete cycle for the given target hour: fetch all three
// sources, persist raw and processed artifacts, fuse, build features, write
// the dataset, and publish.
func (p *Pipeline) Run(ctx context.Context, target time.Time) error {
	start := time.Now()
	p.metrics.RunsTotal.Inc()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.logger.Info("pipeline run started", "target", target.Format(time.RFC3339))

	if err := p.run(ctx, target, start.UTC()); err != nil {
		p.metrics.RunFailures.Inc()
		p.logger.Error("pipeline run failed", "error", err)
		return err
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastRunUnixTime.SetToCurrentTime()
	p.ready.Store(true)
	p.logger.Info("pipeline run finished", "duration", time.Since(start))
	return nil
}

func (p *Pipeline) run(ctx context.Context, target, ranAt time.Time) error {
	payloads := p.fetchAll(ctx, target)

	parsed := make(map[domain.Source][]domain.ObservationRecord, len(domain.Sources))
	for _, source := range domain.Sources {
		raw := payloads[source]
		if raw != "" {
			p.saveRaw(ctx, source, raw, ranAt)
		}

		records := parseSource(source, raw, p.logger)
		p.metrics.RecordsParsed.WithLabelValues(string(source)).Add(float64(len(records)))
		if len(records) > 0 {
			p.saveProcessed(ctx, source, records, ranAt)
		}
		parsed[source] = records
	}

	fused := domain.Fuse(parsed[domain.SourceASOS], parsed[domain.SourcePM10], parsed[domain.SourceUV])
	p.metrics.FusedRows.Observe(float64(len(fused)))
	if len(fused) == 0 {
		return ErrEmptyDataset
	}

	features := domain.BuildFeatures(fused)
	p.metrics.DatasetRows.Observe(float64(len(features)))

	key, err := p.store.SaveDataset(ctx, features, ranAt)
	if err != nil {
		p.metrics.StorageErrors.WithLabelValues("dataset").Inc()
		return err
	}
	p.metrics.StorageWrites.WithLabelValues("dataset").Inc()
	p.logger.Info("feature dataset written", "key", key, "rows", len(features))

	if p.publisher != nil {
		if err := p.publisher.PublishFeatures(ctx, features); err != nil {
			p.logger.Error("publish feature records failed", "error", err)
		} else {
			p.metrics.RecordsPublished.Add(float64(len(features)))
		}
	}
	return nil
}

// fetchAll retrieves the three sources concurrently. A failed source is
// logged and yields an empty payload so the remaining sources still flow.
func (p *Pipeline) fetchAll(ctx context.Context, target time.Time) map[domain.Source]string {
	var mu sync.Mutex
	payloads := make(map[domain.Source]string, len(domain.Sources))

	fetch := func(source domain.Source, do func() (string, error)) {
		raw, err := do()
		if err != nil {
			p.metrics.FetchErrors.WithLabelValues(string(source)).Inc()
			p.logger.Error("fetch source failed", "source", source, "error", err)
			raw = ""
		}
		mu.Lock()
		payloads[source] = raw
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		fetch(domain.SourceASOS, func() (string, error) { return p.fetcher.FetchASOS(ctx, target) })
	}()
	go func() {
		defer wg.Done()
		fetch(domain.SourcePM10, func() (string, error) { return p.fetcher.FetchPM10(ctx, target, target) })
	}()
	go func() {
		defer wg.Done()
		fetch(domain.SourceUV, func() (string, error) { return p.fetcher.FetchUV(ctx, target) })
	}()
	wg.Wait()

	return payloads
}

// saveRaw persists the raw payload. Failures are logged but do not abort the
// run; the in-memory payload is still parsed.
func (p *Pipeline) saveRaw(ctx context.Context, source domain.Source, raw string, ranAt time.Time) {
	if _, err := p.store.SaveRaw(ctx, source, raw, ranAt); err != nil {
		p.metrics.StorageErrors.WithLabelValues("raw").Inc()
		p.logger.Error("save raw payload failed", "source", source, "error", err)
		return
	}
	p.metrics.StorageWrites.WithLabelValues("raw").Inc()
}

func (p *Pipeline) saveProcessed(ctx context.Context, source domain.Source, records []domain.ObservationRecord, ranAt time.Time) {
	if _, err := p.store.SaveProcessed(ctx, source, records, ranAt); err != nil {
		p.metrics.StorageErrors.WithLabelValues("processed").Inc()
		p.logger.Error("save processed records failed", "source", source, "error", err)
		return
	}
	p.metrics.StorageWrites.WithLabelValues("processed").Inc()
}

func parseSource(source domain.Source, raw string, logger *slog.Logger) []domain.ObservationRecord {
	switch source {
	case domain.SourcePM10:
		return domain.ParsePM10(raw, logger)
	case domain.SourceUV:
		return domain.ParseUV(raw, logger)
	default:
		return domain.ParseASOS(raw, logger)
	}
}
