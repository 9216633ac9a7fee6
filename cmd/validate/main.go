// Command validate checks the most recent feature dataset in the artifact
// store: it must exist, decode from parquet, and contain at least one row
// with a comfort score in range. It also prints the store inventory. A
// non-zero exit means the last pipeline run did not leave the store in a
// usable state.
//
// Usage:
//
//	go run ./cmd/validate
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/adapter/s3"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/config"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}
	logger := observability.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := s3.NewStore(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: connect to artifact store: %v\n", err)
		return 1
	}
	ws := s3.NewWeatherStore(store, logger)

	fmt.Println("=== Feature Dataset Validation ===")
	fmt.Println()

	key, records, err := ws.LoadLatestDataset(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: load latest dataset: %v\n", err)
		return 1
	}

	fmt.Printf("  dataset:  %s\n", key)
	fmt.Printf("  rows:     %d\n", len(records))

	var errs []string
	if len(records) == 0 {
		errs = append(errs, "dataset is empty")
	}
	for i, r := range records {
		if r.StationID == "" {
			errs = append(errs, fmt.Sprintf("row %d: empty station id", i))
		}
		if r.Datetime.IsZero() {
			errs = append(errs, fmt.Sprintf("row %d: zero datetime", i))
		}
		if r.ComfortScore < 0 || r.ComfortScore > 100 {
			errs = append(errs, fmt.Sprintf("row %d: comfort score %g out of [0,100]", i, r.ComfortScore))
		}
	}

	inv, err := ws.Inventory(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: inventory: %v\n", err)
		return 1
	}

	fmt.Println()
	fmt.Printf("  raw artifacts:       %d\n", inv.RawData)
	fmt.Printf("  processed artifacts: %d\n", inv.ProcessedData)
	fmt.Printf("  feature datasets:    %d\n", inv.MLDatasets)
	fmt.Printf("  total objects:       %d\n", inv.Total)

	if len(errs) > 0 {
		fmt.Println()
		for i, e := range errs {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		fmt.Println("\nValidation FAILED.")
		return 1
	}

	fmt.Println("\nAll validations passed.")
	return 0
}
