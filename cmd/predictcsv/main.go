// Command predictcsv scores a local CSV file with the same feature
// engineering, preprocessing and model as the HTTP service and writes the
// batch response JSON.
//
// Artifact locations default to the service's MODEL_PATH, MODEL_FORMAT and
// PREPROCESSOR_PATH settings; flags override them.
//
// Usage:
//
//	go run ./cmd/predictcsv -in data/covtype_sample.csv -out predictions.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/couchcryptid/forest-cover-service/internal/config"
	"github.com/couchcryptid/forest-cover-service/internal/domain"
	"github.com/couchcryptid/forest-cover-service/internal/inference"
	"github.com/couchcryptid/forest-cover-service/internal/model"
	"github.com/couchcryptid/forest-cover-service/internal/observability"
)

// exitInvalidInput is used when the CSV itself is rejected.
const exitInvalidInput = 2

func main() {
	if err := run(); err != nil {
		if inference.IsClientError(err) {
			fmt.Fprintln(os.Stderr, "predictcsv:", err)
			os.Exit(exitInvalidInput)
		}
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	in := flag.String("in", "", "CSV file to score (required)")
	out := flag.String("out", "", "output path for the JSON result (default stdout)")
	modelPath := flag.String("model", cfg.ModelPath, "model file")
	modelFormat := flag.String("format", cfg.ModelFormat, "model format: xgboost or lightgbm")
	preprocessorPath := flag.String("preprocessor", cfg.PreprocessorPath, "preprocessor JSON export")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return errors.New("missing required flag: -in")
	}

	// stdout may carry the result, so logs go to stderr.
	logger := observability.NewLoggerTo(os.Stderr, cfg)
	provider := model.Load(model.LoadOptions{
		ModelPath:        *modelPath,
		ModelFormat:      *modelFormat,
		PreprocessorPath: *preprocessorPath,
		Threads:          cfg.InferenceThreads,
	}, logger)
	svc := inference.New(provider, nil, logger, observability.NewMetrics())

	ctx := inference.WithRequestID(context.Background(), "predictcsv")
	if err := svc.CheckReadiness(ctx); err != nil {
		return err
	}

	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	frame, err := domain.ParseCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", *in, err)
	}
	result, err := svc.PredictBatch(ctx, frame)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		of, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer of.Close()
		w = of
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	log.Printf("%s: %d rows scored", *in, result.TotalRows)
	return nil
}
