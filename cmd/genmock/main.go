// Command genmock generates synthetic terrain observations as mock fixtures
// for exercising the prediction API: a CSV for POST /predict/batch and a
// JSON body for POST /predict. Values are drawn from the ranges seen in the
// Roosevelt National Forest survey data. It runs the real feature engineer
// over the rows so the printed stats match what the service computes.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -rows 500 -seed 7 \
//	  -csv-out data/mock/covtype_mock.csv \
//	  -json-out data/mock/predict_request.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rows := flag.Int("rows", 100, "number of observations to generate")
	seed := flag.Uint64("seed", 1, "random seed for reproducible fixtures")
	label := flag.Bool("label", true, "include a Cover_Type column, which the service drops")
	csvOut := flag.String("csv-out", "", "output path for the batch CSV fixture")
	jsonOut := flag.String("json-out", "", "output path for the single-prediction JSON body")
	flag.Parse()

	if *csvOut == "" || *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -json-out")
	}
	if *rows <= 0 {
		return fmt.Errorf("-rows must be positive, got %d", *rows)
	}

	obs := generate(*rows, *seed)

	if err := writeCSV(*csvOut, obs, *label, *seed); err != nil {
		return fmt.Errorf("writing CSV fixture: %w", err)
	}
	log.Printf("wrote CSV fixture: %s (%d rows)", *csvOut, len(obs))

	if err := writeJSON(*jsonOut, requestBody(obs[0])); err != nil {
		return fmt.Errorf("writing JSON fixture: %w", err)
	}
	log.Printf("wrote JSON fixture: %s", *jsonOut)

	return printStats(obs)
}

// generate draws n observations with exactly one wilderness area and one
// soil type set.
func generate(n int, seed uint64) []domain.Observation {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	obs := make([]domain.Observation, n)
	for i := range obs {
		o := &obs[i]
		o.Elevation = float64(1859 + r.IntN(2000))
		o.Aspect = float64(r.IntN(361))
		o.Slope = float64(r.IntN(53))
		o.HorizontalDistanceToHydrology = float64(r.IntN(1398))
		o.VerticalDistanceToHydrology = float64(r.IntN(775) - 173)
		o.HorizontalDistanceToRoadways = float64(r.IntN(7118))
		o.HorizontalDistanceToFire = float64(r.IntN(7174))
		o.Hillshade9am = float64(r.IntN(256))
		o.HillshadeNoon = float64(r.IntN(256))
		o.Hillshade3pm = float64(r.IntN(256))
		o.Wilderness[r.IntN(domain.NumWildernessAreas)] = 1
		o.Soil[r.IntN(domain.NumSoilTypes)] = 1
	}
	return obs
}

func writeCSV(path string, obs []domain.Observation, label bool, seed uint64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := domain.RawColumns
	if label {
		header = append(header[:len(header):len(header)], domain.ColCoverType)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	r := rand.New(rand.NewPCG(seed, 1))
	for _, o := range obs {
		rec := make([]string, 0, len(header))
		for _, v := range o.Row() {
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if label {
			rec = append(rec, strconv.Itoa(1+r.IntN(domain.NumCoverTypes)))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// requestBody renders an observation as the flat JSON object POST /predict
// accepts. Indicators that are 0 are omitted since the API defaults them.
func requestBody(o domain.Observation) map[string]any {
	body := make(map[string]any, len(domain.NumericColumns)+2)
	row := o.Row()
	for i, col := range domain.RawColumns {
		if i >= len(domain.NumericColumns) && row[i] == 0 {
			continue
		}
		body[col] = row[i]
	}
	return body
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats reports engineered-feature ranges for eyeballing fixtures.
func printStats(obs []domain.Observation) error {
	engineered, err := domain.EngineerFeatures(domain.NewFrame(obs...))
	if err != nil {
		return fmt.Errorf("engineer features: %w", err)
	}

	fmt.Println("\n=== Engineered feature ranges ===")
	for _, col := range domain.EngineeredColumns {
		vals, _ := engineered.Column(col)
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range vals {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		fmt.Printf("%-32s min=%10.2f max=%10.2f\n", col, lo, hi)
	}

	var wilderness [domain.NumWildernessAreas]int
	for _, o := range obs {
		for i, v := range o.Wilderness {
			wilderness[i] += v
		}
	}
	fmt.Printf("\nBy wilderness area: %v\n", wilderness)
	return nil
}
