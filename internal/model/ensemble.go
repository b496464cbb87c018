package model

import (
	"fmt"
	"math"

	"github.com/dmitryikh/leaves"
)

// Supported classifier file formats.
const (
	FormatXGBoost  = "xgboost"
	FormatLightGBM = "lightgbm"
)

// Ensemble is a multi-class gradient-boosted tree model evaluated with
// leaves. Raw per-class margins are converted to probabilities with a
// softmax; Predict is the arg-max of those probabilities.
type Ensemble struct {
	model   *leaves.Ensemble
	threads int
}

// LoadEnsemble reads an XGBoost binary model or a LightGBM text model.
// threads bounds the goroutines used per PredictProba call.
func LoadEnsemble(path, format string, threads int) (*Ensemble, error) {
	if threads < 1 {
		threads = 1
	}

	var (
		m   *leaves.Ensemble
		err error
	)
	switch format {
	case FormatXGBoost:
		m, err = leaves.XGEnsembleFromFile(path, false)
	case FormatLightGBM:
		m, err = leaves.LGEnsembleFromFile(path, false)
	default:
		return nil, fmt.Errorf("unknown model format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s model: %w", format, err)
	}
	if m.NOutputGroups() < 2 {
		return nil, fmt.Errorf("model has %d output groups, want a multi-class model", m.NOutputGroups())
	}
	return &Ensemble{model: m, threads: threads}, nil
}

func (e *Ensemble) NumClasses() int  { return e.model.NOutputGroups() }
func (e *Ensemble) NumFeatures() int { return e.model.NFeatures() }

// PredictProba scores all rows in one dense call.
func (e *Ensemble) PredictProba(x [][]float64) ([][]float64, error) {
	nrows := len(x)
	if nrows == 0 {
		return [][]float64{}, nil
	}
	ncols := len(x[0])
	dense := make([]float64, 0, nrows*ncols)
	for i, row := range x {
		if len(row) != ncols {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), ncols)
		}
		dense = append(dense, row...)
	}

	k := e.NumClasses()
	margins := make([]float64, nrows*k)
	if err := e.model.PredictDense(dense, nrows, ncols, margins, 0, e.threads); err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	out := make([][]float64, nrows)
	for i := range out {
		out[i] = Softmax(margins[i*k : (i+1)*k])
	}
	return out, nil
}

// Predict returns the most probable class for each row.
func (e *Ensemble) Predict(x [][]float64) ([]int, error) {
	proba, err := e.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return ArgMax(proba), nil
}

// PredictIsArgMax marks Ensemble as an ArgMaxClassifier.
func (e *Ensemble) PredictIsArgMax() {}

// Softmax returns exp(v_i)/Σexp(v_j), shifted by max(v) for stability.
func Softmax(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}
	maxV := math.Inf(-1)
	for _, x := range v {
		maxV = math.Max(maxV, x)
	}
	var sum float64
	for i, x := range v {
		out[i] = math.Exp(x - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// ArgMax returns the index of the largest value in each row; ties go to the
// lowest index.
func ArgMax(rows [][]float64) []int {
	out := make([]int, len(rows))
	for i, row := range rows {
		best := 0
		for j := 1; j < len(row); j++ {
			if row[j] > row[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}
