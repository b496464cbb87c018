// Package model holds the contracts for the two externally trained artifacts
// (a fit-free preprocessing transform and a multi-class classifier) and the
// loaders that read them from disk at process start.
package model

import (
	"fmt"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
)

// Transformer maps an engineered frame to model-ready feature vectors. It is
// fitted offline and applied verbatim; implementations never refit.
type Transformer interface {
	// Transform returns one vector of NumOutputs values per frame row.
	Transform(f domain.Frame) ([][]float64, error)
	NumOutputs() int
}

// Classifier scores model-ready vectors.
type Classifier interface {
	// Predict returns the zero-based class index for each row.
	Predict(x [][]float64) ([]int, error)
	// PredictProba returns NumClasses probabilities per row.
	PredictProba(x [][]float64) ([][]float64, error)
	NumClasses() int
	NumFeatures() int
}

// ArgMaxClassifier is implemented by classifiers whose Predict is exactly the
// arg-max of PredictProba. Callers needing both may then score once.
type ArgMaxClassifier interface {
	Classifier
	PredictIsArgMax()
}

// Classify returns class indices and probabilities for x, scoring once when
// c is an ArgMaxClassifier.
func Classify(c Classifier, x [][]float64) ([]int, [][]float64, error) {
	if _, ok := c.(ArgMaxClassifier); ok {
		proba, err := c.PredictProba(x)
		if err != nil {
			return nil, nil, fmt.Errorf("predict proba: %w", err)
		}
		return ArgMax(proba), proba, nil
	}
	classes, err := c.Predict(x)
	if err != nil {
		return nil, nil, fmt.Errorf("predict: %w", err)
	}
	proba, err := c.PredictProba(x)
	if err != nil {
		return nil, nil, fmt.Errorf("predict proba: %w", err)
	}
	return classes, proba, nil
}

// Artifacts is the pair of loaded objects a prediction needs.
type Artifacts struct {
	Transformer Transformer
	Classifier  Classifier
}

// Status reports which artifacts are loaded.
type Status struct {
	ModelLoaded        bool
	PreprocessorLoaded bool
}

// Ready reports whether predictions can be served.
func (s Status) Ready() bool {
	return s.ModelLoaded && s.PreprocessorLoaded
}

// Provider hands out the current artifacts. Request handling depends only on
// this interface so the loading strategy can change without touching it.
type Provider interface {
	// Artifacts returns domain.ErrUnavailable when not Ready.
	Artifacts() (Artifacts, error)
	Status() Status
}
