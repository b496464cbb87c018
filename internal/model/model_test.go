package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ArgMaxClassifier = (*Ensemble)(nil)

// countingClassifier favors class 2 and counts scoring passes.
type countingClassifier struct {
	probaCalls, predictCalls int
	err                      error
}

func (c *countingClassifier) PredictProba(x [][]float64) ([][]float64, error) {
	c.probaCalls++
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float64, len(x))
	for i := range out {
		out[i] = []float64{0.1, 0.1, 0.5, 0.1, 0.1, 0.05, 0.05}
	}
	return out, nil
}

func (c *countingClassifier) Predict(x [][]float64) ([]int, error) {
	c.predictCalls++
	if c.err != nil {
		return nil, c.err
	}
	return make([]int, len(x)), nil
}

func (c *countingClassifier) NumClasses() int  { return 7 }
func (c *countingClassifier) NumFeatures() int { return 59 }

type argMaxCountingClassifier struct{ countingClassifier }

func (*argMaxCountingClassifier) PredictIsArgMax() {}

func TestClassify_ArgMaxClassifierScoresOnce(t *testing.T) {
	c := &argMaxCountingClassifier{}
	classes, proba, err := Classify(c, make([][]float64, 3))
	require.NoError(t, err)

	assert.Equal(t, 1, c.probaCalls)
	assert.Zero(t, c.predictCalls)
	assert.Equal(t, []int{2, 2, 2}, classes)
	assert.Len(t, proba, 3)
}

func TestClassify_OtherClassifiersCallBoth(t *testing.T) {
	c := &countingClassifier{}
	classes, proba, err := Classify(c, make([][]float64, 2))
	require.NoError(t, err)

	assert.Equal(t, 1, c.probaCalls)
	assert.Equal(t, 1, c.predictCalls)
	// Predict's own answer is kept even where it disagrees with the arg-max.
	assert.Equal(t, []int{0, 0}, classes)
	assert.Len(t, proba, 2)
}

func TestClassify_Errors(t *testing.T) {
	_, _, err := Classify(&countingClassifier{err: errors.New("bad tree")}, make([][]float64, 1))
	require.ErrorContains(t, err, "predict: bad tree")

	_, _, err = Classify(&argMaxCountingClassifier{countingClassifier{err: errors.New("bad tree")}}, make([][]float64, 1))
	require.ErrorContains(t, err, "predict proba: bad tree")
}
