package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPreprocessorPath = "testdata/spatial_preprocessor.json"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func sampleEngineeredFrame(t *testing.T) domain.Frame {
	t.Helper()
	obs := domain.Observation{
		Elevation: 2596, Aspect: 51, Slope: 3,
		HorizontalDistanceToHydrology: 258, HorizontalDistanceToRoadways: 510,
		HorizontalDistanceToFire: 6279, Hillshade9am: 221, HillshadeNoon: 232, Hillshade3pm: 148,
	}
	obs.Wilderness[0] = 1
	obs.Soil[28] = 1
	f, err := domain.EngineerFeatures(domain.NewFrame(obs))
	require.NoError(t, err)
	return f
}

func TestLoadColumnTransformer_Testdata(t *testing.T) {
	ct, err := LoadColumnTransformer(testPreprocessorPath)
	require.NoError(t, err)
	assert.Equal(t, 59, ct.NumOutputs())

	out, err := ct.Transform(sampleEngineeredFrame(t))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0], 59)

	// Elevation is standardised, one-hot indicators pass through.
	assert.InDelta(t, (2596-2959.365)/279.985, out[0][0], 1e-12)
	assert.Equal(t, 1.0, out[0][15], "Wilderness_Area1")
	assert.Equal(t, 1.0, out[0][15+4+28], "Soil_Type29")
	assert.Equal(t, 0.0, out[0][16])
}

func TestColumnTransformer_BlockKinds(t *testing.T) {
	ct, err := NewColumnTransformer(
		Block{Name: "std", Kind: KindStandardScaler, Columns: []string{"a", "b"}, Mean: []float64{1, 2}, Scale: []float64{2, 4}},
		Block{Name: "std-nomean", Kind: KindStandardScaler, Columns: []string{"a"}, Scale: []float64{10}},
		Block{Name: "minmax", Kind: KindMinMaxScaler, Columns: []string{"b"}, Min: []float64{-1}, Scale: []float64{0.5}},
		Block{Name: "pass", Kind: KindPassthrough, Columns: []string{"c"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 5, ct.NumOutputs())

	f := domain.Frame{
		Columns: []string{"c", "b", "a", "ignored"},
		Rows:    [][]float64{{7, 10, 5, 99}, {0, 2, 1, 99}},
	}
	out, err := ct.Transform(f)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{2, 2, 0.5, 4, 7},
		{0, 0, 0.1, 0, 0},
	}, out)
}

func TestColumnTransformer_NaNPropagates(t *testing.T) {
	ct, err := NewColumnTransformer(
		Block{Kind: KindStandardScaler, Columns: []string{"a"}, Mean: []float64{1}, Scale: []float64{2}},
	)
	require.NoError(t, err)

	out, err := ct.Transform(domain.Frame{Columns: []string{"a"}, Rows: [][]float64{{math.NaN()}}})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0][0]))
}

func TestColumnTransformer_MissingColumn(t *testing.T) {
	ct, err := LoadColumnTransformer(testPreprocessorPath)
	require.NoError(t, err)

	f := sampleEngineeredFrame(t).Drop("Soil_Type12")
	_, err = ct.Transform(f)

	var mce *domain.MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "Soil_Type12", mce.Column)
}

func TestColumnTransformer_Deterministic(t *testing.T) {
	ct, err := LoadColumnTransformer(testPreprocessorPath)
	require.NoError(t, err)

	f := sampleEngineeredFrame(t)
	a, err := ct.Transform(f)
	require.NoError(t, err)
	b, err := ct.Transform(f)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoadColumnTransformer_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"not json", `{`, "decode preprocessor"},
		{"wrong format", `{"format":"joblib","blocks":[]}`, "unsupported format"},
		{"no blocks", `{"format":"column_transformer/v1","blocks":[]}`, "no blocks"},
		{"unknown kind", `{"format":"column_transformer/v1","blocks":[{"kind":"pca","columns":["a"]}]}`, "unknown kind"},
		{"no columns", `{"format":"column_transformer/v1","blocks":[{"kind":"passthrough","columns":[]}]}`, "no columns"},
		{"mean length", `{"format":"column_transformer/v1","blocks":[{"kind":"standard_scaler","columns":["a","b"],"mean":[1]}]}`, "mean has 1 values"},
		{"zero scale", `{"format":"column_transformer/v1","blocks":[{"kind":"standard_scaler","columns":["a"],"scale":[0]}]}`, "zero scale"},
		{"minmax without min", `{"format":"column_transformer/v1","blocks":[{"kind":"min_max_scaler","columns":["a"],"scale":[1]}]}`, "min has 0 values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "pre.json", tt.content)
			_, err := LoadColumnTransformer(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadColumnTransformer_MissingFile(t *testing.T) {
	_, err := LoadColumnTransformer(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
