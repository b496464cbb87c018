package domain

import (
	"math"
	"strconv"
)

// NumCoverTypes is the number of classes the model predicts.
const NumCoverTypes = 7

// CoverType is a 1-indexed forest cover class id.
type CoverType int

const (
	SpruceFir CoverType = iota + 1
	LodgepolePine
	PonderosaPine
	CottonwoodWillow
	Aspen
	DouglasFir
	Krummholz
)

var coverTypeNames = [NumCoverTypes]string{
	"Spruce/Fir",
	"Lodgepole Pine",
	"Ponderosa Pine",
	"Cottonwood/Willow",
	"Aspen",
	"Douglas-fir",
	"Krummholz",
}

// CoverTypes returns all cover types in id order.
func CoverTypes() []CoverType {
	out := make([]CoverType, NumCoverTypes)
	for i := range out {
		out[i] = CoverType(i + 1)
	}
	return out
}

// CoverTypeFromClassIndex maps the classifier's zero-based output to the
// 1-indexed id space.
func CoverTypeFromClassIndex(idx int) CoverType {
	return CoverType(idx + 1)
}

// Name returns the display name, or "Class N" for ids outside 1..7.
func (c CoverType) Name() string {
	if c < 1 || int(c) > NumCoverTypes {
		return "Class " + strconv.Itoa(int(c))
	}
	return coverTypeNames[c-1]
}

func (c CoverType) String() string {
	return c.Name()
}

// Prediction is the result for one observation.
type Prediction struct {
	CoverTypeID   int                `json:"cover_type_id"`
	CoverTypeName string             `json:"cover_type_name"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// BatchPrediction is a Prediction tagged with its zero-based CSV row.
type BatchPrediction struct {
	RowIndex int `json:"row_index"`
	Prediction
}

// BatchResult is the response for a CSV upload.
type BatchResult struct {
	TotalRows   int               `json:"total_rows"`
	Predictions []BatchPrediction `json:"predictions"`
}

// NewPrediction builds a Prediction from a zero-based class index and the
// classifier's per-class probabilities. Probabilities are keyed by the fixed
// label names and rounded to 4 decimal places; they are not renormalised.
func NewPrediction(classIdx int, proba []float64) Prediction {
	ct := CoverTypeFromClassIndex(classIdx)
	probs := make(map[string]float64, NumCoverTypes)
	for i, name := range coverTypeNames {
		var p float64
		if i < len(proba) {
			p = proba[i]
		}
		probs[name] = RoundProbability(p)
	}
	return Prediction{
		CoverTypeID:   int(ct),
		CoverTypeName: ct.Name(),
		Probabilities: probs,
	}
}

// RoundProbability rounds p to 4 decimal places.
func RoundProbability(p float64) float64 {
	return math.Round(p*1e4) / 1e4
}
