package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	hillshadeMin = 0
	hillshadeMax = 255
)

var hillshadeColumns = map[string]bool{
	ColHillshade9am:  true,
	ColHillshadeNoon: true,
	ColHillshade3pm:  true,
}

// ParseObservation builds an Observation from a decoded JSON object. Values
// are expected as json.Number (decoder UseNumber) but float64 and numeric
// strings are accepted too.
//
// The ten numeric attributes are required; hillshade readings must lie in
// [0,255]. Indicator fields default to 0 and must be 0 or 1; JSON true/false
// read as 1/0. Unknown keys are ignored. All problems are reported together
// in a *ValidationError.
func ParseObservation(fields map[string]any) (Observation, error) {
	var (
		obs  Observation
		verr ValidationError
	)

	for _, col := range NumericColumns {
		raw, ok := fields[col]
		if !ok {
			verr.add(col, "missing", "Field required")
			continue
		}
		v, ok := toFloat(raw)
		if !ok {
			verr.add(col, "float_parsing", "Input should be a valid number")
			continue
		}
		if hillshadeColumns[col] {
			if v < hillshadeMin {
				verr.add(col, "greater_than_equal", "Input should be greater than or equal to %d", hillshadeMin)
				continue
			}
			if v > hillshadeMax {
				verr.add(col, "less_than_equal", "Input should be less than or equal to %d", hillshadeMax)
				continue
			}
		}
		*obs.numericTarget(col) = v
	}

	for i, col := range WildernessColumns {
		if v, ok := parseIndicator(fields, col, &verr); ok {
			obs.Wilderness[i] = v
		}
	}
	for i, col := range SoilColumns {
		if v, ok := parseIndicator(fields, col, &verr); ok {
			obs.Soil[i] = v
		}
	}

	if len(verr.Fields) > 0 {
		return Observation{}, &verr
	}
	return obs, nil
}

func parseIndicator(fields map[string]any, col string, verr *ValidationError) (int, bool) {
	raw, ok := fields[col]
	if !ok {
		return 0, true
	}
	if b, isBool := raw.(bool); isBool {
		if b {
			return 1, true
		}
		return 0, true
	}
	v, ok := toFloat(raw)
	if !ok || v != math.Trunc(v) {
		verr.add(col, "int_parsing", "Input should be a valid integer")
		return 0, false
	}
	if v < 0 {
		verr.add(col, "greater_than_equal", "Input should be greater than or equal to 0")
		return 0, false
	}
	if v > 1 {
		verr.add(col, "less_than_equal", "Input should be less than or equal to 1")
		return 0, false
	}
	return int(v), true
}

// toFloat converts a decoded JSON value to a finite float64.
func toFloat(raw any) (float64, bool) {
	var (
		v   float64
		err error
	)
	switch t := raw.(type) {
	case json.Number:
		v, err = t.Float64()
	case float64:
		v = t
	case string:
		v, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
