package domain

import (
	"math"
	"slices"
)

// Engineered column names, appended by EngineerFeatures in this order.
const (
	ColEuclideanHydrology = "Euclidean_Distance_To_Hydrology"
	ColWaterElevation     = "Water_Elevation"
	ColMeanHillshade      = "Mean_Hillshade"
	ColMorningVsAfternoon = "Morning_vs_Afternoon_Sun"
	ColDistanceAmenities  = "Distance_To_Amenities"
)

// EngineeredColumns lists the derived columns in the order they are appended.
var EngineeredColumns = []string{
	ColEuclideanHydrology,
	ColWaterElevation,
	ColMeanHillshade,
	ColMorningVsAfternoon,
	ColDistanceAmenities,
}

// engineerInputs are the raw columns the derivations read.
var engineerInputs = []string{
	ColElevation,
	ColHorizontalHydrology,
	ColVerticalHydrology,
	ColHorizontalRoadways,
	ColHorizontalFirePoints,
	ColHillshade9am,
	ColHillshadeNoon,
	ColHillshade3pm,
}

// EngineerFeatures returns a copy of f with the five derived columns appended
// to every row. Values are not validated; NaN inputs propagate. The only
// failure is a missing input column.
//
// Every prediction path (single record, CSV batch, offline CLI) goes through
// this function so derived values are identical between them.
func EngineerFeatures(f Frame) (Frame, error) {
	idx := make(map[string]int, len(engineerInputs))
	for _, col := range engineerInputs {
		i := f.Index(col)
		if i < 0 {
			return Frame{}, &MissingColumnError{Column: col}
		}
		idx[col] = i
	}

	out := Frame{
		Columns: append(slices.Clone(f.Columns), EngineeredColumns...),
		Rows:    make([][]float64, len(f.Rows)),
	}
	for r, row := range f.Rows {
		derived := engineerRow(
			row[idx[ColElevation]],
			row[idx[ColHorizontalHydrology]],
			row[idx[ColVerticalHydrology]],
			row[idx[ColHorizontalRoadways]],
			row[idx[ColHorizontalFirePoints]],
			row[idx[ColHillshade9am]],
			row[idx[ColHillshadeNoon]],
			row[idx[ColHillshade3pm]],
		)
		newRow := make([]float64, 0, len(row)+len(derived))
		newRow = append(newRow, row...)
		out.Rows[r] = append(newRow, derived[:]...)
	}
	return out, nil
}

func engineerRow(elevation, hHydro, vHydro, roads, fire, shade9, shadeNoon, shade3 float64) [5]float64 {
	return [5]float64{
		math.Sqrt(hHydro*hHydro + vHydro*vHydro),
		elevation - vHydro,
		meanSkipNaN(shade9, shadeNoon, shade3),
		shade9 - shade3,
		roads + fire,
	}
}

// meanSkipNaN averages the non-NaN values, matching a pandas row mean. It is
// NaN only when every value is NaN.
func meanSkipNaN(vals ...float64) float64 {
	var sum float64
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
