package domain

import "strconv"

// Raw terrain column names, as they appear in the training data and CSV uploads.
const (
	ColElevation            = "Elevation"
	ColAspect               = "Aspect"
	ColSlope                = "Slope"
	ColHorizontalHydrology  = "Horizontal_Distance_To_Hydrology"
	ColVerticalHydrology    = "Vertical_Distance_To_Hydrology"
	ColHorizontalRoadways   = "Horizontal_Distance_To_Roadways"
	ColHorizontalFirePoints = "Horizontal_Distance_To_Fire_Points"
	ColHillshade9am         = "Hillshade_9am"
	ColHillshadeNoon        = "Hillshade_Noon"
	ColHillshade3pm         = "Hillshade_3pm"

	// ColCoverType is the training label. It is dropped from batch uploads.
	ColCoverType = "Cover_Type"
)

const (
	NumWildernessAreas = 4
	NumSoilTypes       = 40
)

// NumericColumns lists the ten continuous/ordinal attributes in canonical order.
var NumericColumns = []string{
	ColElevation,
	ColAspect,
	ColSlope,
	ColHorizontalHydrology,
	ColVerticalHydrology,
	ColHorizontalRoadways,
	ColHorizontalFirePoints,
	ColHillshade9am,
	ColHillshadeNoon,
	ColHillshade3pm,
}

// WildernessColumns and SoilColumns list the one-hot indicator columns,
// Wilderness_Area1..4 and Soil_Type1..40.
var (
	WildernessColumns = indicatorColumns("Wilderness_Area", NumWildernessAreas)
	SoilColumns       = indicatorColumns("Soil_Type", NumSoilTypes)
)

// RawColumns is the full 54-column observation layout: numeric attributes,
// then wilderness indicators, then soil indicators.
var RawColumns = concatColumns(NumericColumns, WildernessColumns, SoilColumns)

func indicatorColumns(prefix string, n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = prefix + strconv.Itoa(i+1)
	}
	return cols
}

func concatColumns(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Observation is one terrain sample. Wilderness and Soil hold one-hot
// indicators; exactly one should be set per group but that is not enforced.
type Observation struct {
	Elevation                     float64
	Aspect                        float64
	Slope                         float64
	HorizontalDistanceToHydrology float64
	VerticalDistanceToHydrology   float64
	HorizontalDistanceToRoadways  float64
	HorizontalDistanceToFire      float64
	Hillshade9am                  float64
	HillshadeNoon                 float64
	Hillshade3pm                  float64

	Wilderness [NumWildernessAreas]int
	Soil       [NumSoilTypes]int
}

// Row flattens the observation into RawColumns order.
func (o Observation) Row() []float64 {
	row := make([]float64, 0, len(RawColumns))
	row = append(row,
		o.Elevation,
		o.Aspect,
		o.Slope,
		o.HorizontalDistanceToHydrology,
		o.VerticalDistanceToHydrology,
		o.HorizontalDistanceToRoadways,
		o.HorizontalDistanceToFire,
		o.Hillshade9am,
		o.HillshadeNoon,
		o.Hillshade3pm,
	)
	for _, v := range o.Wilderness {
		row = append(row, float64(v))
	}
	for _, v := range o.Soil {
		row = append(row, float64(v))
	}
	return row
}

// OneHotConsistent reports whether exactly one wilderness area and exactly one
// soil type are set.
func (o Observation) OneHotConsistent() bool {
	return countSet(o.Wilderness[:]) == 1 && countSet(o.Soil[:]) == 1
}

func countSet(indicators []int) int {
	n := 0
	for _, v := range indicators {
		if v != 0 {
			n++
		}
	}
	return n
}

// numericTarget returns a pointer to the numeric attribute named col, or nil.
func (o *Observation) numericTarget(col string) *float64 {
	switch col {
	case ColElevation:
		return &o.Elevation
	case ColAspect:
		return &o.Aspect
	case ColSlope:
		return &o.Slope
	case ColHorizontalHydrology:
		return &o.HorizontalDistanceToHydrology
	case ColVerticalHydrology:
		return &o.VerticalDistanceToHydrology
	case ColHorizontalRoadways:
		return &o.HorizontalDistanceToRoadways
	case ColHorizontalFirePoints:
		return &o.HorizontalDistanceToFire
	case ColHillshade9am:
		return &o.Hillshade9am
	case ColHillshadeNoon:
		return &o.HillshadeNoon
	case ColHillshade3pm:
		return &o.Hillshade3pm
	default:
		return nil
	}
}
