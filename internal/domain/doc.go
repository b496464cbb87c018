// Package domain models forest cover type observations and predictions.
//
// # Data Source
//
// Observations follow the UCI Covertype dataset layout: cartographic variables
// for 30m x 30m cells in the Roosevelt National Forest, Colorado. Uploads and
// single-record requests use the dataset's column names verbatim, e.g.
// "Horizontal_Distance_To_Hydrology" or "Soil_Type17".
//
// # Columns
//
// Ten numeric attributes:
//
//	Elevation                          meters
//	Aspect                             azimuth degrees, 0–360
//	Slope                              degrees
//	Horizontal_Distance_To_Hydrology   meters to nearest surface water
//	Vertical_Distance_To_Hydrology     meters, may be negative
//	Horizontal_Distance_To_Roadways    meters
//	Horizontal_Distance_To_Fire_Points meters to nearest wildfire ignition point
//	Hillshade_9am / _Noon / _3pm       index 0–255 at the summer solstice
//
// followed by two one-hot groups, Wilderness_Area1..4 and Soil_Type1..40.
// Each group should have exactly one indicator set. This is not enforced;
// whatever combination arrives is passed to the preprocessing transform.
//
// Cover_Type, the training label, is dropped from uploads if present.
//
// # Engineered Features
//
// [EngineerFeatures] appends five columns the model was trained with:
//
//	Euclidean_Distance_To_Hydrology = sqrt(horizontal² + vertical²)
//	Water_Elevation                 = Elevation − Vertical_Distance_To_Hydrology
//	Mean_Hillshade                  = mean(9am, Noon, 3pm), NaN readings skipped
//	Morning_vs_Afternoon_Sun        = Hillshade_9am − Hillshade_3pm
//	Distance_To_Amenities           = roadways + fire points
//
// # Labels
//
// The classifier emits zero-based class indices 0–6. They map to cover type
// ids 1–7: Spruce/Fir, Lodgepole Pine, Ponderosa Pine, Cottonwood/Willow,
// Aspen, Douglas-fir, Krummholz. See [CoverTypeFromClassIndex].
package domain
