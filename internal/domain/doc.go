// Package domain models USDA SCAN (Soil Climate Analysis Network) station
// data and the cleaning rules applied to its sensor time series.
//
// # Data Source
//
// Station metadata and daily sensor observations come from the USDA AWDB
// REST API (https://wcc.sc.egov.usda.gov/awdbRestApi/). The catalog endpoint
// returns every station the service knows about; SCAN installations are the
// subset with network code "SCAN". Each station is identified by a station
// triplet of the form "<id>:<state>:<network>", e.g. "2218:WY:SCAN".
//
// # Sensor Conventions
//
// Five daily element series are tracked per station:
//
//	SMN:-20  soil moisture percent minimum at 20 inches depth
//	SMN:-40  soil moisture percent minimum at 40 inches depth
//	STX:-20  soil temperature maximum at 20 inches depth
//	STX:-40  soil temperature maximum at 40 inches depth
//	TMAX     ambient air temperature maximum
//
// Depths are expressed as negative inches in the AWDB element codes.
// Moisture arrives as a percentage; temperatures arrive in Fahrenheit and
// are converted to Celsius after cleaning, so that outlier fences are
// computed in a single unit system.
//
// # Distance
//
// Nearest-station ranking uses the haversine great-circle distance with an
// Earth radius of 3958.8 miles. Ranking ties (two stations at the same
// distance) break by station id so results are deterministic.
//
// # Cleaning
//
// Outliers are removed by Tukey fencing: values strictly outside
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR] are dropped. Quartiles use linear
// interpolation between order statistics, matching the conventional
// definition. Series with fewer than four points skip fencing entirely
// because the IQR is not meaningful for such small samples. Cleaning never
// reorders or interpolates observations; it only drops them.
package domain
