// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package geo holds the coordinate and GeoJSON types shared by zone and adventure
listings.

Proximity ordering runs in SQL. Both stores sort by the flat-earth key
(lat - lat0)^2 + (lng - lng0)^2 ascending, then by creation order.
*/
package geo

import "math"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoJSON returns the point as a [lng, lat] pair.
func (c Coordinates) GeoJSON(precision int) []float64 {
	return []float64{Round(c.Lng, precision), Round(c.Lat, precision)}
}

// Round rounds v to precision decimals, half away from zero.
func Round(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}
