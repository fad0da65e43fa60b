// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package geo

// # GeoJSON

// Geometry kinds emitted by the listings.
const (
	GeometryPoint      = "Point"
	GeometryLineString = "LineString"
)

// Geometry is a GeoJSON geometry. Coordinates is a [lng, lat] pair for points
// and a list of pairs for line strings.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// FeatureCollection is the listing payload consumed by map clients.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection returns an empty collection that encodes features as [].
func NewFeatureCollection() FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}

// PointFeature builds a point feature at c.
func PointFeature(id string, c Coordinates, precision int, properties map[string]any) Feature {
	return Feature{
		Type:       "Feature",
		ID:         id,
		Properties: properties,
		Geometry:   Geometry{Type: GeometryPoint, Coordinates: c.GeoJSON(precision)},
	}
}

// LineFeature builds a line string feature over path, given as [lng, lat] pairs.
func LineFeature(id string, path [][]float64, properties map[string]any) Feature {
	return Feature{
		Type:       "Feature",
		ID:         id,
		Properties: properties,
		Geometry:   Geometry{Type: GeometryLineString, Coordinates: path},
	}
}
