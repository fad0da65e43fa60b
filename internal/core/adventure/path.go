// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/platform/constants"
	"github.com/taibuivan/sunday/internal/platform/database/schema"
)

/*
A stored trail path is one JSON array of [lng, lat] pairs. A single-element
entry splits it in two:

	[[lng, lat], ..., [0], [lng, lat], ...]
	 display path        edit points

The display path is drawn on the map; the edit points are the handles a client
drags to rebuild it. A path without the marker has no edit points.
*/

// SplitPath decodes a stored path into its display path and edit points,
// each rounded to [constants.CoordinatePrecision] decimals.
func SplitPath(raw string) (path, points [][]float64, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return [][]float64{}, [][]float64{}, nil
	}

	var stored [][]float64
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, nil, err
	}

	display, edit := stored, [][]float64(nil)
	if split := slices.IndexFunc(stored, func(point []float64) bool { return len(point) == 1 }); split >= 0 {
		display, edit = stored[:split], stored[split+1:]
	}

	return roundPath(display), roundPath(edit), nil
}

// JoinPath is the inverse of [SplitPath].
func JoinPath(path, points [][]float64) string {
	stored := make([][]float64, 0, len(path)+len(points)+1)
	stored = append(stored, roundPath(path)...)
	if len(points) > 0 {
		stored = append(stored, []float64{0})
		stored = append(stored, roundPath(points)...)
	}

	encoded, err := json.Marshal(stored)
	if err != nil {
		// [][]float64 of finite values always encodes
		return schema.EmptyPath
	}
	return string(encoded)
}

func roundPath(points [][]float64) [][]float64 {
	rounded := make([][]float64, 0, len(points))
	for _, point := range points {
		if len(point) < 2 {
			continue
		}
		rounded = append(rounded, []float64{
			geo.Round(point[0], constants.CoordinatePrecision),
			geo.Round(point[1], constants.CoordinatePrecision),
		})
	}
	return rounded
}

// elevationsOrEmpty returns the stored form of an elevation profile.
// isElevationArray accepts an absent or null value, or a JSON array.
func isElevationArray(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var samples []json.RawMessage
	return json.Unmarshal(raw, &samples) == nil
}

func elevationsOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return schema.EmptyPath
	}
	return string(raw)
}
