// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SpecificTable describes one of the per-activity detail tables.
type SpecificTable struct {
	Table string
	ID    string
}

// Per-activity tables. Path columns hold a JSON array of [lng, lat] pairs.
var (
	Ski         = SpecificTable{Table: "ski", ID: "id"}
	Climb       = SpecificTable{Table: "climb", ID: "id"}
	Hike        = SpecificTable{Table: "hike", ID: "id"}
	Bike        = SpecificTable{Table: "bike", ID: "id"}
	SkiApproach = SpecificTable{Table: "ski_approach", ID: "id"}
)

// Shared path columns
const (
	TrailPath        = "trail_path"
	Elevations       = "elevations"
	SummitElevation  = "summit_elevation"
	BaseElevation    = "base_elevation"
	ElevationClimb   = "climb"
	ElevationDescent = "descent"
)

// EmptyPath is the stored value of a cleared path or elevation profile.
const EmptyPath = "[]"
