// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure

import (
	"fmt"
	"strings"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/platform/database/schema"
	"github.com/taibuivan/sunday/internal/platform/validate"
	"github.com/taibuivan/sunday/pkg/convert"
)

// # Field Table

// Kind is the Go type a column is written with.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTally
)

type column struct {
	name     string
	kind     Kind
	fallback any
}

// generalFields live on the adventures table and are shared by every type.
var generalFields = []column{
	{schema.Adventures.Name, KindText, ""},
	{schema.Adventures.Bio, KindText, ""},
	{schema.Adventures.NearestCity, KindText, ""},
	{schema.Adventures.CoordinatesLat, KindFloat, 0.0},
	{schema.Adventures.CoordinatesLng, KindFloat, 0.0},
	{schema.Adventures.Public, KindBool, true},
	{schema.Adventures.Rating, KindTally, "0:0"},
	{schema.Adventures.Difficulty, KindTally, "0:0"},
}

// specificFields are the detail columns of each type, in insert order.
// Path and elevation columns are handled by path edits.
var specificFields = map[activity.Type][]column{
	activity.Ski: {
		{"avg_angle", KindInt, 0},
		{"max_angle", KindInt, 0},
		{"aspect", KindText, "N"},
		{schema.SummitElevation, KindInt, 0},
		{schema.BaseElevation, KindInt, 0},
		{"exposure", KindInt, 0},
		{"season", KindText, ""},
	},
	activity.Climb: {
		{"pitches", KindInt, 0},
		{"protection", KindText, ""},
		{"climb_type", KindText, ""},
		{"light_times", KindText, ""},
		{"season", KindText, ""},
		{"approach", KindText, ""},
		{"first_ascent", KindText, ""},
		{"grade", KindText, ""},
	},
	activity.Hike: {
		{schema.SummitElevation, KindInt, 0},
		{schema.BaseElevation, KindInt, 0},
		{"season", KindText, ""},
		{schema.ElevationClimb, KindInt, 0},
		{schema.ElevationDescent, KindInt, 0},
	},
	activity.Bike: {
		{schema.SummitElevation, KindInt, 0},
		{schema.BaseElevation, KindInt, 0},
		{"season", KindText, ""},
		{schema.ElevationClimb, KindInt, 0},
		{schema.ElevationDescent, KindInt, 0},
	},
	activity.SkiApproach: {
		{schema.SummitElevation, KindInt, 0},
		{schema.BaseElevation, KindInt, 0},
		{"gear", KindText, ""},
		{"exposure", KindInt, 0},
	},
}

var specificTables = map[activity.Type]schema.SpecificTable{
	activity.Ski:         schema.Ski,
	activity.Climb:       schema.Climb,
	activity.Hike:        schema.Hike,
	activity.Bike:        schema.Bike,
	activity.SkiApproach: schema.SkiApproach,
}

// pathField is the client name of the path edit, rejected by [LookupField].
const pathField = "paths"

// # Lookup

// FieldSpec locates one editable column of an adventure.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Specific bool
	Table    string
}

/*
LookupField resolves a field name for an adventure type.

General names are checked first; the detail table of adventureType is
searched next.

Returns:
  - FieldSpec: Target table and column kind
  - error: VALIDATION_ERROR for paths, path columns and unknown names
*/
func LookupField(name string, adventureType activity.Type) (FieldSpec, error) {
	name = strings.TrimSpace(name)

	switch name {
	case pathField, schema.TrailPath, schema.Elevations:
		return FieldSpec{}, validate.RequiredError("name", "Paths are edited through the path endpoint")
	}

	for _, general := range generalFields {
		if general.name == name {
			return FieldSpec{Name: name, Kind: general.kind, Table: schema.Adventures.Table}, nil
		}
	}

	for _, specific := range specificFields[adventureType] {
		if specific.name == name {
			return FieldSpec{Name: name, Kind: specific.kind, Specific: true, Table: specificTables[adventureType].Table}, nil
		}
	}

	return FieldSpec{}, validate.RequiredError("name", fmt.Sprintf("Unknown field %s for %s adventures", name, adventureType))
}

// Coerce converts a decoded JSON value into the column's Go type.
func (spec FieldSpec) Coerce(value any) (any, error) {
	return coerce(spec.Name, spec.Kind, value)
}

// AffectsListing reports whether the orphan listing shows this field.
func (spec FieldSpec) AffectsListing() bool {
	if spec.Specific {
		return false
	}
	switch spec.Name {
	case schema.Adventures.Name, schema.Adventures.CoordinatesLat, schema.Adventures.CoordinatesLng, schema.Adventures.Public:
		return true
	}
	return false
}

// Searchable reports whether the field feeds the adventure's search keywords.
func (spec FieldSpec) Searchable() bool {
	if spec.Specific {
		return false
	}
	switch spec.Name {
	case schema.Adventures.Name, schema.Adventures.Bio, schema.Adventures.NearestCity:
		return true
	}
	return false
}

func coerce(name string, kind Kind, value any) (any, error) {
	switch kind {
	case KindInt:
		number, ok := convert.AnyToInt(value)
		if !ok {
			return nil, validate.RequiredError(name, "Must be a whole number")
		}
		return number, nil

	case KindFloat:
		number, ok := convert.AnyToFloat64(value)
		if !ok {
			return nil, validate.RequiredError(name, "Must be a number")
		}
		if name == schema.Adventures.CoordinatesLat && (number < -90 || number > 90) {
			return nil, validate.RequiredError(name, "Invalid latitude")
		}
		if name == schema.Adventures.CoordinatesLng && (number < -180 || number > 180) {
			return nil, validate.RequiredError(name, "Invalid longitude")
		}
		return number, nil

	case KindBool:
		flag, ok := convert.AnyToBool(value)
		if !ok {
			return nil, validate.RequiredError(name, "Must be a boolean")
		}
		return flag, nil

	case KindTally:
		text, ok := convert.AnyToString(value)
		if !ok {
			return nil, validate.RequiredError(name, "Must be formatted as value:count")
		}
		tally, err := ParseTally(text)
		if err != nil {
			return nil, validate.RequiredError(name, "Must be formatted as value:count")
		}
		return tally.String(), nil
	}

	text, ok := convert.AnyToString(value)
	if !ok {
		return nil, validate.RequiredError(name, "Must be a string")
	}
	if name == schema.Adventures.Name && strings.TrimSpace(text) == "" {
		return nil, validate.RequiredError(name, "This field is required")
	}
	return text, nil
}

// specificRow returns the detail values of one adventure in insert order,
// falling back to column defaults. Unknown keys are rejected.
func specificRow(adventureType activity.Type, values map[string]any) ([]string, []any, error) {
	columns := specificFields[adventureType]

	for name := range values {
		known := false
		for _, specific := range columns {
			if specific.name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, nil, validate.RequiredError(name, fmt.Sprintf("Unknown field for %s adventures", adventureType))
		}
	}

	names := make([]string, 0, len(columns))
	row := make([]any, 0, len(columns))
	for _, specific := range columns {
		value := specific.fallback
		if raw, ok := values[specific.name]; ok && raw != nil {
			coerced, err := coerce(specific.name, specific.kind, raw)
			if err != nil {
				return nil, nil, err
			}
			value = coerced
		}
		names = append(names, specific.name)
		row = append(row, value)
	}

	return names, row, nil
}
