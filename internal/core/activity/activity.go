// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package activity defines the closed set of adventure types shared by zones
// and adventures, and the rule deciding which types may nest.
package activity

import (
	"fmt"

	"github.com/taibuivan/sunday/internal/platform/apperr"
)

// Type is the activity a zone groups or an adventure describes.
type Type string

const (
	Ski         Type = "ski"
	Climb       Type = "climb"
	Hike        Type = "hike"
	Bike        Type = "bike"
	SkiApproach Type = "skiApproach"
)

// All lists every type in canonical order. Bulk results are grouped in this order.
var All = []Type{Ski, Climb, Hike, Bike, SkiApproach}

// Parse validates a raw type string.
func Parse(raw string) (Type, error) {
	candidate := Type(raw)
	if candidate.Valid() {
		return candidate, nil
	}
	return "", apperr.ValidationError(fmt.Sprintf("adventureType: unknown adventure type %q", raw),
		apperr.FieldError{Field: "adventureType", Message: "Must be one of: ski, climb, hike, bike, skiApproach"})
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	switch t {
	case Ski, Climb, Hike, Bike, SkiApproach:
		return true
	}
	return false
}

// HasPath reports whether adventures of this type carry a trail path and elevation profile.
func (t Type) HasPath() bool {
	return t != Climb && t.Valid()
}

// Compatible reports whether a child of type child may sit under a zone of type parent.
//
// Types must match exactly, except that a ski approach may live in a ski zone.
func Compatible(child, parent Type) bool {
	if child == parent {
		return true
	}
	return child == SkiApproach && parent == Ski
}

// PathColor is the map color used when rendering adventures of this type.
func (t Type) PathColor() string {
	switch t {
	case Ski:
		return "#38e"
	case Hike:
		return "#e53"
	case Climb:
		return "#ccc"
	case Bike:
		return "#3a3"
	case SkiApproach:
		return "#d70"
	}
	return "#38e"
}

// String implements [fmt.Stringer].
func (t Type) String() string { return string(t) }
