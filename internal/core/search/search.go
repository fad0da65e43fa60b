// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search keeps the keyword index of zones and adventures.

Creating or editing a searchable field rebuilds the entity's [Document]: its
keywords are stored in the searchable_* tables and published to the broker
for downstream indexers. Queries match every folded word of the search text
against the stored keywords.
*/
package search

import (
	"strings"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/pkg/pagination"
	"github.com/taibuivan/sunday/pkg/slug"
)

// Kind names the entity a document describes.
type Kind string

const (
	KindZone      Kind = "zone"
	KindAdventure Kind = "adventure"
)

// Document is the denormalized keyword set of one entity.
type Document struct {
	Kind     Kind     `json:"kind"`
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
}

// NewDocument folds the searchable fields into keywords.
func NewDocument(kind Kind, id string, fields ...string) Document {
	return Document{Kind: kind, ID: id, Keywords: slug.Keywords(fields...)}
}

// Text is the stored searchable_text.
func (document Document) Text() string {
	return strings.Join(document.Keywords, " ")
}

// # Results

// AdventureHit is one adventure matching a search.
type AdventureHit struct {
	ID            string        `json:"adventure_id"`
	Name          string        `json:"adventure_name"`
	AdventureType activity.Type `json:"adventure_type"`
	NearestCity   string        `json:"nearest_city"`
}

// ZoneHit is one zone matching a search.
type ZoneHit struct {
	ID            string        `json:"zone_id"`
	Name          string        `json:"zone_name"`
	AdventureType activity.Type `json:"adventure_type"`
	NearestCity   string        `json:"nearest_city"`
}

// Query is a keyword search, optionally hiding the direct children of ParentID.
type Query struct {
	Words    []string
	ParentID string
	Page     pagination.Params
}
