// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

Ids are UUID version 7 values, ordered by creation time.

Every zone, adventure, edge and picture id is generated here before its row is
inserted, so multi-row inserts know their ids up front.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}
	return id.String()
}
