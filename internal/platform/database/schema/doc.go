// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds table and column descriptors shared by the stores.
//
// Queries reference these descriptors instead of bare identifiers so a column
// rename is a one-line change here.
package schema
