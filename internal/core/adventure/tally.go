// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// tallyPrecision is the number of decimals kept in a stored average.
const tallyPrecision = 4

// Tally is a community average and the number of votes behind it.
//
// It is stored and serialized as "value:count"; a fresh adventure starts at "0:0".
type Tally struct {
	Value decimal.Decimal
	Count int
}

// ParseTally decodes the stored "value:count" form. An empty string is a zero tally.
func ParseTally(raw string) (Tally, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Tally{}, nil
	}

	value, count, found := strings.Cut(raw, ":")
	if !found {
		return Tally{}, fmt.Errorf("adventure: malformed tally %q", raw)
	}

	average, err := decimal.NewFromString(value)
	if err != nil {
		return Tally{}, fmt.Errorf("adventure: malformed tally value %q: %w", raw, err)
	}

	votes, err := strconv.Atoi(count)
	if err != nil || votes < 0 {
		return Tally{}, fmt.Errorf("adventure: malformed tally count %q", raw)
	}

	return Tally{Value: average, Count: votes}, nil
}

// String encodes the tally for storage.
func (tally Tally) String() string {
	return tally.Value.String() + ":" + strconv.Itoa(tally.Count)
}

// Rounded rounds the average to a whole number and keeps the count.
func (tally Tally) Rounded() Tally {
	return Tally{Value: tally.Value.Round(0), Count: tally.Count}
}

// Add folds one vote into the running average.
func (tally Tally) Add(vote decimal.Decimal) Tally {
	total := tally.Value.Mul(decimal.NewFromInt(int64(tally.Count))).Add(vote)
	count := tally.Count + 1

	return Tally{
		Value: total.DivRound(decimal.NewFromInt(int64(count)), tallyPrecision),
		Count: count,
	}
}

// MarshalJSON implements [json.Marshaler].
func (tally Tally) MarshalJSON() ([]byte, error) {
	return json.Marshal(tally.String())
}

// UnmarshalJSON implements [json.Unmarshaler].
func (tally *Tally) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseTally(raw)
	if err != nil {
		return err
	}
	*tally = parsed
	return nil
}
