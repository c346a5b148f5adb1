package entities

import (
	"encoding/json"
	"math"
)

// Measure is a physical quantity (kg, m, mm) that may be undefined.
// An undefined measure is distinct from a computed zero: it means the
// inputs needed to compute it are missing or non-positive.
type Measure struct {
	Value float64
	Valid bool
}

// Undefined is the measure returned when there is insufficient input
var Undefined = Measure{}

// Known wraps a computed value
func Known(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Positive reports whether the measure is defined and strictly greater than zero
func (m Measure) Positive() bool {
	return m.Valid && m.Value > 0 && !math.IsNaN(m.Value) && !math.IsInf(m.Value, 0)
}

// Or returns the value, or fallback when undefined
func (m Measure) Or(fallback float64) float64 {
	if !m.Valid {
		return fallback
	}
	return m.Value
}

// MarshalJSON encodes an undefined measure as null
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null (or an absent value) as undefined
func (m *Measure) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Known(v)
	return nil
}

// Count is a discrete piece count that may be undefined
type Count struct {
	Value int64
	Valid bool
}

// UndefinedCount is the count returned when there is insufficient input
var UndefinedCount = Count{}

// KnownCount wraps a computed count
func KnownCount(v int64) Count {
	return Count{Value: v, Valid: true}
}

// Positive reports whether the count is defined and strictly greater than zero
func (c Count) Positive() bool {
	return c.Valid && c.Value > 0
}

// MarshalJSON encodes an undefined count as null
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON decodes null as undefined
func (c *Count) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = UndefinedCount
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = KnownCount(v)
	return nil
}
