package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is how dates are written to the stored documents.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a local wall-clock time with second precision.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Trip is a saved shopping trip: what was in stock and what it cost at that moment.
type Trip struct {
	Date      Timestamp  `json:"date"`
	Items     []TripItem `json:"items"`
	TotalCost float64    `json:"total_cost"`
}

// TripItem is stored as a [name, quantity, unit, price] tuple.
type TripItem struct {
	Name     string
	Quantity float64
	Unit     string
	Price    float64
}

func (t TripItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Name, t.Quantity, t.Unit, t.Price})
}

func (t *TripItem) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("trip item: %w", err)
	}
	if len(tuple) != 4 {
		return fmt.Errorf("trip item: expected 4 fields, got %d", len(tuple))
	}
	fields := []any{&t.Name, &t.Quantity, &t.Unit, &t.Price}
	for i, field := range fields {
		if err := json.Unmarshal(tuple[i], field); err != nil {
			return fmt.Errorf("trip item field %d: %w", i, err)
		}
	}
	return nil
}

// Snapshot is the full inventory document: items, budgets and trip history.
type Snapshot struct {
	Items   []*Item `json:"items"`
	Budgets Budgets `json:"budgets"`
	History []Trip  `json:"history"`
}
