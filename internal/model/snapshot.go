package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// ErrMalformedSnapshot is returned when a persisted snapshot fails validation.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

func init() {
	// Snapshots carry amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeSnapshot writes s as indented JSON.
func EncodeSnapshot(w io.Writer, s State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Clone())
}

// MarshalSnapshot returns the JSON form of s.
func MarshalSnapshot(s State) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot parses and validates a snapshot. Unknown fields and values
// outside their documented ranges are rejected rather than reinterpreted.
func DecodeSnapshot(r io.Reader) (State, error) {
	var s State
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s.Clone(), nil
}

// UnmarshalSnapshot is DecodeSnapshot over a byte slice.
func UnmarshalSnapshot(data []byte) (State, error) {
	return DecodeSnapshot(bytes.NewReader(data))
}

// Validate checks the invariants a loaded state must satisfy.
func (s State) Validate() error {
	if s.LastMonth < 0 || s.LastMonth > 11 {
		return malformed("lastMonth %d out of range 0-11", s.LastMonth)
	}
	if s.LastYear <= 0 {
		return malformed("lastYear %d", s.LastYear)
	}
	if s.SavingsGoalWeekly.IsNegative() {
		return malformed("savingsGoalWeekly is negative")
	}
	if s.SavedThisMonth.IsNegative() {
		return malformed("savedThisMonth is negative")
	}

	seen := make(map[string]bool)
	for i, inc := range s.FixedIncomes {
		if err := checkSchedule("fixedIncomes", i, inc.ID, inc.Amount, inc.DueDay, seen); err != nil {
			return err
		}
	}

	seen = make(map[string]bool)
	for i, exp := range s.FixedExpenses {
		if err := checkSchedule("fixedExpenses", i, exp.ID, exp.Amount, exp.DueDay, seen); err != nil {
			return err
		}
	}

	seen = make(map[string]bool)
	for i, t := range s.Transactions {
		switch {
		case t.ID == "":
			return malformed("transactions[%d]: missing id", i)
		case seen[t.ID]:
			return malformed("transactions[%d]: duplicate id %q", i, t.ID)
		case !t.Amount.IsPositive():
			return malformed("transactions[%d]: amount must be positive", i)
		case !t.Type.Valid():
			return malformed("transactions[%d]: unknown type %q", i, t.Type)
		case t.Date.IsZero():
			return malformed("transactions[%d]: missing date", i)
		}
		seen[t.ID] = true
	}
	return nil
}

func checkSchedule(field string, i int, id string, amount decimal.Decimal, dueDay int, seen map[string]bool) error {
	switch {
	case id == "":
		return malformed("%s[%d]: missing id", field, i)
	case seen[id]:
		return malformed("%s[%d]: duplicate id %q", field, i, id)
	case !amount.IsPositive():
		return malformed("%s[%d]: amount must be positive", field, i)
	case dueDay < 1 || dueDay > 31:
		return malformed("%s[%d]: dueDay %d out of range 1-31", field, i, dueDay)
	}
	seen[id] = true
	return nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedSnapshot, fmt.Sprintf(format, args...))
}
