package card

import (
	"encoding/json"
	"fmt"
)

// BreakCost is the price of one use of an icebreaker's break ability.
type BreakCost struct {
	Credits     int `json:"credits"`
	Subroutines int `json:"subroutines"`
}

// StrengthCost is the price of one strength pump.
//
// It is written as a bare integer when a pump adds exactly one strength, and
// as {"credits":N,"strength":M} otherwise. The web app reads both shapes.
type StrengthCost struct {
	Credits  int
	Strength int
}

type strengthCostObject struct {
	Credits  int `json:"credits"`
	Strength int `json:"strength"`
}

// Simple reports whether the cost is written in its bare integer form.
func (c StrengthCost) Simple() bool {
	return c.Strength == 1
}

func (c StrengthCost) MarshalJSON() ([]byte, error) {
	if c.Simple() {
		return json.Marshal(c.Credits)
	}
	return json.Marshal(strengthCostObject{Credits: c.Credits, Strength: c.Strength})
}

func (c *StrengthCost) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = StrengthCost{Credits: n, Strength: 1}
		return nil
	}
	var obj strengthCostObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("strengthcost: %w", err)
	}
	*c = StrengthCost{Credits: obj.Credits, Strength: obj.Strength}
	return nil
}

func (c StrengthCost) String() string {
	if c.Simple() {
		return fmt.Sprintf("%d[c]: +1", c.Credits)
	}
	return fmt.Sprintf("%d[c]: +%d", c.Credits, c.Strength)
}

// Costs reads breakcost and strengthcost back out of a record, whether they
// were set by the transform or decoded from a stored file.
func (r Record) Costs() (BreakCost, StrengthCost, error) {
	var bc BreakCost
	var sc StrengthCost
	if !r.Has(FieldBreakCost) {
		return bc, sc, &FieldError{Title: r.TitleOrEmpty(), Field: FieldBreakCost}
	}
	if !r.Has(FieldStrengthCost) {
		return bc, sc, &FieldError{Title: r.TitleOrEmpty(), Field: FieldStrengthCost}
	}
	if err := convert(r[FieldBreakCost], &bc); err != nil {
		return bc, sc, fmt.Errorf("card %q: %s: %w", r.TitleOrEmpty(), FieldBreakCost, err)
	}
	if err := convert(r[FieldStrengthCost], &sc); err != nil {
		return bc, sc, fmt.Errorf("card %q: %s: %w", r.TitleOrEmpty(), FieldStrengthCost, err)
	}
	return bc, sc, nil
}

func convert(v any, target any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
