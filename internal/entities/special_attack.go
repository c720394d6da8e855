package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SpecialAttack is either a single description or a list of descriptions.
// The zero value is an empty Single.
type SpecialAttack struct {
	values   []string
	multiple bool
}

// SingleAttack returns a SpecialAttack holding one description
func SingleAttack(description string) SpecialAttack {
	return SpecialAttack{values: []string{description}}
}

// MultipleAttacks returns a SpecialAttack holding a list of descriptions
func MultipleAttacks(descriptions ...string) SpecialAttack {
	values := make([]string, len(descriptions))
	copy(values, descriptions)
	return SpecialAttack{values: values, multiple: true}
}

// IsMultiple reports whether the attack was given as a list
func (a SpecialAttack) IsMultiple() bool {
	return a.multiple
}

// Values returns a copy of the descriptions
func (a SpecialAttack) Values() []string {
	values := make([]string, len(a.values))
	copy(values, a.values)
	return values
}

// String renders the attack for display. Lists are joined with ", ".
func (a SpecialAttack) String() string {
	if !a.multiple {
		if len(a.values) == 0 {
			return ""
		}
		return a.values[0]
	}
	return strings.Join(a.values, ", ")
}

// MarshalJSON writes a Single as a string and a Multiple as an array
func (a SpecialAttack) MarshalJSON() ([]byte, error) {
	if a.multiple {
		if a.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.values)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a string or an array of strings. A JSON null leaves
// the value untouched.
func (a *SpecialAttack) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("special attack: empty value")
	}

	switch data[0] {
	case 'n':
		return nil
	case '"':
		var description string
		if err := json.Unmarshal(data, &description); err != nil {
			return fmt.Errorf("special attack: %w", err)
		}
		*a = SingleAttack(description)
		return nil
	case '[':
		var descriptions []string
		if err := json.Unmarshal(data, &descriptions); err != nil {
			return fmt.Errorf("special attack: %w", err)
		}
		*a = MultipleAttacks(descriptions...)
		return nil
	default:
		return fmt.Errorf("special attack: expected string or array of strings, got %s", data)
	}
}
