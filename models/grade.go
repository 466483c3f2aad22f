package models

import (
	"encoding/json"
	"fmt"
)

// Grade holds a student's grade. Existing datasets mix JSON strings ("A",
// "pass") and bare numbers (92, 3.5), so Grade accepts both forms and keeps
// numeric values unquoted when encoding.
type Grade string

// UnmarshalJSON accepts a JSON string or number. null decodes to the empty
// value, which the required-field checks then reject.
func (g *Grade) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*g = Grade(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*g = Grade(n.String())
		return nil
	}
	return fmt.Errorf("grade must be a string or a number, got %s", data)
}

// MarshalJSON emits values that are valid JSON number tokens without quotes
// so numeric grades survive a round trip unchanged.
func (g Grade) MarshalJSON() ([]byte, error) {
	var n json.Number
	if err := json.Unmarshal([]byte(g), &n); err == nil && n.String() == string(g) {
		return []byte(g), nil
	}
	return json.Marshal(string(g))
}
