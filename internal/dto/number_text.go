package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NumberText is form input that may arrive as a JSON number or a string. The
// raw text is kept so callers parse it the way the form does.
type NumberText string

// UnmarshalJSON accepts numbers, strings and null.
func (n *NumberText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected number or string, got %s", data)
	}
	*n = NumberText(num.String())
	return nil
}

// String returns the raw text.
func (n NumberText) String() string {
	return string(n)
}
