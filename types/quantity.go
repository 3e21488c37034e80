package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawQuantity holds a quantity exactly as the client sent it, either a JSON
// number or a JSON string.
type RawQuantity string

func (q *RawQuantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*q = RawQuantity(str)
		return nil
	}
	*q = RawQuantity(data)
	return nil
}

// ParseQuantity turns a raw quantity into a non-negative integer. Anything
// that is not a whole number >= 0 is a validation error, unless lenient is
// set, in which case it becomes 0.
func ParseQuantity(raw RawQuantity, lenient bool) (int, error) {
	text := strings.TrimSpace(string(raw))
	value, err := strconv.Atoi(text)
	if err != nil {
		// "6.0" is a whole number even if Atoi disagrees
		if f, ferr := strconv.ParseFloat(text, 64); ferr == nil && f == float64(int(f)) {
			value, err = int(f), nil
		}
	}
	if err != nil || value < 0 {
		if lenient {
			return 0, nil
		}
		if text == "" {
			return 0, ValidationError("quantity is required")
		}
		return 0, ValidationError("quantity must be a non-negative integer, got %q", text)
	}
	return value, nil
}
