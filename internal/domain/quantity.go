package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Quantity is a whole-unit count. Values that cannot be read as a number
// become 0 instead of failing the surrounding record.
type Quantity int

// ParseQuantity reads the leading integer of s, ignoring surrounding blanks
// and anything after the digits. "12 pcs" is 12, "abc" is 0.
func ParseQuantity(s string) Quantity {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return Quantity(n)
}

func (q Quantity) Int() int { return int(q) }

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*q = 0
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*q = 0
			return nil
		}
		*q = ParseQuantity(s)
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			*q = 0
			return nil
		}
		*q = Quantity(int(f))
	}
	return nil
}
