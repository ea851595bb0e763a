package handler

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// price is a ticket price that accepts a JSON number or a numeric string.
// Anything else, including null or an absent field, leaves Valid false.
type price struct {
	Value float64
	Valid bool
}

func (p *price) UnmarshalJSON(b []byte) error {
	p.Value, p.Valid = 0, false
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	p.Value, p.Valid = f, true
	return nil
}
