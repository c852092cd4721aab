package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var amountPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Cost is a price estimate written by the model. It always encodes as a
// number but decodes from a number, null, or text such as "$4,500",
// "€12.50 per person" or "Free". Text without an amount, booleans and
// objects decode to 0; a range like "$20-30" keeps its first amount.
type Cost float64

func (c *Cost) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	if data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			*c = 0
			return nil
		}
		*c = Cost(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cost: %w", err)
	}
	*c = ParseCost(s)
	return nil
}

// ParseCost extracts the first amount from free text, ignoring currency
// symbols and thousands separators.
func ParseCost(s string) Cost {
	match := amountPattern.FindString(strings.ReplaceAll(s, ",", ""))
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return Cost(f)
}
