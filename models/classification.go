package models

import "strings"

// Classification is the hazard class of a stock item and the zone type of
// the rack that may hold it.
type Classification string

const (
	ClassInflammable Classification = "INFLAMMABLE"
	ClassToxic       Classification = "TOXIC"
	ClassFragile     Classification = "FRAGILE"
	ClassNormal      Classification = "NORMAL"
)

var Classifications = []Classification{ClassInflammable, ClassToxic, ClassFragile, ClassNormal}

// NormalizeClassification upper-cases and trims the value. Anything outside
// the four known classes becomes NORMAL.
func NormalizeClassification(value string) Classification {
	normalized := Classification(strings.ToUpper(strings.TrimSpace(value)))
	if normalized.Valid() {
		return normalized
	}
	return ClassNormal
}

func (c Classification) Valid() bool {
	for _, known := range Classifications {
		if c == known {
			return true
		}
	}
	return false
}

func (c Classification) String() string {
	return string(c)
}
