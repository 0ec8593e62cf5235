// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package models

import (
	"fmt"
	"strings"
)

// BudgetTier is a price symbol on the ordered $ .. $$$$ scale.
type BudgetTier string

// Budget tiers in ascending order.
const (
	BudgetLow      BudgetTier = "$"
	BudgetModerate BudgetTier = "$$"
	BudgetHigh     BudgetTier = "$$$"
	BudgetLuxury   BudgetTier = "$$$$"
)

// AllBudgetTiers is the fixed enumeration order. Majority ties resolve to
// the earliest tier in this list.
var AllBudgetTiers = []BudgetTier{BudgetLow, BudgetModerate, BudgetHigh, BudgetLuxury}

// Level returns the 1-based position of the tier, or 0 for unknown values.
func (b BudgetTier) Level() int {
	for i, t := range AllBudgetTiers {
		if t == b {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether b is one of the four known tiers.
func (b BudgetTier) Valid() bool {
	return b.Level() > 0
}

// Distance returns the number of steps between two tiers on the scale.
// It returns -1 if either tier is unknown.
func (b BudgetTier) Distance(other BudgetTier) int {
	l1, l2 := b.Level(), other.Level()
	if l1 == 0 || l2 == 0 {
		return -1
	}
	if l1 > l2 {
		return l1 - l2
	}
	return l2 - l1
}

func (b BudgetTier) String() string {
	return string(b)
}

// ParseBudgetTier parses a price symbol, tolerating surrounding whitespace.
func ParseBudgetTier(s string) (BudgetTier, error) {
	tier := BudgetTier(strings.TrimSpace(s))
	if !tier.Valid() {
		return "", fmt.Errorf("invalid budget tier %q", s)
	}
	return tier, nil
}
