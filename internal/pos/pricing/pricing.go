// Package pricing computes unit prices from quantity tiers and markup overrides.
package pricing

import "math"

// Money represents a monetary value stored in whole currency units.
type Money = int64

// Tier thresholds: larger orders earn a smaller markup over base price.
const (
	baseMarkupPercent   = 15.0
	mediumMarkupPercent = 13.0
	bulkMarkupPercent   = 11.0

	mediumQty = 10
	bulkQty   = 100
)

// TierInfo describes the markup applied to a line, for display.
type TierInfo struct {
	Name          string  `json:"name"`
	MarkupPercent float64 `json:"markup_percent"`
	IsDiscounted  bool    `json:"is_discounted"`
	IsCustom      bool    `json:"is_custom"`
}

// ResolveUnitPrice computes the unit price to charge for a line.
// A custom markup percent overrides tier selection entirely. Non-positive
// base price or quantity yields 0 rather than an error.
func ResolveUnitPrice(basePrice Money, quantity int, customMarkupPercent *float64) Money {
	if basePrice <= 0 || quantity <= 0 {
		return 0
	}
	pct := tierPercent(quantity)
	if customMarkupPercent != nil {
		pct = *customMarkupPercent
	}
	return applyMarkup(basePrice, pct)
}

// TierFor returns the pricing tier that applies to the given quantity,
// or the custom pseudo-tier when an override is set.
func TierFor(quantity int, customMarkupPercent *float64) TierInfo {
	if customMarkupPercent != nil {
		return TierInfo{
			Name:          "custom",
			MarkupPercent: *customMarkupPercent,
			IsDiscounted:  *customMarkupPercent < baseMarkupPercent,
			IsCustom:      true,
		}
	}
	pct := tierPercent(quantity)
	info := TierInfo{MarkupPercent: pct, IsDiscounted: pct < baseMarkupPercent}
	switch {
	case quantity >= bulkQty:
		info.Name = "bulk"
	case quantity >= mediumQty:
		info.Name = "medium"
	default:
		info.Name = "base"
	}
	return info
}

func tierPercent(quantity int) float64 {
	switch {
	case quantity >= bulkQty:
		return bulkMarkupPercent
	case quantity >= mediumQty:
		return mediumMarkupPercent
	default:
		return baseMarkupPercent
	}
}

// applyMarkup rounds to the nearest whole currency unit.
func applyMarkup(base Money, pct float64) Money {
	return Money(math.Round(float64(base) * (1 + pct/100)))
}
