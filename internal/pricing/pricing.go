// SPDX-License-Identifier: MIT

// Package pricing computes session-pack quotes from the package table and
// the global discount tiers.
package pricing

import (
	"errors"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rishabh7g/rrishmusic/internal/content"
)

// MaxSessions caps quote requests. Nobody books a thousand lessons; values
// above this are treated as input errors rather than arithmetic inputs.
const MaxSessions = 1000

var (
	ErrInvalidSessions = errors.New("sessions must be at least 1")
	ErrTooManySessions = errors.New("sessions above limit")
)

var printer = message.NewPrinter(language.Make("en-AU"))

// Quote is the result of a pricing calculation. All amounts are whole
// Australian dollars.
type Quote struct {
	PackageID       string `json:"packageId"`
	PackageName     string `json:"packageName"`
	Sessions        int    `json:"sessions"`
	PricePerSession int    `json:"pricePerSession"`
	BaseAmount      int    `json:"baseAmount"`
	DiscountPercent int    `json:"discountPercent"`
	TierLabel       string `json:"tierLabel,omitempty"`
	DiscountAmount  int    `json:"discountAmount"`
	Total           int    `json:"total"`
	Currency        string `json:"currency"`
	Display         string `json:"display"`
}

// Calculate prices a number of sessions of the given package against the
// discount table. The tier with the highest threshold not exceeding the
// session count applies; below the lowest threshold (or with an empty
// table) the discount is zero. The discounted total is rounded half away
// from zero to whole dollars.
func Calculate(pkg content.Package, sessions int, tiers []content.DiscountTier) (Quote, error) {
	if sessions < 1 {
		return Quote{}, ErrInvalidSessions
	}
	if sessions > MaxSessions {
		return Quote{}, ErrTooManySessions
	}

	base := sessions * pkg.PricePerSession

	tier, ok := tierFor(sessions, tiers)
	percent := 0
	label := ""
	if ok {
		percent = tier.Percent
		label = tier.Label
	}

	total := discountedTotal(base, percent)

	return Quote{
		PackageID:       pkg.ID,
		PackageName:     pkg.Name,
		Sessions:        sessions,
		PricePerSession: pkg.PricePerSession,
		BaseAmount:      base,
		DiscountPercent: percent,
		TierLabel:       label,
		DiscountAmount:  base - total,
		Total:           total,
		Currency:        "AUD",
		Display:         FormatAUD(total),
	}, nil
}

// tierFor selects the highest tier whose threshold the session count meets.
// The table is validated to be strictly increasing at load, but selection
// does not depend on order.
func tierFor(sessions int, tiers []content.DiscountTier) (content.DiscountTier, bool) {
	var best content.DiscountTier
	found := false
	for _, t := range tiers {
		if t.MinSessions > sessions {
			continue
		}
		if !found || t.MinSessions > best.MinSessions {
			best = t
			found = true
		}
	}
	return best, found
}

// discountedTotal applies a percentage reduction and rounds half away from
// zero. Amounts are non-negative, so adding half the divisor before the
// integer division is exact.
func discountedTotal(base, percent int) int {
	return (base*(100-percent) + 50) / 100
}

// FormatAUD renders a whole-dollar amount for display.
func FormatAUD(amount int) string {
	return printer.Sprintf("%v", currency.NarrowSymbol(currency.AUD.Amount(amount)))
}
