// Package optimizer picks the most rewarding card for each spend.
//
// Every function here is pure: inputs are read, never mutated, and nothing is
// cached between calls. Callers re-run the functions after editing a catalog
// or a transaction list.
package optimizer

import (
	"cmp"
	"math"
	"slices"

	"card-optimizer/internal/domain"
)

const monthsPerYear = 12

// ScoreCard computes the best applicable rate of card for a spend of amount in
// category, and the resulting gross reward, monthly fee share and net reward.
// The base rate is a floor; among multiplier keys only a strictly higher
// percent replaces the current best, so ties keep the earlier key.
func ScoreCard(amount float64, category string, card domain.Card) domain.CardOption {
	bestRate := card.BaseRate
	matched := BaseRateLabel

	for _, key := range ResolveCategories(category) {
		rate, ok := card.CategoryMultipliers[key]
		if ok && rate > bestRate {
			bestRate = rate
			matched = HumanizeKey(key)
		}
	}

	fee := annualFee(card)
	gross := amount * bestRate / 100
	feeShare := fee / monthsPerYear

	return domain.CardOption{
		CardName:        card.Name,
		Network:         card.Network,
		AnnualFee:       fee,
		RewardRate:      bestRate,
		MatchedCategory: matched,
		GrossReward:     gross,
		MonthlyFeeShare: feeShare,
		NetReward:       gross - feeShare,
	}
}

// CardOptions scores every card of the catalog and sorts the options by
// descending net reward. Equal net rewards keep catalog order.
func CardOptions(amount float64, category string, catalog []domain.Card) []domain.CardOption {
	if len(catalog) == 0 {
		return nil
	}
	options := make([]domain.CardOption, len(catalog))
	for i, card := range catalog {
		options[i] = ScoreCard(amount, category, card)
	}
	slices.SortStableFunc(options, func(a, b domain.CardOption) int {
		return cmp.Compare(b.NetReward, a.NetReward)
	})
	return options
}

// BestCard returns the first entry of CardOptions; ok is false only for an
// empty catalog.
func BestCard(amount float64, category string, catalog []domain.Card) (domain.CardOption, bool) {
	options := CardOptions(amount, category, catalog)
	if len(options) == 0 {
		return domain.CardOption{}, false
	}
	return options[0], true
}

// Некорректная комиссия (NaN, отрицательная) считается нулевой.
func annualFee(card domain.Card) float64 {
	if math.IsNaN(card.AnnualFee) || math.IsInf(card.AnnualFee, 0) || card.AnnualFee < 0 {
		return 0
	}
	return card.AnnualFee
}
