package optimizer

import (
	"math"
	"strings"

	"card-optimizer/internal/domain"
)

// Aggregate recommends the best card for every transaction and totals the
// pass. Gross rewards are summed per transaction; annual fees are summed once
// per distinct card name that won at least one transaction.
//
// Transactions with a non-positive (or NaN) amount or a blank category are
// skipped and counted in Skipped. With an empty catalog nothing can be
// recommended, so every transaction is skipped and all totals are zero.
// Unknown categories are not skipped: they score at base rates.
func Aggregate(transactions []domain.Transaction, catalog []domain.Card) (domain.PortfolioSummary, []domain.RecommendationRow) {
	summary := domain.PortfolioSummary{CardsUsed: []string{}}
	rows := make([]domain.RecommendationRow, 0, len(transactions))
	counted := make(map[string]struct{})

	for _, tx := range transactions {
		if !eligible(tx) {
			summary.Skipped++
			continue
		}
		best, ok := BestCard(tx.Amount, tx.Category, catalog)
		if !ok {
			summary.Skipped++
			continue
		}

		rows = append(rows, domain.RecommendationRow{
			Date:            tx.Date,
			Vendor:          tx.Vendor,
			Category:        tx.Category,
			Amount:          tx.Amount,
			Planned:         tx.Planned,
			BestCard:        best.CardName,
			RewardRate:      best.RewardRate,
			MatchedCategory: best.MatchedCategory,
			GrossReward:     best.GrossReward,
			NetReward:       best.NetReward,
		})

		summary.TotalSpend += tx.Amount
		summary.TotalGrossRewards += best.GrossReward
		if _, seen := counted[best.CardName]; !seen {
			counted[best.CardName] = struct{}{}
			summary.TotalAnnualFees += best.AnnualFee
			summary.CardsUsed = append(summary.CardsUsed, best.CardName)
		}
	}

	summary.Recommended = len(rows)
	summary.NetRewards = summary.TotalGrossRewards - summary.TotalAnnualFees
	return summary, rows
}

// AggregateSpend runs Aggregate in monthly-spend mode: every category amount
// becomes one synthetic transaction, in the order given.
func AggregateSpend(spend []domain.CategorySpend, catalog []domain.Card) (domain.PortfolioSummary, []domain.RecommendationRow) {
	txns := make([]domain.Transaction, len(spend))
	for i, s := range spend {
		txns[i] = domain.Transaction{Category: s.Category, Amount: s.Amount}
	}
	return Aggregate(txns, catalog)
}

func eligible(tx domain.Transaction) bool {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) || tx.Amount <= 0 {
		return false
	}
	return strings.TrimSpace(tx.Category) != ""
}
