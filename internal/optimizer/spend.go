package optimizer

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"card-optimizer/internal/domain"
)

const (
	monthLayout       = "2006-01"
	maxCategoryTotals = 20
)

// SpendByCategory sums amounts per category, largest first. month is a
// YYYY-MM filter; "" or "all" keeps every transaction. At most 20 categories
// are returned.
func SpendByCategory(transactions []domain.Transaction, month string) []domain.CategorySpend {
	month = strings.TrimSpace(month)
	all := month == "" || strings.EqualFold(month, "all")

	totals := make(map[string]float64)
	for _, tx := range transactions {
		if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
			continue
		}
		if !all && (tx.Date.IsZero() || tx.Date.Format(monthLayout) != month) {
			continue
		}
		totals[normalizeCategory(tx.Category)] += tx.Amount
	}

	out := make([]domain.CategorySpend, 0, len(totals))
	for c, amt := range totals {
		out = append(out, domain.CategorySpend{Category: c, Amount: amt})
	}
	slices.SortFunc(out, func(a, b domain.CategorySpend) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})
	if len(out) > maxCategoryTotals {
		out = out[:maxCategoryTotals]
	}
	return out
}

// Months lists the distinct YYYY-MM values of dated transactions, ascending.
func Months(transactions []domain.Transaction) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			continue
		}
		m := tx.Date.Format(monthLayout)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// MonthlyAverages estimates the monthly spend of each category: the category
// total divided by the number of distinct months in the set. Known categories
// come first in table order, the rest alphabetically. These are the defaults
// for monthly-spend mode. This is a per-month figure on purpose, not the mean
// transaction size.
func MonthlyAverages(transactions []domain.Transaction) []domain.CategorySpend {
	months := len(Months(transactions))
	if months == 0 {
		return nil
	}

	totals := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Date.IsZero() || !eligible(tx) {
			continue
		}
		totals[normalizeCategory(tx.Category)] += tx.Amount
	}

	out := make([]domain.CategorySpend, 0, len(totals))
	for _, c := range Categories() {
		if amt, ok := totals[c]; ok {
			out = append(out, domain.CategorySpend{Category: c, Amount: amt / float64(months)})
			delete(totals, c)
		}
	}
	var rest []string
	for c := range totals {
		rest = append(rest, c)
	}
	slices.Sort(rest)
	for _, c := range rest {
		out = append(out, domain.CategorySpend{Category: c, Amount: totals[c] / float64(months)})
	}
	return out
}
