// Package report renders optimizer output as CSV or plain text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/money"
)

var csvHeader = []string{
	"Date", "Vendor", "Category", "Amount", "Best Card", "Reward Rate",
	"Matched Category", "Gross Rewards", "Net (1/12 fee deducted)",
}

// WriteCSVFile writes rows to a CSV file at path.
func WriteCSVFile(path string, rows []domain.RecommendationRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return WriteCSV(f, rows)
}

// WriteCSV writes one line per recommendation, amounts formatted as dollars.
func WriteCSV(out io.Writer, rows []domain.RecommendationRow) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		record := []string{
			date,
			r.Vendor,
			r.Category,
			money.FormatUSD(r.Amount),
			r.BestCard,
			money.FormatRate(r.RewardRate),
			r.MatchedCategory,
			money.FormatUSD(r.GrossReward),
			money.FormatUSD(r.NetReward),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SummaryLines renders the portfolio totals the way the dashboard shows them.
func SummaryLines(s domain.PortfolioSummary) []string {
	lines := []string{
		"Total Gross Rewards: " + money.FormatUSD(s.TotalGrossRewards),
		"Total Spend: " + money.FormatUSD(s.TotalSpend),
		"Total Annual Costs: " + money.FormatUSD(s.TotalAnnualFees),
		"Net Rewards (After Fees): " + money.FormatUSD(s.NetRewards),
		fmt.Sprintf("Cards used: %d (annual fees counted once per card)", len(s.CardsUsed)),
	}
	if s.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("Skipped transactions: %d", s.Skipped))
	}
	return lines
}
