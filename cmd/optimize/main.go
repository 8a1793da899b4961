// cmd/optimize/main.go
package main

import (
	"card-optimizer/internal/catalog"
	"card-optimizer/internal/config"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/importer"
	"card-optimizer/internal/optimizer"
	"card-optimizer/internal/report"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	val "card-optimizer/internal/validator"
)

const (
	modeSpreadsheet = "spreadsheet"
	modeMonthly     = "monthly"
)

type options struct {
	CatalogPath      string
	TransactionsPath string `validate:"required"`
	Mode             string `validate:"oneof=spreadsheet monthly"`
	Month            string `validate:"omitempty,yearmonth|eq=all"`
	Output           string
}

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(config.NewLogger(cfg.LogLevel))

	if err := run(os.Args[1:], cfg, os.Stdout); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, cfg config.Config) (options, error) {
	var opts options
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	fs.StringVar(&opts.CatalogPath, "catalog", cfg.CatalogPath, "card catalog JSON")
	fs.StringVar(&opts.TransactionsPath, "transactions", cfg.TransactionsPath, "transactions CSV (date, vendor, category, price)")
	fs.StringVar(&opts.Mode, "mode", modeSpreadsheet, "spreadsheet: best card per transaction; monthly: best card per category of average monthly spend")
	fs.StringVar(&opts.Month, "month", "", "only use transactions of this month (YYYY-MM)")
	fs.StringVar(&opts.Output, "output", "-", "CSV output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Month = strings.ToLower(strings.TrimSpace(opts.Month))
	if err := val.Struct(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

func run(args []string, cfg config.Config, stdout io.Writer) error {
	opts, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}

	cards, err := catalog.Load(opts.CatalogPath)
	if err != nil && !errors.Is(err, catalog.ErrNoCards) {
		return err
	}

	f, err := os.Open(opts.TransactionsPath)
	if err != nil {
		return fmt.Errorf("open transactions: %w", err)
	}
	defer f.Close()

	res, err := importer.Parse(f)
	if err != nil {
		return err
	}
	if res.Dropped > 0 {
		slog.Warn("Rows with unreadable date or price were dropped", "dropped", res.Dropped)
	}
	txns := filterMonth(res.Transactions, opts.Month)

	var (
		summary domain.PortfolioSummary
		rows    []domain.RecommendationRow
	)
	switch opts.Mode {
	case modeMonthly:
		summary, rows = optimizer.AggregateSpend(optimizer.MonthlyAverages(txns), cards)
	default:
		summary, rows = optimizer.Aggregate(txns, cards)
	}

	if opts.Output == "-" {
		err = report.WriteCSV(stdout, rows)
	} else {
		err = report.WriteCSVFile(opts.Output, rows)
	}
	if err != nil {
		return err
	}

	for _, line := range report.SummaryLines(summary) {
		slog.Info(line)
	}
	slog.Info("Done", "mode", opts.Mode, "cards", len(cards), "transactions", len(txns), "rows", len(rows))
	return nil
}

func filterMonth(txns []domain.Transaction, month string) []domain.Transaction {
	if month == "" || strings.EqualFold(month, "all") {
		return txns
	}
	var out []domain.Transaction
	for _, tx := range txns {
		if tx.Date.Format("2006-01") == month {
			out = append(out, tx)
		}
	}
	return out
}
