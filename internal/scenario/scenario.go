// Package scenario evaluates several transaction sets against the same
// catalog in parallel, e.g. history alone versus history plus planned
// purchases.
package scenario

import (
	"context"
	"fmt"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/optimizer"

	"golang.org/x/sync/errgroup"
)

const (
	Historical  = "historical"
	WithPlanned = "with_planned"
)

type Scenario struct {
	Name         string
	Transactions []domain.Transaction
}

type Result struct {
	Name    string                     `json:"name"`
	Summary domain.PortfolioSummary    `json:"summary"`
	Rows    []domain.RecommendationRow `json:"rows"`
}

type Comparison struct {
	Historical  Result `json:"historical"`
	WithPlanned Result `json:"with_planned"`
	// NetDelta: насколько планируемые покупки меняют чистую выгоду портфеля.
	NetDelta float64 `json:"net_delta"`
}

// Evaluate aggregates every scenario concurrently. Results keep the order of
// scenarios. Only context cancellation produces an error.
func Evaluate(ctx context.Context, catalog []domain.Card, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			summary, rows := optimizer.Aggregate(sc.Transactions, catalog)
			results[i] = Result{Name: sc.Name, Summary: summary, Rows: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Compare evaluates history with and without planned purchases.
func Compare(ctx context.Context, catalog []domain.Card, historical, planned []domain.Transaction) (Comparison, error) {
	combined := make([]domain.Transaction, 0, len(historical)+len(planned))
	combined = append(combined, historical...)
	combined = append(combined, planned...)

	results, err := Evaluate(ctx, catalog, []Scenario{
		{Name: Historical, Transactions: historical},
		{Name: WithPlanned, Transactions: combined},
	})
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Historical:  results[0],
		WithPlanned: results[1],
		NetDelta:    results[1].Summary.NetRewards - results[0].Summary.NetRewards,
	}, nil
}
