// Package workspace builds the in-memory workspace the binaries start from.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"card-optimizer/internal/catalog"
	"card-optimizer/internal/importer"
	"card-optimizer/internal/optimizer"
	"card-optimizer/internal/storage/memory"
)

// Open loads the catalog and, when transactionsPath is set, imports the
// transaction history and seeds the monthly spend with per-category averages.
// An empty catalog is allowed: every transaction is then skipped.
func Open(ctx context.Context, catalogPath, transactionsPath string) (*memory.Storage, error) {
	cards, err := catalog.Load(catalogPath)
	if err != nil {
		if !errors.Is(err, catalog.ErrNoCards) {
			return nil, err
		}
		slog.Warn("Catalog is empty, nothing can be recommended", "path", catalogPath)
	}
	slog.Info("Catalog loaded", "path", catalogPath, "cards", len(cards))

	store := memory.NewStorage(cards)
	if transactionsPath == "" {
		return store, nil
	}

	f, err := os.Open(transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("open transactions: %w", err)
	}
	defer f.Close()

	res, err := importer.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("transactions %s: %w", transactionsPath, err)
	}
	if _, err := store.AddTransactions(ctx, res.Transactions); err != nil {
		return nil, err
	}
	if err := store.SetSpend(ctx, optimizer.MonthlyAverages(res.Transactions)); err != nil {
		return nil, err
	}
	slog.Info("Transactions imported", "path", transactionsPath, "imported", len(res.Transactions), "dropped", res.Dropped)
	return store, nil
}
