package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"card-optimizer/internal/catalog"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const testCatalog = `{"credit_cards":[{"card_name":"A","annual_cost":"$95","base_rate_x":1,"category_multipliers_x":{"dining":3}}]}`

func TestOpen(t *testing.T) {
	ctx := context.Background()
	catalogPath := writeFile(t, "cc.json", testCatalog)
	txPath := writeFile(t, "tx.csv", "date,vendor,category,price\n"+
		"2025-01-05,Bistro,dining,$100\n"+
		"2025-02-05,Bistro,dining,$300\n"+
		"oops,Shell,gas,$10\n")

	store, err := Open(ctx, catalogPath, txPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	cards, _ := store.ListCards(ctx)
	if len(cards) != 1 || cards[0].AnnualFee != 95 {
		t.Errorf("cards = %+v", cards)
	}
	txns, _ := store.ListTransactions(ctx)
	if len(txns) != 2 {
		t.Errorf("transactions = %d, want 2", len(txns))
	}
	spend, _ := store.GetSpend(ctx)
	if len(spend) != 1 || spend[0].Category != "dining" || spend[0].Amount != 200 {
		t.Errorf("spend = %+v, want dining 200", spend)
	}
}

func TestOpen_CatalogOnly(t *testing.T) {
	store, err := Open(context.Background(), writeFile(t, "cc.json", testCatalog), "")
	if err != nil {
		t.Fatal(err)
	}
	if txns, _ := store.ListTransactions(context.Background()); len(txns) != 0 {
		t.Errorf("transactions = %d, want 0", len(txns))
	}
}

func TestOpen_EmptyCatalog(t *testing.T) {
	store, err := Open(context.Background(), writeFile(t, "cc.json", `{"credit_cards":[]}`), "")
	if err != nil {
		t.Fatalf("empty catalog must be accepted: %v", err)
	}
	if cards, _ := store.ListCards(context.Background()); len(cards) != 0 {
		t.Errorf("cards = %+v", cards)
	}
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, filepath.Join(t.TempDir(), "missing.json"), ""); err == nil {
		t.Error("missing catalog: expected error")
	}
	_, err := Open(ctx, writeFile(t, "cc.json", `{`), "")
	if err == nil || errors.Is(err, catalog.ErrNoCards) {
		t.Errorf("broken catalog error = %v", err)
	}
	if _, err := Open(ctx, writeFile(t, "cc.json", testCatalog), writeFile(t, "tx.csv", "a,b\n1,2\n")); err == nil {
		t.Error("bad transactions: expected error")
	}
}
