package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/storage"
)

func TestCards(t *testing.T) {
	ctx := context.Background()
	s := NewStorage([]domain.Card{{Name: "A", BaseRate: 1}})

	if err := s.UpsertCard(ctx, domain.Card{Name: "B", BaseRate: 2}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	if err := s.UpsertCard(ctx, domain.Card{Name: "A", BaseRate: 1.5}); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	if err := s.UpsertCard(ctx, domain.Card{Name: "  "}); err == nil {
		t.Error("expected error for blank name")
	}

	cards, _ := s.ListCards(ctx)
	if len(cards) != 2 || cards[0].Name != "A" || cards[0].BaseRate != 1.5 || cards[1].Name != "B" {
		t.Fatalf("cards = %+v", cards)
	}

	cards[0].CategoryMultipliers["dining"] = 99
	again, _ := s.ListCards(ctx)
	if _, ok := again[0].CategoryMultipliers["dining"]; ok {
		t.Error("ListCards must return copies")
	}

	if err := s.DeleteCard(ctx, "A"); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}
	if err := s.DeleteCard(ctx, "A"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestTransactionsAndPlanned(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(nil)

	added, err := s.AddTransactions(ctx, []domain.Transaction{
		{Date: time.Now(), Vendor: "Shell", Category: "gas", Amount: 40},
		{Vendor: "Cafe", Category: "dining", Amount: 12, Planned: true},
	})
	if err != nil {
		t.Fatalf("AddTransactions: %v", err)
	}
	if added[0].ID == "" || added[0].ID == added[1].ID {
		t.Fatalf("ids not assigned: %+v", added)
	}
	if added[1].Planned {
		t.Error("historical transactions must not be flagged as planned")
	}

	planned, _ := s.AddPlanned(ctx, []domain.Transaction{{Vendor: "TV", Category: "online_shopping", Amount: 900}})
	if !planned[0].Planned {
		t.Error("planned purchase should be flagged")
	}

	if err := s.DeleteTransaction(ctx, planned[0].ID); err != nil {
		t.Fatalf("delete planned: %v", err)
	}
	if err := s.DeleteTransaction(ctx, added[0].ID); err != nil {
		t.Fatalf("delete txn: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	txns, _ := s.ListTransactions(ctx)
	if len(txns) != 1 || txns[0].Vendor != "Cafe" {
		t.Errorf("txns = %+v", txns)
	}

	replaced, _ := s.ReplaceTransactions(ctx, []domain.Transaction{{Vendor: "Only", Category: "gas", Amount: 1}})
	txns, _ = s.ListTransactions(ctx)
	if len(txns) != 1 || txns[0].ID != replaced[0].ID {
		t.Errorf("after replace = %+v", txns)
	}
}

func TestSpend(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(nil)

	_ = s.SetSpend(ctx, []domain.CategorySpend{{Category: "Groceries", Amount: 400}, {Category: "dining", Amount: 200}})
	_ = s.PatchSpend(ctx, []domain.CategorySpend{{Category: "dining", Amount: 250}, {Category: "gas", Amount: 80}, {Category: " ", Amount: 5}})

	got, _ := s.GetSpend(ctx)
	want := []domain.CategorySpend{
		{Category: "groceries", Amount: 400},
		{Category: "dining", Amount: 250},
		{Category: "gas", Amount: 80},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("spend = %v, want %v", got, want)
	}

	_ = s.SetSpend(ctx, []domain.CategorySpend{{Category: "hotels", Amount: 100}})
	got, _ = s.GetSpend(ctx)
	if len(got) != 1 || got[0].Category != "hotels" {
		t.Errorf("SetSpend should replace, got %v", got)
	}
}

func TestSnapshotAndReset(t *testing.T) {
	ctx := context.Background()
	s := NewStorage([]domain.Card{{Name: "A"}})
	_, _ = s.AddTransactions(ctx, []domain.Transaction{{Category: "gas", Amount: 1}})
	_, _ = s.AddPlanned(ctx, []domain.Transaction{{Category: "gas", Amount: 2}})
	_ = s.SetSpend(ctx, []domain.CategorySpend{{Category: "gas", Amount: 3}})

	ws, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws.Cards) != 1 || len(ws.Transactions) != 1 || len(ws.Planned) != 1 || len(ws.Spend) != 1 {
		t.Fatalf("snapshot = %+v", ws)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	ws, _ = s.Snapshot(ctx)
	if len(ws.Planned) != 0 || len(ws.Spend) != 0 || len(ws.Transactions) != 1 || len(ws.Cards) != 1 {
		t.Errorf("after reset = %+v", ws)
	}
}
