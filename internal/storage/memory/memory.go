// Package memory keeps the optimizer workspace (catalog, transactions, planned
// purchases, monthly spend) in process memory. Nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/storage"

	"github.com/google/uuid"
)

type Storage struct {
	mu      sync.RWMutex
	cards   []domain.Card
	txns    []domain.Transaction
	planned []domain.Transaction
	spend   []domain.CategorySpend
}

var _ storage.WorkspaceStorage = (*Storage)(nil)

func NewStorage(cards []domain.Card) *Storage {
	return &Storage{cards: copyCards(cards)}
}

// === CardStorage ===

func (s *Storage) ListCards(_ context.Context) ([]domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCards(s.cards), nil
}

func (s *Storage) ReplaceCards(_ context.Context, cards []domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = copyCards(cards)
	slog.Debug("Catalog replaced", "cards", len(cards))
	return nil
}

// UpsertCard заменяет карту с тем же именем или добавляет новую в конец.
func (s *Storage) UpsertCard(_ context.Context, card domain.Card) error {
	if strings.TrimSpace(card.Name) == "" {
		return fmt.Errorf("card name cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card = copyCard(card)
	for i := range s.cards {
		if s.cards[i].Name == card.Name {
			s.cards[i] = card
			return nil
		}
	}
	s.cards = append(s.cards, card)
	return nil
}

func (s *Storage) DeleteCard(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.cards[:0:0]
	for _, c := range s.cards {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(s.cards) {
		return fmt.Errorf("card %q: %w", name, storage.ErrNotFound)
	}
	s.cards = kept
	return nil
}

// === TransactionStorage ===

func (s *Storage) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Transaction{}, s.txns...), nil
}

func (s *Storage) AddTransactions(_ context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	added := withIDs(txns, false)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, added...)
	return added, nil
}

func (s *Storage) ReplaceTransactions(_ context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	added := withIDs(txns, false)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append([]domain.Transaction{}, added...)
	return added, nil
}

func (s *Storage) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed bool
	s.txns, removed = removeByID(s.txns, id)
	if !removed {
		s.planned, removed = removeByID(s.planned, id)
	}
	if !removed {
		return fmt.Errorf("transaction %q: %w", id, storage.ErrNotFound)
	}
	return nil
}

// === PlannedStorage ===

func (s *Storage) ListPlanned(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Transaction{}, s.planned...), nil
}

func (s *Storage) AddPlanned(_ context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	added := withIDs(txns, true)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planned = append(s.planned, added...)
	return added, nil
}

func (s *Storage) ClearPlanned(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planned = nil
	return nil
}

// === SpendStorage ===

func (s *Storage) GetSpend(_ context.Context) ([]domain.CategorySpend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CategorySpend{}, s.spend...), nil
}

func (s *Storage) SetSpend(_ context.Context, spend []domain.CategorySpend) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spend = s.spend[:0:0]
	s.spend = mergeSpend(s.spend, spend)
	return nil
}

// PatchSpend обновляет только переданные категории, остальные не трогает.
func (s *Storage) PatchSpend(_ context.Context, spend []domain.CategorySpend) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spend = mergeSpend(s.spend, spend)
	return nil
}

// === Workspace ===

func (s *Storage) Snapshot(_ context.Context) (storage.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return storage.Workspace{
		Cards:        copyCards(s.cards),
		Transactions: append([]domain.Transaction{}, s.txns...),
		Planned:      append([]domain.Transaction{}, s.planned...),
		Spend:        append([]domain.CategorySpend{}, s.spend...),
	}, nil
}

// Reset сбрасывает планируемые покупки и месячный бюджет; каталог и история остаются.
func (s *Storage) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planned = nil
	s.spend = nil
	return nil
}

func mergeSpend(dst, src []domain.CategorySpend) []domain.CategorySpend {
	for _, cs := range src {
		cs.Category = strings.ToLower(strings.TrimSpace(cs.Category))
		if cs.Category == "" {
			continue
		}
		found := false
		for i := range dst {
			if dst[i].Category == cs.Category {
				dst[i].Amount = cs.Amount
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, cs)
		}
	}
	return dst
}

func withIDs(txns []domain.Transaction, planned bool) []domain.Transaction {
	out := make([]domain.Transaction, len(txns))
	for i, tx := range txns {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		tx.Planned = planned
		out[i] = tx
	}
	return out
}

func removeByID(txns []domain.Transaction, id string) ([]domain.Transaction, bool) {
	for i, tx := range txns {
		if tx.ID == id {
			return append(txns[:i:i], txns[i+1:]...), true
		}
	}
	return txns, false
}

func copyCards(cards []domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		out[i] = copyCard(c)
	}
	return out
}

func copyCard(c domain.Card) domain.Card {
	c.CategoryMultipliers = maps.Clone(c.CategoryMultipliers)
	if c.CategoryMultipliers == nil {
		c.CategoryMultipliers = map[string]float64{}
	}
	return c
}
