// internal/storage/storage.go
package storage

import (
	"card-optimizer/internal/domain"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type CardStorage interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
	ReplaceCards(ctx context.Context, cards []domain.Card) error
	UpsertCard(ctx context.Context, card domain.Card) error
	DeleteCard(ctx context.Context, name string) error
}

type TransactionStorage interface {
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	AddTransactions(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error)
	ReplaceTransactions(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error)
	// DeleteTransaction удаляет и исторические, и планируемые траты.
	DeleteTransaction(ctx context.Context, id string) error
}

type PlannedStorage interface {
	ListPlanned(ctx context.Context) ([]domain.Transaction, error)
	AddPlanned(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error)
	ClearPlanned(ctx context.Context) error
}

type SpendStorage interface {
	GetSpend(ctx context.Context) ([]domain.CategorySpend, error)
	SetSpend(ctx context.Context, spend []domain.CategorySpend) error
	PatchSpend(ctx context.Context, spend []domain.CategorySpend) error
}

// Workspace: согласованный снимок всех входов оптимизатора.
type Workspace struct {
	Cards        []domain.Card
	Transactions []domain.Transaction
	Planned      []domain.Transaction
	Spend        []domain.CategorySpend
}

type WorkspaceStorage interface {
	CardStorage
	TransactionStorage
	PlannedStorage
	SpendStorage
	Snapshot(ctx context.Context) (Workspace, error)
	Reset(ctx context.Context) error
}
