package service

import (
	"context"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/store"
)

// MockDeckArchive implements DeckArchive for testing
type MockDeckArchive struct {
	SaveFn      func(ctx context.Context, deck domain.Deck) (store.SaveResult, error)
	GetLatestFn func(ctx context.Context, address string) (*domain.Deck, error)
}

// Save implements DeckArchive
func (m *MockDeckArchive) Save(ctx context.Context, deck domain.Deck) (store.SaveResult, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, deck)
	}
	return store.SaveResult{}, nil
}

// GetLatest implements DeckArchive
func (m *MockDeckArchive) GetLatest(ctx context.Context, address string) (*domain.Deck, error) {
	if m.GetLatestFn != nil {
		return m.GetLatestFn(ctx, address)
	}
	return nil, nil
}
