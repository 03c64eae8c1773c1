package api

import (
	"context"
	"sync"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/service"
	"github.com/phrazzld/wallet-wrapped/internal/task"
)

// MockWrappedService is a function-field mock of WrappedService.
type MockWrappedService struct {
	GenerateDeckFn   func(ctx context.Context, address string, force bool) (*service.DeckResult, error)
	GenerateCardFn   func(ctx context.Context, address, generatorID string) (*service.CardResult, error)
	GenerateCustomFn func(ctx context.Context, address, name, dataPrompt, mediaPrompt string) (*service.CardResult, error)
	CollectionFn     func(ctx context.Context, address string) (*domain.Collection, error)
	LatestDeckFn     func(ctx context.Context, address string) (*domain.Deck, error)
	GeneratorsFn     func() []service.GeneratorInfo

	mu    sync.Mutex
	calls int
}

func (m *MockWrappedService) record() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

// CallCount returns how many service methods were invoked.
func (m *MockWrappedService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockWrappedService) GenerateDeck(ctx context.Context, address string, force bool) (*service.DeckResult, error) {
	m.record()
	if m.GenerateDeckFn != nil {
		return m.GenerateDeckFn(ctx, address, force)
	}
	return &service.DeckResult{Address: address}, nil
}

func (m *MockWrappedService) GenerateCard(ctx context.Context, address, generatorID string) (*service.CardResult, error) {
	m.record()
	if m.GenerateCardFn != nil {
		return m.GenerateCardFn(ctx, address, generatorID)
	}
	return &service.CardResult{Address: address, GeneratorID: generatorID}, nil
}

func (m *MockWrappedService) GenerateCustom(ctx context.Context, address, name, dataPrompt, mediaPrompt string) (*service.CardResult, error) {
	m.record()
	if m.GenerateCustomFn != nil {
		return m.GenerateCustomFn(ctx, address, name, dataPrompt, mediaPrompt)
	}
	return &service.CardResult{Address: address, GeneratorID: name}, nil
}

func (m *MockWrappedService) Collection(ctx context.Context, address string) (*domain.Collection, error) {
	m.record()
	if m.CollectionFn != nil {
		return m.CollectionFn(ctx, address)
	}
	return nil, service.ErrNotFound
}

func (m *MockWrappedService) LatestDeck(ctx context.Context, address string) (*domain.Deck, error) {
	m.record()
	if m.LatestDeckFn != nil {
		return m.LatestDeckFn(ctx, address)
	}
	return nil, service.ErrNotFound
}

func (m *MockWrappedService) Generators() []service.GeneratorInfo {
	m.record()
	if m.GeneratorsFn != nil {
		return m.GeneratorsFn()
	}
	return nil
}

// fakeSubmitter records submitted tasks in a tracker without running them.
type fakeSubmitter struct {
	tracker   *task.Tracker
	err       error
	submitted []task.Task
}

func (f *fakeSubmitter) Submit(ctx context.Context, t task.Task) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, t)
	return f.tracker.SaveTask(ctx, t)
}
