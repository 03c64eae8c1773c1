package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/wallet-wrapped/internal/generation"
)

// MockAIClient implements generation.AIClient for testing. Responses are raw
// JSON strings that go through generation.DecodeStructured, so schema
// validation is exercised exactly as with a real model.
type MockAIClient struct {
	// CallFn allows test cases to choose the raw response per request
	CallFn func(ctx context.Context, req generation.StructuredRequest) (string, error)

	// Default responses when CallFn is nil
	DataResponse  string
	MediaResponse string
	Err           error

	// Call tracking for verification
	Calls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Requests contains every request received
		Requests []generation.StructuredRequest
	}
}

// CallStructuredJSON implements generation.AIClient
func (m *MockAIClient) CallStructuredJSON(ctx context.Context, req generation.StructuredRequest, out any) error {
	m.Calls.mu.Lock()
	m.Calls.Requests = append(m.Calls.Requests, req)
	m.Calls.mu.Unlock()

	var (
		raw string
		err error
	)
	switch {
	case m.CallFn != nil:
		raw, err = m.CallFn(ctx, req)
	case m.Err != nil:
		err = m.Err
	case req.Schema == generation.MediaSchema:
		raw = m.MediaResponse
	default:
		raw = m.DataResponse
	}
	if err != nil {
		return err
	}
	return generation.DecodeStructured([]byte(raw), out)
}

// CallCount returns the number of calls received.
func (m *MockAIClient) CallCount() int {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return len(m.Calls.Requests)
}

// Requests returns a copy of the received requests.
func (m *MockAIClient) Requests() []generation.StructuredRequest {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	out := make([]generation.StructuredRequest, len(m.Calls.Requests))
	copy(out, m.Calls.Requests)
	return out
}

// NewMockAIClientWithData creates a MockAIClient that answers data prompts
// with data and media prompts with media.
func NewMockAIClientWithData(data, media string) *MockAIClient {
	return &MockAIClient{DataResponse: data, MediaResponse: media}
}

// NewMockAIClientWithError creates a MockAIClient whose every call fails.
func NewMockAIClientWithError(err error) *MockAIClient {
	return &MockAIClient{Err: err}
}

// MockSanitizer implements generation.Sanitizer. Without SanitizeFn it
// returns its input unchanged.
type MockSanitizer struct {
	SanitizeFn func(raw string) string

	mu    sync.Mutex
	calls int
}

// Sanitize implements generation.Sanitizer
func (m *MockSanitizer) Sanitize(raw string) string {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.SanitizeFn != nil {
		return m.SanitizeFn(raw)
	}
	return raw
}

// CallCount returns the number of Sanitize calls.
func (m *MockSanitizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockImageGenerator implements generation.ImageGenerator for testing
type MockImageGenerator struct {
	GenerateFn func(ctx context.Context, prompt string) ([]byte, error)
	EditFn     func(ctx context.Context, prompt string, images [][]byte) ([]byte, error)
}

// Generate implements generation.ImageGenerator
func (m *MockImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	return []byte("png"), nil
}

// Edit implements generation.ImageGenerator
func (m *MockImageGenerator) Edit(ctx context.Context, prompt string, images [][]byte) ([]byte, error) {
	if m.EditFn != nil {
		return m.EditFn(ctx, prompt, images)
	}
	return []byte("png"), nil
}

// MockUploader implements generation.Uploader for testing
type MockUploader struct {
	UploadFn func(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Upload implements generation.Uploader
func (m *MockUploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, name, data, contentType)
	}
	return "https://storage.example.com/media/" + name, nil
}
