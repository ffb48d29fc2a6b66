package api

import (
	"context"
	"sync"

	"github.com/srynk/pulse/internal/models"
)

// MockGeminiClient is a mock implementation of GeminiClientInterface for testing
type MockGeminiClient struct {
	// Mock return values
	Model              models.Model
	GenerateContentVal *models.ModelOutput
	GenerateContentErr error
	// GenerateFunc, when set, replaces the canned values
	GenerateFunc func(ctx context.Context, prompt string) (*models.ModelOutput, error)

	mu          sync.Mutex
	calls       int
	lastPrompt  string
	closeCalled bool
}

// Ensure MockGeminiClient implements GeminiClientInterface
var _ GeminiClientInterface = (*MockGeminiClient)(nil)

// NewMockReply returns a mock that answers every prompt with text
func NewMockReply(text string) *MockGeminiClient {
	return &MockGeminiClient{
		Model: models.DefaultModel,
		GenerateContentVal: &models.ModelOutput{
			Candidates: []models.Candidate{{Text: text, FinishReason: "STOP"}},
		},
	}
}

func (m *MockGeminiClient) GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	m.mu.Lock()
	m.calls++
	m.lastPrompt = prompt
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.GenerateContentVal, m.GenerateContentErr
}

func (m *MockGeminiClient) GetModel() models.Model {
	return m.Model
}

func (m *MockGeminiClient) SetModel(model models.Model) {
	m.Model = model
}

func (m *MockGeminiClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
}

func (m *MockGeminiClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}

// Calls returns how many times GenerateContent ran
func (m *MockGeminiClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the most recent prompt
func (m *MockGeminiClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}
