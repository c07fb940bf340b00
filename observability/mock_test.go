package observability

import "github.com/stretchr/testify/mock"

// MockEngine is a mock implementation of LoggerService.
type MockEngine struct {
	mock.Mock
	unsupported map[Level]bool
}

func (m *MockEngine) Supports(level Level) bool {
	return !m.unsupported[level]
}

func (m *MockEngine) Error(payload any, trace, context string) {
	m.Called(payload, trace, context)
}

func (m *MockEngine) Log(payload any, context string) {
	m.Called(payload, context)
}

func (m *MockEngine) Warn(payload any, context string) {
	m.Called(payload, context)
}

func (m *MockEngine) Debug(payload any, context string) {
	m.Called(payload, context)
}

func (m *MockEngine) Verbose(payload any, context string) {
	m.Called(payload, context)
}
