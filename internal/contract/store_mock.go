package contract

import (
	"github.com/stretchr/testify/mock"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// MockResultStore is a mock implementation of ResultStore for testing.
type MockResultStore struct {
	mock.Mock
}

var _ ResultStore = &MockResultStore{}

// SaveResult mocks persisting one scan result.
func (m *MockResultStore) SaveResult(result schema.ScanResult) (int64, error) {
	args := m.Called(result)
	return args.Get(0).(int64), args.Error(1)
}

// ListResults mocks listing stored results.
func (m *MockResultStore) ListResults(limit int) ([]schema.StoredResult, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.StoredResult), args.Error(1)
}

// GetResult mocks fetching a single stored result.
func (m *MockResultStore) GetResult(id int64) (schema.StoredResult, error) {
	args := m.Called(id)
	return args.Get(0).(schema.StoredResult), args.Error(1)
}

// GetStatus mocks fetching store status.
func (m *MockResultStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Clear mocks removing all stored results.
func (m *MockResultStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close mocks closing the underlying connection.
func (m *MockResultStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
