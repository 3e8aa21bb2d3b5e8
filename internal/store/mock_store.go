package store

import (
	"context"
	"sync"

	"github.com/evyataryagoni/schoolfinder/internal/models"
)

// MockStore is a test double for the Store interface
// It allows tests to control behavior and verify interactions
type MockStore struct {
	mu sync.Mutex

	// Schools holds the mock data returned by FetchAllSchools
	Schools []models.School

	// Track method calls for verification in tests
	InsertCalls   []models.School
	FetchAllCalls int
	PingCalls     int
	CloseCalled   bool

	// Control behavior for error scenarios
	InsertError   error
	FetchAllError error
	PingError     error
	CloseError    error
}

// NewMockStore creates a mock store with a few schools around Sydney
func NewMockStore() *MockStore {
	return &MockStore{
		Schools: []models.School{
			{ID: 1, Name: "Sydney Boys High School", Address: "Moore Park, Sydney NSW", Latitude: -33.8932, Longitude: 151.2226},
			{ID: 2, Name: "Parramatta High School", Address: "Great Western Hwy, Parramatta NSW", Latitude: -33.8150, Longitude: 150.9925},
			{ID: 3, Name: "Fort Street High School", Address: "Parramatta Rd, Petersham NSW", Latitude: -33.8924, Longitude: 151.1556},
		},
	}
}

// NewEmptyMockStore creates a mock store with no data
func NewEmptyMockStore() *MockStore {
	return &MockStore{}
}

// InsertSchool implements the Store interface
func (m *MockStore) InsertSchool(ctx context.Context, school *models.School) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls = append(m.InsertCalls, *school)

	if m.InsertError != nil {
		return m.InsertError
	}

	school.ID = uint64(len(m.Schools) + 1)
	m.Schools = append(m.Schools, *school)
	return nil
}

// FetchAllSchools implements the Store interface
func (m *MockStore) FetchAllSchools(ctx context.Context) ([]models.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchAllCalls++

	if m.FetchAllError != nil {
		return nil, m.FetchAllError
	}

	out := make([]models.School, len(m.Schools))
	copy(out, m.Schools)
	return out, nil
}

// Ping implements the Store interface
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PingCalls++
	return m.PingError
}

// Close implements the Store interface
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CloseCalled = true
	return m.CloseError
}
