package store

import (
	"context"
	"errors"

	"github.com/evyataryagoni/schoolfinder/internal/models"
)

// ErrUnknownDatastore is returned by Open for an unsupported DatastoreType
var ErrUnknownDatastore = errors.New("unknown datastore type")

// Store is the storage collaborator for school records
// Implementations (MySQL, Redis, memory) must be safe for concurrent use
type Store interface {
	// InsertSchool persists a new school and sets school.ID
	InsertSchool(ctx context.Context, school *models.School) error

	// FetchAllSchools returns every stored school, ordered by ID
	FetchAllSchools(ctx context.Context) ([]models.School, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close cleans up resources (database connections, clients, etc.)
	Close() error
}
