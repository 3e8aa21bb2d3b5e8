package main

import (
	"context"
	"fmt"

	"github.com/evyataryagoni/schoolfinder/internal/models"
	"github.com/evyataryagoni/schoolfinder/internal/store"
)

// importSchools inserts every school into s and returns how many were stored
// Stores that support bulk loading use it
func importSchools(ctx context.Context, s store.Store, schools []models.School, skipIfNotEmpty bool) (int, error) {
	if skipIfNotEmpty {
		existing, err := s.FetchAllSchools(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to check existing schools: %w", err)
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}

	if bulk, ok := s.(bulkLoader); ok {
		return bulk.LoadSchools(ctx, schools)
	}

	for i := range schools {
		school := schools[i]
		if err := s.InsertSchool(ctx, &school); err != nil {
			return i, fmt.Errorf("failed to insert row %d (%s): %w", i+1, school.Name, err)
		}
	}
	return len(schools), nil
}

type bulkLoader interface {
	LoadSchools(ctx context.Context, schools []models.School) (int, error)
}
