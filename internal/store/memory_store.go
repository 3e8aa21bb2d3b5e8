package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/evyataryagoni/schoolfinder/internal/models"
)

// ErrEmptyCSV is returned when a seed file holds no rows at all
var ErrEmptyCSV = errors.New("CSV file is empty")

// MemoryStore implements Store in process memory
// Useful for local development and demos, data is lost on restart
type MemoryStore struct {
	mu      sync.RWMutex
	schools []models.School
	nextID  uint64
}

// NewMemoryStore creates a store holding the given seed schools
// Seed ids are reassigned sequentially starting at 1
func NewMemoryStore(seed []models.School) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, school := range seed {
		school.ID = s.nextID
		s.nextID++
		s.schools = append(s.schools, school)
	}
	return s
}

// NewMemoryStoreFromCSV creates a memory store seeded from a CSV file
func NewMemoryStoreFromCSV(filePath string) (*MemoryStore, error) {
	schools, err := ReadSchoolsCSV(filePath)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(schools), nil
}

// InsertSchool appends the school and assigns the next id
func (s *MemoryStore) InsertSchool(ctx context.Context, school *models.School) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	school.ID = s.nextID
	s.nextID++
	s.schools = append(s.schools, *school)
	return nil
}

// FetchAllSchools returns a copy of every stored school
func (s *MemoryStore) FetchAllSchools(ctx context.Context) ([]models.School, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.School, len(s.schools))
	copy(out, s.schools)
	return out, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close has nothing to release
func (s *MemoryStore) Close() error {
	return nil
}

// ReadSchoolsCSV reads schools from a CSV file
//
// CSV Format: name,address,latitude,longitude (first row is a header)
// Example: Springfield Elementary,742 Evergreen Terrace,44.0462,-123.0220
func ReadSchoolsCSV(filePath string) ([]models.School, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ParseSchoolsCSV(file)
}

// ParseSchoolsCSV parses CSV rows into schools
// Any row with the wrong column count or a bad coordinate fails the whole read
func ParseSchoolsCSV(r io.Reader) ([]models.School, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyCSV
	}

	schools := make([]models.School, 0, len(records)-1)
	for i, record := range records {
		// Header row
		if i == 0 {
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude %q", i+1, record[2])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude %q", i+1, record[3])
		}

		schools = append(schools, models.School{
			Name:      strings.TrimSpace(record[0]),
			Address:   strings.TrimSpace(record[1]),
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return schools, nil
}
