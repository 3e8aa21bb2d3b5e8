package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/evyataryagoni/schoolfinder/internal/geo"
	"github.com/evyataryagoni/schoolfinder/internal/logger"
	"github.com/evyataryagoni/schoolfinder/internal/metrics"
	"github.com/evyataryagoni/schoolfinder/internal/models"
	"github.com/evyataryagoni/schoolfinder/internal/store"
	"github.com/go-playground/validator/v10"
)

// Client-facing validation messages
const (
	MsgInvalidSchool      = "Please provide name, address, latitude (number), and longitude (number)."
	MsgMissingCoordinates = "Please provide latitude and longitude."
)

// SchoolService handles business logic for school records
// It sits between handlers and the store
//
// Responsibilities:
//   - Validate input
//   - Call the store
//   - Rank listings by distance
//   - Record metrics and logs
type SchoolService struct {
	store     store.Store
	validator *validator.Validate
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// listQuery holds the parsed reference point of a listing
type listQuery struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

// NewSchoolService creates a new school service
// m and log may be nil
func NewSchoolService(store store.Store, m *metrics.Metrics, log *logger.Logger) *SchoolService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &SchoolService{
		store:     store,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		metrics:   m,
		logger:    log.WithComponent("SchoolService"),
	}
}

// CreateSchool validates req and stores it as a new school
//
// Flow:
//  1. Trim and validate name, address and coordinates
//  2. Insert through the store
//  3. Return the stored school with its id
//
// Returns a *ValidationError (store not called) or a *StorageError
func (s *SchoolService) CreateSchool(ctx context.Context, req models.CreateSchoolRequest) (*models.School, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)

	if err := s.validator.Struct(req); err != nil {
		verr := s.toValidationError(err, MsgInvalidSchool)
		s.logger.Warn().Str("field", verr.Field).Msg("Invalid school payload")
		s.countValidationError("create", verr.Field)
		s.countCreated("validation_error")
		return nil, verr
	}

	school := &models.School{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}

	start := time.Now()
	err := s.store.InsertSchool(ctx, school)
	s.observeQuery("insert", start, err)
	if err != nil {
		s.logger.Error().Err(err).Str("name", school.Name).Msg("Error inserting school")
		s.countCreated("storage_error")
		return nil, &StorageError{Op: "insert", Err: err}
	}

	s.logger.Info().
		Uint64("id", school.ID).
		Str("name", school.Name).
		Float64("latitude", school.Latitude).
		Float64("longitude", school.Longitude).
		Msg("School added")
	s.countCreated("success")

	return school, nil
}

// ListSchools returns every school ranked by distance from the given point
// rawLat and rawLon are the unparsed query parameters; 0 is a valid coordinate
//
// Returns a *ValidationError (store not called) or a *StorageError
func (s *SchoolService) ListSchools(ctx context.Context, rawLat, rawLon string) ([]models.RankedSchool, error) {
	query, verr := s.parseListQuery(rawLat, rawLon)
	if verr != nil {
		s.logger.Warn().
			Str("latitude", rawLat).
			Str("longitude", rawLon).
			Str("field", verr.Field).
			Msg("Invalid listing coordinates")
		s.countValidationError("list", verr.Field)
		s.countListing("validation_error")
		return nil, verr
	}

	start := time.Now()
	schools, err := s.store.FetchAllSchools(ctx)
	s.observeQuery("fetch_all", start, err)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching schools")
		s.countListing("storage_error")
		return nil, &StorageError{Op: "fetch_all", Err: err}
	}

	ranked := geo.RankByDistance(query.Latitude, query.Longitude, schools)

	s.logger.Debug().
		Float64("latitude", query.Latitude).
		Float64("longitude", query.Longitude).
		Int("count", len(ranked)).
		Msg("Schools ranked by distance")
	s.countListing("success")
	if s.metrics != nil {
		s.metrics.SchoolsRanked.Observe(float64(len(ranked)))
	}

	return ranked, nil
}

// Ping checks the store, used by the health check
func (s *SchoolService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close closes the underlying store
func (s *SchoolService) Close() error {
	return s.store.Close()
}

// parseListQuery parses and range-checks the reference point
func (s *SchoolService) parseListQuery(rawLat, rawLon string) (listQuery, *ValidationError) {
	lat, ok := parseCoordinate(rawLat)
	if !ok {
		return listQuery{}, NewValidationError("latitude", MsgMissingCoordinates)
	}
	lon, ok := parseCoordinate(rawLon)
	if !ok {
		return listQuery{}, NewValidationError("longitude", MsgMissingCoordinates)
	}

	query := listQuery{Latitude: lat, Longitude: lon}
	if err := s.validator.Struct(query); err != nil {
		return listQuery{}, s.toValidationError(err, MsgMissingCoordinates)
	}
	return query, nil
}

// parseCoordinate parses a finite decimal number
func parseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// toValidationError turns the first validator failure into a client message
func (s *SchoolService) toValidationError(err error, fallback string) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", fallback)
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "latitude":
		return NewValidationError(field, "latitude must be a number between -90 and 90.")
	case "longitude":
		return NewValidationError(field, "longitude must be a number between -180 and 180.")
	default:
		return NewValidationError(field, fallback)
	}
}

func (s *SchoolService) countCreated(result string) {
	if s.metrics != nil {
		s.metrics.SchoolsCreatedTotal.WithLabelValues(result).Inc()
	}
}

func (s *SchoolService) countListing(result string) {
	if s.metrics != nil {
		s.metrics.SchoolListingsTotal.WithLabelValues(result).Inc()
	}
}

func (s *SchoolService) countValidationError(operation, field string) {
	if s.metrics != nil {
		s.metrics.ValidationErrors.WithLabelValues(operation, field).Inc()
	}
}

func (s *SchoolService) observeQuery(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.DatastoreQueriesTotal.WithLabelValues(operation, status).Inc()
	s.metrics.DatastoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
