package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/evyataryagoni/schoolfinder/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	insertSchoolSQL = regexp.QuoteMeta("INSERT INTO `schools` (`name`,`address`,`latitude`,`longitude`) VALUES (?,?,?,?)")
	selectSchoolSQL = regexp.QuoteMeta("SELECT * FROM `schools` ORDER BY id")
)

// setupMockDB creates a mock database for testing
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return db, mock, sqlDB
}

// TestMySQLStore_InsertSchool_Success tests the INSERT statement and id assignment
func TestMySQLStore_InsertSchool_Success(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec(insertSchoolSQL).
		WithArgs("Sydney Boys High School", "Moore Park", -33.8932, 151.2226).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	school := &models.School{
		Name:      "Sydney Boys High School",
		Address:   "Moore Park",
		Latitude:  -33.8932,
		Longitude: 151.2226,
	}

	if err := store.InsertSchool(context.Background(), school); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if school.ID != 7 {
		t.Errorf("expected id 7 from LAST_INSERT_ID, got %d", school.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLStore_InsertSchool_ZeroCoordinates tests that 0,0 is written as-is
func TestMySQLStore_InsertSchool_ZeroCoordinates(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec(insertSchoolSQL).
		WithArgs("Null Island Academy", "Gulf of Guinea", 0.0, 0.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	school := &models.School{Name: "Null Island Academy", Address: "Gulf of Guinea"}
	if err := store.InsertSchool(context.Background(), school); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLStore_InsertSchool_DatabaseError tests that driver errors are wrapped
func TestMySQLStore_InsertSchool_DatabaseError(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec(insertSchoolSQL).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	school := &models.School{Name: "A", Address: "B", Latitude: 1, Longitude: 2}
	err := store.InsertSchool(context.Background(), school)

	if err == nil {
		t.Fatal("expected database error, got nil")
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("expected wrapped sql.ErrConnDone, got %v", err)
	}
	if school.ID != 0 {
		t.Errorf("expected id to stay 0 on failure, got %d", school.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLStore_FetchAllSchools_Success tests the SELECT and row mapping
func TestMySQLStore_FetchAllSchools_Success(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	rows := sqlmock.NewRows([]string{"id", "name", "address", "latitude", "longitude"}).
		AddRow(1, "Sydney Boys High School", "Moore Park", -33.8932, 151.2226).
		AddRow(2, "Parramatta High School", "Parramatta", -33.8150, 150.9925)

	mock.ExpectQuery(selectSchoolSQL).WillReturnRows(rows)

	schools, err := store.FetchAllSchools(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schools) != 2 {
		t.Fatalf("expected 2 schools, got %d", len(schools))
	}
	if schools[0].ID != 1 || schools[0].Name != "Sydney Boys High School" {
		t.Errorf("unexpected first school: %+v", schools[0])
	}
	if schools[1].Latitude != -33.8150 || schools[1].Longitude != 150.9925 {
		t.Errorf("unexpected coordinates: %+v", schools[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestMySQLStore_FetchAllSchools_Empty tests an empty table returns an empty, non-nil slice
func TestMySQLStore_FetchAllSchools_Empty(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectQuery(selectSchoolSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "latitude", "longitude"}))

	schools, err := store.FetchAllSchools(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schools == nil || len(schools) != 0 {
		t.Errorf("expected empty slice, got %#v", schools)
	}

	mock.ExpectationsWereMet()
}

// TestMySQLStore_FetchAllSchools_DatabaseError tests query errors
func TestMySQLStore_FetchAllSchools_DatabaseError(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectQuery(selectSchoolSQL).WillReturnError(sql.ErrConnDone)

	schools, err := store.FetchAllSchools(context.Background())

	if err == nil {
		t.Error("expected database error, got nil")
	}
	if schools != nil {
		t.Error("expected nil schools, got data")
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("expected wrapped sql.ErrConnDone, got %v", err)
	}

	mock.ExpectationsWereMet()
}

// TestMySQLStore_FetchAllSchools_UTF8 tests non-ASCII names survive the mapping
func TestMySQLStore_FetchAllSchools_UTF8(t *testing.T) {
	tests := []struct {
		name    string
		school  string
		address string
	}{
		{"Portuguese", "Colégio São Bento", "São Paulo"},
		{"Chinese", "北京四中", "北京"},
		{"Cyrillic", "Школа № 57", "Москва"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, sqlDB := setupMockDB(t)
			defer sqlDB.Close()

			store := &MySQLStore{db: db}

			rows := sqlmock.NewRows([]string{"id", "name", "address", "latitude", "longitude"}).
				AddRow(1, tt.school, tt.address, 10.0, 20.0)
			mock.ExpectQuery(selectSchoolSQL).WillReturnRows(rows)

			schools, err := store.FetchAllSchools(context.Background())

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if schools[0].Name != tt.school || schools[0].Address != tt.address {
				t.Errorf("expected %s / %s, got %s / %s", tt.school, tt.address, schools[0].Name, schools[0].Address)
			}

			mock.ExpectationsWereMet()
		})
	}
}

// TestMySQLStore_Ping tests pinging through the pool
func TestMySQLStore_Ping(t *testing.T) {
	db, _, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}

// TestMySQLStore_Close tests cleanup
func TestMySQLStore_Close(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	store := &MySQLStore{db: db}

	mock.ExpectClose()

	if err := store.Close(); err != nil {
		t.Errorf("unexpected error on close: %v", err)
	}

	mock.ExpectationsWereMet()
}

// TestMySQLStore_Close_NilDB tests close with nil db
func TestMySQLStore_Close_NilDB(t *testing.T) {
	store := &MySQLStore{db: nil}

	if err := store.Close(); err != nil {
		t.Errorf("expected no error for nil db, got: %v", err)
	}
}

// TestSchoolModel_TableName tests GORM table name override
func TestSchoolModel_TableName(t *testing.T) {
	if got := (SchoolModel{}).TableName(); got != "schools" {
		t.Errorf("expected table name 'schools', got '%s'", got)
	}
}
