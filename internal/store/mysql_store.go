package store

import (
	"context"
	"fmt"
	"time"

	"github.com/evyataryagoni/schoolfinder/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SchoolModel is the GORM model for the schools table
type SchoolModel struct {
	ID        uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string  `gorm:"column:name;size:255;not null"`
	Address   string  `gorm:"column:address;size:255;not null"`
	Latitude  float64 `gorm:"column:latitude;not null"`
	Longitude float64 `gorm:"column:longitude;not null"`
}

// TableName keeps GORM from pluralizing to "school_models"
func (SchoolModel) TableName() string {
	return "schools"
}

func (m SchoolModel) toSchool() models.School {
	return models.School{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
	}
}

// MySQLStore implements Store using MySQL through GORM
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore opens a pooled MySQL connection
//
// Parameters:
//   - dsn: user:password@tcp(host:port)/dbname?parseTime=true
//   - autoMigrate: create or update the schools table on start
func NewMySQLStore(ctx context.Context, dsn string, autoMigrate bool) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	store := &MySQLStore{db: db}
	if autoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Migrate creates the schools table if it does not exist
func (s *MySQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&SchoolModel{}); err != nil {
		return fmt.Errorf("failed to migrate schools table: %w", err)
	}
	return nil
}

// InsertSchool runs INSERT INTO schools (name, address, latitude, longitude)
// and copies the auto-increment id back into school
func (s *MySQLStore) InsertSchool(ctx context.Context, school *models.School) error {
	record := SchoolModel{
		Name:      school.Name,
		Address:   school.Address,
		Latitude:  school.Latitude,
		Longitude: school.Longitude,
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert school: %w", err)
	}

	school.ID = record.ID
	return nil
}

// FetchAllSchools runs SELECT * FROM schools ORDER BY id
func (s *MySQLStore) FetchAllSchools(ctx context.Context) ([]models.School, error) {
	var records []SchoolModel

	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	schools := make([]models.School, 0, len(records))
	for _, record := range records {
		schools = append(schools, record.toSchool())
	}
	return schools, nil
}

// Ping checks the underlying connection
func (s *MySQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
