package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/evyataryagoni/schoolfinder/internal/config"
	"github.com/evyataryagoni/schoolfinder/internal/logger"
	"github.com/evyataryagoni/schoolfinder/internal/store"
)

// This tool imports schools from a CSV file (name,address,latitude,longitude)
// into the datastore selected by DATASTORE_TYPE
// Usage: go run ./cmd/import-schools -file data/schools.csv
func main() {
	appConfig := config.Load()

	filePath := flag.String("file", appConfig.DatastorePath, "CSV file with a name,address,latitude,longitude header")
	skipIfNotEmpty := flag.Bool("skip-if-not-empty", false, "do nothing when the datastore already holds schools")
	flag.Parse()

	log := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	}).WithComponent("import-schools")

	if *filePath == "" {
		log.Fatal().Msg("No CSV file given, use -file or DATASTORE_PATH")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schools, err := store.ReadSchoolsCSV(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *filePath).Msg("Failed to read CSV")
	}

	dataStore, err := store.Open(ctx, store.Config{
		Type:             appConfig.DatastoreType,
		MySQLDSN:         appConfig.MySQLDSN,
		MySQLAutoMigrate: appConfig.MySQLAutoMigrate,
		RedisAddr:        appConfig.RedisAddr,
		RedisPassword:    appConfig.RedisPassword,
		RedisDB:          appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Str("type", appConfig.DatastoreType).Msg("Failed to open datastore")
	}
	defer dataStore.Close()

	imported, err := importSchools(ctx, dataStore, schools, *skipIfNotEmpty)
	if err != nil {
		log.Error().Err(err).Int("imported", imported).Msg("Import failed")
		return
	}

	log.Info().
		Int("imported", imported).
		Int("rows", len(schools)).
		Str("path", *filePath).
		Str("datastore", appConfig.DatastoreType).
		Msg("Import finished")
}
