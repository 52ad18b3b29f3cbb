package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("DB_NAME")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("TYPESENSE_URL")
	os.Unsetenv("IMPORT_CSV_PATH")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "therapist_directory", cfg.Database.Database)
	assert.Equal(t, "", cfg.Typesense.URL)
	assert.Equal(t, "data/therapists.csv", cfg.Import.CSVPath)
	assert.False(t, cfg.Import.Reset)
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	os.Setenv("TYPESENSE_API_KEY", "test-key")
	os.Setenv("IMPORT_RESET", "true")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("TYPESENSE_URL")
		os.Unsetenv("TYPESENSE_API_KEY")
		os.Unsetenv("IMPORT_RESET")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
	assert.True(t, cfg.Import.Reset)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Database: "therapist_directory",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=postgres password=secret dbname=therapist_directory sslmode=disable",
		cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "redis", Port: 6379}
	assert.Equal(t, "redis:6379", cfg.RedisAddr())
}
