package main

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/adapters/database"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/adapters/events"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/adapters/search"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/Therapistdirectorydesign/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-importer", cfg.Server.Env)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	adapter := database.NewProviderAdapter(pgClient)

	if err := adapter.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema")
	}

	if cfg.Import.Reset {
		log.Info().Msg("Clearing old records...")
		if err := adapter.Truncate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to truncate providers")
		}
	}

	// Search indexing is optional; the API falls back to database search
	var searchAdapter *search.TypesenseAdapter
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, skipping index build")
		} else {
			searchAdapter = search.NewTypesenseAdapter(tsClient)
			if err := searchAdapter.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
				searchAdapter = nil
			}
		}
	}

	log.Info().Str("path", cfg.Import.CSVPath).Msg("Reading CSV...")
	records, err := readProviderCSV(cfg.Import.CSVPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Import.CSVPath).Msg("Failed to read CSV")
	}
	log.Info().Int("rows", len(records)).Msg("Loaded CSV rows")

	inserted := 0
	for _, provider := range records {
		if err := adapter.Create(ctx, provider); err != nil {
			log.Error().Err(err).Str("name", provider.Name).Msg("Failed to insert provider")
			continue
		}
		if searchAdapter != nil {
			if err := searchAdapter.Index(ctx, provider); err != nil {
				log.Warn().Err(err).Str("id", provider.ID).Msg("Failed to index provider")
			}
		}
		inserted++
	}

	log.Info().Int("inserted", inserted).Msg("Import complete")

	// Tell running API instances their caches are stale
	if redisClient, err := redis.NewClient(&cfg.Redis); err == nil {
		defer redisClient.Close()
		eventBus := events.NewRedisEventBus(redisClient)
		defer eventBus.Close()

		event := entities.NewProvidersImportedEvent(inserted)
		if err := eventBus.Publish(ctx, providers.EventChannelDirectoryUpdates, event); err != nil {
			log.Warn().Err(err).Msg("Failed to publish import event")
		}
	} else {
		log.Warn().Err(err).Msg("Redis unavailable, skipping import event")
	}
}

// readProviderCSV reads the therapist export and maps each row onto a
// Provider. Rows keep the export's loose conventions: multi-value cells
// are delimiter-separated strings, numbers carry currency symbols and
// unit suffixes.
func readProviderCSV(path string) ([]*entities.Provider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := []*entities.Provider{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		name := field(row, "name")
		if name == "" {
			name = "Unknown"
		}

		records = append(records, &entities.Provider{
			ID:              uuid.NewString(),
			Name:            name,
			ProfileURL:      field(row, "profile_url"),
			Gender:          field(row, "gender"),
			City:            field(row, "city"),
			ExperienceYears: parseNumber(field(row, "experience_years")),
			Email:           field(row, "email"),
			EmailsAll:       parseList(field(row, "emails_all")),
			Phone:           field(row, "phone"),
			Modes:           parseList(field(row, "modes")),
			Education:       parseSemicolonList(field(row, "education")),
			PriorRoles:      parseSemicolonList(field(row, "experience")),
			Specialties:     parseSemicolonList(field(row, "expertise")),
			About:           field(row, "about"),
			FeesRaw:         field(row, "fees_raw"),
			FeeAmount:       parseNumber(field(row, "fee_amount")),
			FeeCurrency:     defaultString(field(row, "fee_currency"), "PKR"),
			CreatedAt:       time.Now().UTC(),
		})
	}

	return records, nil
}

var (
	listSeparators = regexp.MustCompile(`[;,|\n]`)
	nonNumeric     = regexp.MustCompile(`[^0-9.]`)
	surroundQuotes = regexp.MustCompile(`^"(.*)"$`)
)

// parseList splits a multi-value cell on any of the export's list
// delimiters.
func parseList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	values := []string{}
	for _, part := range listSeparators.Split(raw, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// parseSemicolonList handles quoted cells whose items themselves contain
// commas; only semicolons separate items there.
func parseSemicolonList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	cleaned := surroundQuotes.ReplaceAllString(raw, "$1")
	values := []string{}
	for _, part := range strings.Split(cleaned, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// parseNumber strips everything but digits and dots before parsing, so
// "Rs. 3,500" and "12 years" both come through.
func parseNumber(raw string) float64 {
	if raw == "" {
		return 0
	}
	num, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(raw, ""), 64)
	if err != nil {
		return 0
	}
	return num
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
