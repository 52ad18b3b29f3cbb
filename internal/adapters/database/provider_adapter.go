package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Therapistdirectorydesign/backend/pkg/errors"
)

// shortSearchMax is the query length below which substring matching is
// used instead of the indexed text search. Short queries fall below the
// tokenizer's minimum term length and produce false negatives there.
const shortSearchMax = 3

var providerColumns = []interface{}{
	"id", "name", "profile_url", "gender", "city", "experience_years",
	"email", "emails_all", "phone", "modes", "education", "prior_roles",
	"specialties", "about", "fees_raw", "fee_amount", "fee_currency",
	"created_at",
}

// ProviderAdapter implements ProviderRepository on PostgreSQL
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) *ProviderAdapter {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.ProviderRepository = (*ProviderAdapter)(nil)

// EnsureSchema creates the providers table and its indexes if missing.
// Used by the importer; the API assumes the schema exists.
func (a *ProviderAdapter) EnsureSchema(ctx context.Context) error {
	// search_vector is populated at insert time: array_to_string is not
	// immutable, so a generated column cannot derive it. Records never
	// change after import, so insert-time is enough.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS providers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			profile_url TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			experience_years DOUBLE PRECISION NOT NULL DEFAULT 0,
			email TEXT NOT NULL DEFAULT '',
			emails_all TEXT[] NOT NULL DEFAULT '{}',
			phone TEXT NOT NULL DEFAULT '',
			modes TEXT[] NOT NULL DEFAULT '{}',
			education TEXT[] NOT NULL DEFAULT '{}',
			prior_roles TEXT[] NOT NULL DEFAULT '{}',
			specialties TEXT[] NOT NULL DEFAULT '{}',
			about TEXT NOT NULL DEFAULT '',
			fees_raw TEXT NOT NULL DEFAULT '',
			fee_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			fee_currency TEXT NOT NULL DEFAULT 'PKR',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			search_vector TSVECTOR
		)`,
		`CREATE INDEX IF NOT EXISTS providers_search_idx ON providers USING GIN (search_vector)`,
		`CREATE INDEX IF NOT EXISTS providers_city_idx ON providers (city)`,
		`CREATE INDEX IF NOT EXISTS providers_gender_idx ON providers (gender)`,
		`CREATE INDEX IF NOT EXISTS providers_modes_idx ON providers USING GIN (modes)`,
	}

	for _, stmt := range stmts {
		if _, err := a.client.DB().ExecContext(ctx, stmt); err != nil {
			return apperrors.NewInternalError("failed to ensure providers schema", err)
		}
	}
	return nil
}

// Truncate drops all providers (importer reset path)
func (a *ProviderAdapter) Truncate(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, `TRUNCATE TABLE providers`); err != nil {
		return apperrors.NewInternalError("failed to truncate providers", err)
	}
	return nil
}

// Create inserts a new provider
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	searchText := strings.Join([]string{
		provider.Name,
		strings.Join(provider.Specialties, " "),
		strings.Join(provider.Education, " "),
		provider.About,
	}, " ")

	record := goqu.Record{
		"id":               provider.ID,
		"name":             provider.Name,
		"profile_url":      provider.ProfileURL,
		"gender":           provider.Gender,
		"city":             provider.City,
		"experience_years": provider.ExperienceYears,
		"email":            provider.Email,
		"emails_all":       pq.Array(provider.EmailsAll),
		"phone":            provider.Phone,
		"modes":            pq.Array(provider.Modes),
		"education":        pq.Array(provider.Education),
		"prior_roles":      pq.Array(provider.PriorRoles),
		"specialties":      pq.Array(provider.Specialties),
		"about":            provider.About,
		"fees_raw":         provider.FeesRaw,
		"fee_amount":       provider.FeeAmount,
		"fee_currency":     provider.FeeCurrency,
		"created_at":       provider.CreatedAt,
		"search_vector":    goqu.L("to_tsvector('english', ?)", searchText),
	}

	query, args, err := a.db.Insert("providers").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create provider", err)
	}

	return nil
}

// GetByID retrieves a provider by ID
func (a *ProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	provider, err := a.scanProvider(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}

	return provider, nil
}

// ListWithCount returns one page of providers matching the filter plus
// the total match count. The same filtered dataset backs both queries,
// so total is independent of the page window.
func (a *ProviderAdapter) ListWithCount(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, int, error) {
	filtered := a.filteredDataset(filter)

	countSQL, countArgs, err := filtered.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count providers", err)
	}

	ds := filtered.Select(providerColumns...).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if offset := filter.Offset(); offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	providers := []*entities.Provider{}
	for rows.Next() {
		provider, err := a.scanProvider(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, provider)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("error iterating providers", err)
	}

	return providers, total, nil
}

// filteredDataset builds the combined data predicate: all active filter
// dimensions AND'ed together, modes OR'ed across their variant lists.
func (a *ProviderAdapter) filteredDataset(filter repositories.ProviderFilter) *goqu.SelectDataset {
	ds := a.db.From("providers")

	switch {
	case filter.RestrictToIDs:
		// ids came from the external search index; an empty list means
		// the query matched nothing
		if len(filter.IDs) == 0 {
			ds = ds.Where(goqu.L("FALSE"))
		} else {
			ds = ds.Where(goqu.Ex{"id": filter.IDs})
		}
	case filter.Search != "":
		if utf8.RuneCountInString(filter.Search) < shortSearchMax {
			pattern := fmt.Sprintf("%%%s%%", filter.Search)
			ds = ds.Where(goqu.Or(
				goqu.I("name").ILike(pattern),
				goqu.I("about").ILike(pattern),
				goqu.L("array_to_string(specialties, ' ') ILIKE ?", pattern),
				goqu.L("array_to_string(education, ' ') ILIKE ?", pattern),
			))
		} else if tsquery := orTSQuery(filter.Search); tsquery != "" {
			ds = ds.Where(goqu.L("search_vector @@ to_tsquery('english', ?)", tsquery))
		} else {
			// search was all punctuation; no term can match
			ds = ds.Where(goqu.L("FALSE"))
		}
	}

	if len(filter.Cities) > 0 {
		ds = ds.Where(goqu.Ex{"city": filter.Cities})
	}

	if len(filter.Genders) > 0 {
		ds = ds.Where(goqu.Ex{"gender": filter.Genders})
	}

	if len(filter.Modes) > 0 {
		conds := make([]goqu.Expression, 0, len(filter.Modes))
		for _, mode := range filter.Modes {
			variants := entities.ModeVariants(mode)
			conds = append(conds, goqu.L("modes && ?::text[]", pq.Array(variants)))
		}
		ds = ds.Where(goqu.Or(conds...))
	}

	if min, minInclusive, max := filter.Experience.Range(); min != nil || max != nil {
		col := goqu.I("experience_years")
		if min != nil {
			if minInclusive {
				ds = ds.Where(col.Gte(*min))
			} else {
				ds = ds.Where(col.Gt(*min))
			}
		}
		if max != nil {
			ds = ds.Where(col.Lte(*max))
		}
	}

	if min, minInclusive, max, maxInclusive := filter.Fee.Range(); min != nil || max != nil {
		col := goqu.I("fee_amount")
		if min != nil {
			if minInclusive {
				ds = ds.Where(col.Gte(*min))
			} else {
				ds = ds.Where(col.Gt(*min))
			}
		}
		if max != nil {
			if maxInclusive {
				ds = ds.Where(col.Lte(*max))
			} else {
				ds = ds.Where(col.Lt(*max))
			}
		}
	}

	return ds
}

// orTSQuery turns free text into a tsquery matching records that contain
// any of the terms. to_tsquery treats punctuation as operator syntax, so
// each term is stripped to letters and digits before joining with |.
func orTSQuery(search string) string {
	terms := []string{}
	for _, field := range strings.Fields(search) {
		term := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, field)
		if term != "" {
			terms = append(terms, term)
		}
	}
	return strings.Join(terms, " | ")
}

// FilterOptions computes facet counts over the entire record set. The
// counts deliberately ignore any active filters: the panel answers "how
// many providers overall fall in bucket X".
func (a *ProviderAdapter) FilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	cityCounts, err := a.groupCounts(ctx, "city", true)
	if err != nil {
		return nil, err
	}

	genderCounts, err := a.groupCounts(ctx, "gender", false)
	if err != nil {
		return nil, err
	}

	rawModeCounts, err := a.rawModeCounts(ctx)
	if err != nil {
		return nil, err
	}

	experienceCounts, err := a.bucketCounts(ctx, experienceBucketCase, []string{
		string(repositories.Experience0to5),
		string(repositories.Experience5to10),
		string(repositories.Experience10to15),
		string(repositories.Experience15Up),
	})
	if err != nil {
		return nil, err
	}

	feeRangeCounts, err := a.bucketCounts(ctx, feeBucketCase, []string{
		string(repositories.FeeUnder2000),
		string(repositories.Fee2000to4k),
		string(repositories.Fee4kto6k),
		string(repositories.FeeAbove6k),
	})
	if err != nil {
		return nil, err
	}

	return &entities.FilterOptions{
		CityCounts:       cityCounts,
		GenderCounts:     genderCounts,
		ModeCounts:       entities.ConsolidateModeCounts(rawModeCounts),
		ExperienceCounts: experienceCounts,
		FeeRangeCounts:   feeRangeCounts,
	}, nil
}

// Bucket CASE expressions mirror the half-open ranges in
// repositories.ExperienceBucket/FeeBucket; evaluation order resolves the
// shared edges (5 lands in '0-5', 4000 in '2000-4000').
const (
	experienceBucketCase = `CASE
		WHEN experience_years <= 5 THEN '0-5'
		WHEN experience_years <= 10 THEN '5-10'
		WHEN experience_years <= 15 THEN '10-15'
		ELSE '15+'
	END`

	feeBucketCase = `CASE
		WHEN fee_amount < 2000 THEN 'under-2000'
		WHEN fee_amount <= 4000 THEN '2000-4000'
		WHEN fee_amount <= 6000 THEN '4000-6000'
		ELSE 'above-6000'
	END`
)

func (a *ProviderAdapter) groupCounts(ctx context.Context, column string, byCountDesc bool) ([]entities.FacetCount, error) {
	ds := a.db.From("providers").
		Select(goqu.I(column).As("key"), goqu.COUNT("*").As("count")).
		GroupBy(column)

	if byCountDesc {
		ds = ds.Order(goqu.I("count").Desc(), goqu.I("key").Asc())
	} else {
		ds = ds.Order(goqu.I("key").Asc())
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facet query", err)
	}

	return a.scanFacetCounts(ctx, query, args...)
}

// rawModeCounts counts occurrences of every raw mode label: the modes
// arrays are flattened first, so a record with two labels in the same
// bucket contributes twice. Consolidation happens in the domain layer.
func (a *ProviderAdapter) rawModeCounts(ctx context.Context) ([]entities.FacetCount, error) {
	flattened := a.db.From("providers").Select(goqu.L("unnest(modes)").As("mode"))

	query, args, err := a.db.From(flattened.As("flattened")).
		Select(goqu.I("mode").As("key"), goqu.COUNT("*").As("count")).
		GroupBy("mode").
		Order(goqu.I("key").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build mode facet query", err)
	}

	return a.scanFacetCounts(ctx, query, args...)
}

// bucketCounts groups records by a CASE bucket expression and reports
// every bucket in canonical order, zero-filled when empty.
func (a *ProviderAdapter) bucketCounts(ctx context.Context, caseExpr string, order []string) ([]entities.FacetCount, error) {
	query, args, err := a.db.From("providers").
		Select(goqu.L(caseExpr).As("key"), goqu.COUNT("*").As("count")).
		GroupBy(goqu.L(caseExpr)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build bucket facet query", err)
	}

	counts, err := a.scanFacetCounts(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]int, len(counts))
	for _, c := range counts {
		byKey[c.Key] = c.Count
	}

	result := make([]entities.FacetCount, 0, len(order))
	for _, key := range order {
		result = append(result, entities.FacetCount{Key: key, Count: byKey[key]})
	}
	return result, nil
}

func (a *ProviderAdapter) scanFacetCounts(ctx context.Context, query string, args ...interface{}) ([]entities.FacetCount, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query facet counts", err)
	}
	defer rows.Close()

	counts := []entities.FacetCount{}
	for rows.Next() {
		var fc entities.FacetCount
		if err := rows.Scan(&fc.Key, &fc.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan facet count", err)
		}
		counts = append(counts, fc)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facet counts", err)
	}

	return counts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *ProviderAdapter) scanProvider(row rowScanner) (*entities.Provider, error) {
	provider := &entities.Provider{}
	err := row.Scan(
		&provider.ID,
		&provider.Name,
		&provider.ProfileURL,
		&provider.Gender,
		&provider.City,
		&provider.ExperienceYears,
		&provider.Email,
		pq.Array(&provider.EmailsAll),
		&provider.Phone,
		pq.Array(&provider.Modes),
		pq.Array(&provider.Education),
		pq.Array(&provider.PriorRoles),
		pq.Array(&provider.Specialties),
		&provider.About,
		&provider.FeesRaw,
		&provider.FeeAmount,
		&provider.FeeCurrency,
		&provider.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// sequence fields are never nil for consumers
	if provider.EmailsAll == nil {
		provider.EmailsAll = []string{}
	}
	if provider.Modes == nil {
		provider.Modes = []string{}
	}
	if provider.Education == nil {
		provider.Education = []string{}
	}
	if provider.PriorRoles == nil {
		provider.PriorRoles = []string{}
	}
	if provider.Specialties == nil {
		provider.Specialties = []string{}
	}

	return provider, nil
}
