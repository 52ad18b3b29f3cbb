package entities

import (
	"time"
)

// Provider represents a therapist listed in the directory.
//
// Records are created by bulk import and are immutable on the read path.
// Sequence-typed fields are always non-nil so consumers never need
// nil-checks; list cells in the source data are free-form and may carry
// inconsistent labels (see ConsultationMode for how modes are handled).
type Provider struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	ProfileURL      string    `json:"profile_url,omitempty" db:"profile_url"`
	Gender          string    `json:"gender" db:"gender"`
	City            string    `json:"city" db:"city"`
	ExperienceYears float64   `json:"experience_years" db:"experience_years"`
	Email           string    `json:"email,omitempty" db:"email"`
	EmailsAll       []string  `json:"emails_all" db:"-"`
	Phone           string    `json:"phone,omitempty" db:"phone"`
	Modes           []string  `json:"modes" db:"-"`
	Education       []string  `json:"education" db:"-"`
	PriorRoles      []string  `json:"prior_roles" db:"-"`
	Specialties     []string  `json:"specialties" db:"-"`
	About           string    `json:"about" db:"about"`
	FeesRaw         string    `json:"fees_raw,omitempty" db:"fees_raw"`
	FeeAmount       float64   `json:"fee_amount" db:"fee_amount"`
	FeeCurrency     string    `json:"fee_currency" db:"fee_currency"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// ProviderPage is one page of a filtered provider listing. Total is the
// count of all records matching the filter, independent of the page
// window.
type ProviderPage struct {
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int         `json:"total"`
	Data  []*Provider `json:"data"`
}

// FacetCount is one bucket of a single-dimension facet.
type FacetCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// FilterOptions carries the per-dimension facet counts backing the
// filter panel. Counts cover the entire record set, not the currently
// filtered subset.
type FilterOptions struct {
	CityCounts       []FacetCount `json:"cityCounts"`
	GenderCounts     []FacetCount `json:"genderCounts"`
	ModeCounts       []FacetCount `json:"modeCounts"`
	ExperienceCounts []FacetCount `json:"experienceCounts"`
	FeeRangeCounts   []FacetCount `json:"feeRangeCounts"`
}
