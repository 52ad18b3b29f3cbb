package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/repositories"
)

// Paging defaults and bounds for the provider listing
const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

// ParseProviderFilter normalizes raw listing query parameters into a
// ProviderFilter. Parsing never fails: malformed numbers fall back to
// defaults, unknown bucket labels mean "no filter on that dimension".
func ParseProviderFilter(query url.Values) repositories.ProviderFilter {
	return repositories.ProviderFilter{
		Cities:     parseListParam(query, "cities"),
		Genders:    parseListParam(query, "genders"),
		Modes:      parseListParam(query, "modes"),
		Experience: repositories.ParseExperienceBucket(query.Get("experience")),
		Fee:        repositories.ParseFeeBucket(query.Get("feeRange")),
		Search:     strings.TrimSpace(query.Get("search")),
		Page:       parsePage(query.Get("page")),
		Limit:      parseLimit(query.Get("limit")),
	}
}

// parseListParam collects a multi-value parameter. Both styles are
// accepted and may be mixed: repeated keys (?city=a&city=b) and
// comma-joined values (?city=a,b). Blank entries are dropped.
func parseListParam(query url.Values, key string) []string {
	values := []string{}
	for _, raw := range query[key] {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	return values
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return defaultPage
	}
	return page
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
