package entities

import (
	"strings"
)

// ConsultationMode is one of the two coarse consultation-channel buckets
// the UI exposes. Raw mode labels in the scraped source data are messy
// ("Virtual telepho", "-perso", "I", ...), so raw strings are mapped into
// buckets rather than enumerated.
type ConsultationMode string

const (
	ModeInPerson ConsultationMode = "In-person"
	ModeOnline   ConsultationMode = "Online"

	// ModeOther marks labels neither heuristic recognizes. They are
	// matched only by exact raw-string equality and excluded from the
	// consolidated facet counts.
	ModeOther ConsultationMode = "Other"
)

// Match-time variant lists. Filtering matches records against these
// enumerated raw strings; counting goes through ClassifyMode instead.
// Both must cover the same semantic buckets — consultation_mode_test.go
// asserts every variant classifies into its own bucket.
var (
	inPersonVariants = []string{
		"In-person", "I", "-perso", "In person", "in-person", "in person",
	}
	onlineVariants = []string{
		"Virtual telephonic", "Virtual video-based", "Virtual telepho", "ic",
		"Online", "online", "Virtual", "virtual",
	}
)

// ClassifyMode maps a raw consultation-mode label into a canonical
// bucket. In-person is tested before Online; first match wins for
// labels that satisfy both heuristics.
func ClassifyMode(raw string) ConsultationMode {
	lower := strings.ToLower(raw)

	if strings.Contains(lower, "person") || strings.Contains(lower, "perso") ||
		raw == "I" || raw == "-perso" {
		return ModeInPerson
	}

	if strings.Contains(lower, "virtual") || strings.Contains(lower, "telepho") ||
		strings.Contains(lower, "video") || strings.Contains(lower, "ic") {
		return ModeOnline
	}

	return ModeOther
}

// ModeVariants returns the enumerated raw labels a filter on the given
// mode should match. Unrecognized filter values fall back to exact
// matching on the value itself.
func ModeVariants(mode string) []string {
	switch ConsultationMode(mode) {
	case ModeInPerson:
		return inPersonVariants
	case ModeOnline:
		return onlineVariants
	default:
		return []string{mode}
	}
}

// ConsolidateModeCounts folds per-raw-label occurrence counts into the
// two canonical buckets. A record contributing several raw labels that
// land in the same bucket is counted once per label occurrence, matching
// a flatten-then-group aggregation. Other labels are dropped.
func ConsolidateModeCounts(rawCounts []FacetCount) []FacetCount {
	var inPerson, online int
	for _, rc := range rawCounts {
		switch ClassifyMode(rc.Key) {
		case ModeInPerson:
			inPerson += rc.Count
		case ModeOnline:
			online += rc.Count
		}
	}

	return []FacetCount{
		{Key: string(ModeInPerson), Count: inPerson},
		{Key: string(ModeOnline), Count: online},
	}
}
