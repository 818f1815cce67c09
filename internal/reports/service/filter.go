package service

import (
	"strings"

	"github.com/petpoint/pet_point/internal/reports/domain"
)

// FacetAll passes every value of a facet dimension.
const FacetAll = "All"

// ApplyFilters combines free-text search with kind/status facets over an
// in-memory report list. Every call re-filters the full set; invisible
// reports never pass.
func ApplyFilters(reports []domain.Report, query, kindFacet, statusFacet string) []domain.Report {
	q := strings.ToLower(strings.TrimSpace(query))

	filtered := make([]domain.Report, 0, len(reports))
	for _, report := range reports {
		if !report.Visible {
			continue
		}
		if !matchesFacet(string(report.Kind), kindFacet) {
			continue
		}
		if !matchesFacet(report.Status, statusFacet) {
			continue
		}
		if q != "" && !matchesQuery(report, q) {
			continue
		}
		filtered = append(filtered, report)
	}
	return filtered
}

func matchesFacet(value, facet string) bool {
	if facet == "" || facet == FacetAll {
		return true
	}
	return value == facet
}

func matchesQuery(report domain.Report, q string) bool {
	for _, field := range []string{report.Title, report.Description, report.Location, report.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
