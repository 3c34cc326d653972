package analytics

import (
	"fmt"
	"strings"

	"github.com/salesanalytics/models"
)

// GroupAppModernization is the reporting group covering the smaller product lines
const GroupAppModernization = "app-modernization"

var (
	// ForecastCategories in pipeline order
	ForecastCategories = []string{
		models.ForecastOmit,
		models.ForecastPipeline,
		models.ForecastUpside,
		models.ForecastCommit,
		models.ForecastClosedWon,
	}

	// SalesStages in funnel order
	SalesStages = []string{
		models.StageQualify,
		models.StageRefine,
		models.StageTechEval,
		models.StageProposal,
		models.StageMigrate,
	}

	// ProductGroups are the four reporting groups
	ProductGroups = []string{"gcp-core", "data-analytics", "cloud-security", GroupAppModernization}

	// WinCategories are the categories a win is recorded under
	WinCategories = []string{models.WinCategoryGCP, models.WinCategoryDA}

	appModernization = []string{"mandiant", "looker", "apigee", "maps", "marketplace", "vertex-ai-platform"}
)

// ProductCategories returns every stored product category
func ProductCategories() []string {
	return append([]string{"gcp-core", "data-analytics", "cloud-security"}, appModernization...)
}

// ProductCategoryFilters returns the values accepted by product category filters:
// stored categories plus the app-modernization group.
func ProductCategoryFilters() []string {
	return append(ProductCategories(), GroupAppModernization)
}

// ProductGroupOf maps a stored category to its reporting group
func ProductGroupOf(category string) string {
	for _, c := range appModernization {
		if c == category {
			return GroupAppModernization
		}
	}
	return category
}

// ExpandProductCategories replaces the app-modernization group by its stored categories
func ExpandProductCategories(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool)
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range values {
		if v == GroupAppModernization {
			for _, c := range appModernization {
				add(c)
			}
			continue
		}
		add(v)
	}
	return out
}

// productGroupExpr is a SQL expression mapping column to its reporting group
func productGroupExpr(column string) string {
	quoted := make([]string, len(appModernization))
	for i, c := range appModernization {
		quoted[i] = "'" + c + "'"
	}
	return fmt.Sprintf("CASE WHEN %s IN (%s) THEN '%s' ELSE %s END",
		column, strings.Join(quoted, ", "), GroupAppModernization, column)
}

// InvalidValues returns the values not present in allowed, in input order
func InvalidValues(values, allowed []string) []string {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}
	var invalid []string
	for _, v := range values {
		if !ok[v] {
			invalid = append(invalid, v)
		}
	}
	return invalid
}
