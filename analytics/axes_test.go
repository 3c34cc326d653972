package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"closed-won":         "Closed-Won",
		"tech-eval/soln-dev": "Tech-Eval/Soln-Dev",
		"qualify":            "Qualify",
		"gcp":                "GCP",
		"app-modernization":  "App-Modernization",
		"revenue":            "Revenue",
	}
	for in, want := range tests {
		assert.Equal(t, want, Label(in), in)
	}
}

func TestAxisLabels(t *testing.T) {
	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4"}, QuarterLabels())
	assert.Equal(t, "Jan", MonthLabel(1))
	assert.Equal(t, "Dec", MonthLabel(12))
}

func TestFillInts(t *testing.T) {
	found := map[int]float64{2: 5}
	got := FillInts(Quarters, found, func(int) float64 { return 0 })
	assert.Equal(t, []float64{0, 5, 0, 0}, got)
}

func TestExpandProductCategories(t *testing.T) {
	got := ExpandProductCategories([]string{"gcp-core", GroupAppModernization, "looker"})
	assert.Equal(t, []string{"gcp-core", "mandiant", "looker", "apigee", "maps", "marketplace", "vertex-ai-platform"}, got)

	assert.Equal(t, GroupAppModernization, ProductGroupOf("maps"))
	assert.Equal(t, "cloud-security", ProductGroupOf("cloud-security"))

	assert.Equal(t, []string{"bogus"}, InvalidValues([]string{"gcp-core", "bogus"}, ProductCategoryFilters()))
}
