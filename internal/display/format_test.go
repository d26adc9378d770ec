package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lead-console/internal/model"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "N/A", FormatDate(""))
	assert.Equal(t, "Jan 02, 2025 10:11", FormatDate("2025-01-02T10:11:12.123456"))
	assert.Equal(t, "Mar 05, 2025 08:00", FormatDate("2025-03-05T08:00:00Z"))
	assert.Equal(t, "Mar 05, 2025 08:00", FormatDate("2025-03-05 08:00:59"))
	assert.Equal(t, "yesterday", FormatDate("yesterday"))
}

func TestShortLeadID(t *testing.T) {
	assert.Equal(t, "123456789012...", ShortLeadID("1234567890123456"))
	assert.Equal(t, "abc...", ShortLeadID("abc"))
}

func TestLeadFallbacks(t *testing.T) {
	assert.Equal(t, "Unknown Ad", AdName(model.Lead{}))
	assert.Equal(t, "N/A", UserName(model.Lead{UserName: " "}))
	assert.Equal(t, "Ann", UserName(model.Lead{UserName: "Ann"}))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "1 ad found", CountAds(1))
	assert.Equal(t, "0 ads found", CountAds(0))
	assert.Equal(t, "Edit Template", TemplateAction(true))
	assert.Equal(t, "Inactive", ActiveLabel(false))
	assert.Equal(t, "87.5%", Percent(87.5))
	assert.Equal(t, "0%", Percent(0))
	assert.Equal(t, "Page 2 of 5 (Total: 93 leads)", PageSummary(model.Pagination{Page: 2, Pages: 5, Total: 93}))
}
