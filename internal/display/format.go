// Package display formats API data for people, shared by the CLI and the
// dashboard.
package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lead-console/internal/model"
)

// DateLayout renders timestamps like "Jan 02, 2025 15:04".
const DateLayout = "Jan 02, 2006 15:04"

// timestamp layouts the API is known to emit, most specific first.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// FormatDate renders an API timestamp. Empty input gives "N/A"; anything
// unparseable is returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// ShortLeadID truncates a lead id to its first 12 characters followed by an
// ellipsis.
func ShortLeadID(id string) string {
	r := []rune(id)
	if len(r) > 12 {
		r = r[:12]
	}
	return string(r) + "..."
}

// OrDefault returns s, or fallback when s is blank.
func OrDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// AdName is the lead's ad name or "Unknown Ad".
func AdName(l model.Lead) string { return OrDefault(l.AdName, "Unknown Ad") }

// UserName is the lead's user name or "N/A".
func UserName(l model.Lead) string { return OrDefault(l.UserName, "N/A") }

// ActiveLabel is "Active" or "Inactive".
func ActiveLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// TemplateLabel describes whether an ad has a message template.
func TemplateLabel(has bool) string {
	if has {
		return "Template configured"
	}
	return "No template"
}

// TemplateAction is the call to action for an ad's template.
func TemplateAction(has bool) string {
	if has {
		return "Edit Template"
	}
	return "Create Template"
}

// CountAds renders "1 ad found" / "N ads found".
func CountAds(n int) string {
	if n == 1 {
		return "1 ad found"
	}
	return fmt.Sprintf("%d ads found", n)
}

// Percent renders a success rate like "87.5%".
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// PageSummary renders "Page 2 of 5 (Total: 93 leads)".
func PageSummary(p model.Pagination) string {
	return fmt.Sprintf("Page %d of %d (Total: %d leads)", p.Page, p.Pages, p.Total)
}
