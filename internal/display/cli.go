package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"lead-console/internal/model"
)

const tablePadding = 2

var (
	sentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
)

// StatusBadge colours a delivery status for terminals.
func StatusBadge(s model.DeliveryStatus) string {
	switch s {
	case model.StatusSent:
		return sentStyle.Render(string(s))
	case model.StatusFailed:
		return failedStyle.Render(string(s))
	default:
		return pendingStyle.Render(string(s))
	}
}

func writeTable(out io.Writer, headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', 0)
	if len(headers) > 0 {
		fmt.Fprintln(w, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// WriteAds prints ads as a table.
func WriteAds(out io.Writer, ads []model.Ad) error {
	fmt.Fprintln(out, CountAds(len(ads)))
	if len(ads) == 0 {
		fmt.Fprintln(out, mutedStyle.Render(`Run "ads sync" to fetch ads from Facebook`))
		return nil
	}
	rows := make([][]string, 0, len(ads))
	for _, a := range ads {
		rows = append(rows, []string{
			fmt.Sprint(a.ID),
			a.AdName,
			OrDefault(a.CampaignName, "-"),
			OrDefault(a.AdsetName, "-"),
			OrDefault(a.Status, "-"),
			ActiveLabel(a.IsActive),
			TemplateLabel(a.HasTemplate),
		})
	}
	return writeTable(out, []string{"ID", "AD", "CAMPAIGN", "ADSET", "STATUS", "STATE", "TEMPLATE"}, rows)
}

// WriteLeads prints one page of leads followed by the page summary.
func WriteLeads(out io.Writer, page model.LeadPage) error {
	if len(page.Leads) == 0 {
		fmt.Fprintln(out, "No leads found")
		return nil
	}
	rows := make([][]string, 0, len(page.Leads))
	for _, l := range page.Leads {
		rows = append(rows, []string{
			ShortLeadID(l.LeadID),
			AdName(l),
			UserName(l),
			FormatDate(l.CreatedAt),
			StatusBadge(l.Status()),
		})
	}
	if err := writeTable(out, []string{"LEAD ID", "AD NAME", "USER", "DATE", "STATUS"}, rows); err != nil {
		return err
	}
	if page.Pagination.Pages > 1 {
		fmt.Fprintln(out, mutedStyle.Render(PageSummary(page.Pagination)))
	}
	return nil
}

// StatCards renders the four lead counters side by side.
func StatCards(s model.LeadStats) string {
	card := func(label, value string) string {
		return cardStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Leads", fmt.Sprint(s.TotalLeads)),
		card("Messages Sent", fmt.Sprint(s.MessagesSent)),
		card("Failed", fmt.Sprint(s.MessagesFailed)),
		card("Success Rate", Percent(s.SuccessRate)),
	)
}

// WriteStats prints the stat cards and the per-ad breakdown.
func WriteStats(out io.Writer, s model.LeadStats) error {
	fmt.Fprintln(out, StatCards(s))
	if len(s.LeadsByAd) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(s.LeadsByAd))
	for _, a := range s.LeadsByAd {
		rows = append(rows, []string{OrDefault(a.AdName, "Unknown Ad"), fmt.Sprint(a.Count)})
	}
	return writeTable(out, []string{"AD", "LEADS"}, rows)
}
