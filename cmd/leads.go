package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lead-console/internal/display"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect captured leads and message delivery",
}

var (
	leadsPage    int
	leadsPerPage int
)

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		perPage := leadsPerPage
		if perPage <= 0 {
			perPage = cfg.Dashboard.LeadsPerPage
		}
		page := leadsPage
		if page < 1 {
			page = 1
		}

		ctx, cancel := commandContext(cmd.Context(), time.Minute)
		defer cancel()

		res, err := a.cache.ListLeads(ctx, page, perPage)
		if err != nil {
			return userError(err, "Error loading leads")
		}
		return display.WriteLeads(cmd.OutOrStdout(), res)
	},
}

var leadsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show delivery statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context(), time.Minute)
		defer cancel()

		s, err := a.cache.LeadStats(ctx)
		if err != nil {
			return userError(err, "Error loading stats")
		}
		return display.WriteStats(cmd.OutOrStdout(), s)
	},
}

var leadsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one lead with the message it was sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "lead id")
		if err != nil {
			return err
		}
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context(), time.Minute)
		defer cancel()

		l, err := a.cache.GetLead(ctx, id)
		if err != nil {
			return userError(err, "Error loading lead")
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Lead ID:\t%s\n", l.LeadID)
		fmt.Fprintf(tw, "Ad:\t%s\n", display.AdName(l))
		fmt.Fprintf(tw, "User:\t%s\n", display.UserName(l))
		fmt.Fprintf(tw, "Status:\t%s\n", display.StatusBadge(l.Status()))
		fmt.Fprintf(tw, "Created:\t%s\n", display.FormatDate(l.CreatedAt))
		if l.MessageSentAt != "" {
			fmt.Fprintf(tw, "Sent:\t%s\n", display.FormatDate(l.MessageSentAt))
		}
		if l.ErrorMessage != "" {
			fmt.Fprintf(tw, "Error:\t%s\n", l.ErrorMessage)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if l.MessageText != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", l.MessageText)
		}
		return nil
	},
}

func init() {
	leadsListCmd.Flags().IntVar(&leadsPage, "page", 1, "page number")
	leadsListCmd.Flags().IntVar(&leadsPerPage, "per-page", 0, "leads per page (default dashboard.leads_per_page)")
	leadsCmd.AddCommand(leadsListCmd, leadsStatsCmd, leadsShowCmd)
	rootCmd.AddCommand(leadsCmd)
}
