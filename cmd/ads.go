package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lead-console/internal/display"
	"lead-console/internal/model"
)

var adsCmd = &cobra.Command{
	Use:   "ads",
	Short: "List and synchronize ads",
}

var adsFilter string

var adsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List synced ads",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context(), time.Minute)
		defer cancel()

		ads, err := a.cache.ListAds(ctx, model.ParseAdFilter(adsFilter))
		if err != nil {
			return userError(err, "Failed to load ads")
		}
		return display.WriteAds(cmd.OutOrStdout(), ads)
	},
}

var adsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the latest ads from Facebook into the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context(), 2*time.Minute)
		defer cancel()

		res, err := a.cache.SyncAds(ctx)
		if err != nil {
			return userError(err, "Failed to sync ads")
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Message)
		fmt.Fprintf(out, "total %d, created %d, updated %d, deactivated %d\n",
			res.Stats.Total, res.Stats.Created, res.Stats.Updated, res.Stats.Deactivated)
		return nil
	},
}

var adsDeleteCmd = &cobra.Command{
	Use:   "delete <ad_id>",
	Short: "Delete a synced ad",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "ad id")
		if err != nil {
			return err
		}
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context(), time.Minute)
		defer cancel()

		if err := a.cache.DeleteAd(ctx, id); err != nil {
			return userError(err, "Failed to delete ad")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted ad %d\n", id)
		return nil
	},
}

func init() {
	adsListCmd.Flags().StringVar(&adsFilter, "filter", string(model.AdFilterAll), "all, active or inactive")
	adsCmd.AddCommand(adsListCmd, adsSyncCmd, adsDeleteCmd)
	rootCmd.AddCommand(adsCmd)
}
