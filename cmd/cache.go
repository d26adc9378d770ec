package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lead-console/internal/config"
	"lead-console/internal/redisclient"
	"lead-console/internal/storage"
)

// cacheCmd groups query cache utilities.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Query cache utilities",
}

// cachePingCmd pings the configured Redis server.
var cachePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the Redis cache backend and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Cache.Backend != config.CacheRedis {
			return errors.New("cache.backend is not redis")
		}
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := storage.NewRedisStore(rdb).Ping(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Drop every cached API response",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Cache.Backend != config.CacheRedis {
			fmt.Fprintln(cmd.OutOrStdout(), "memory cache lives only inside a running process; nothing to flush")
			return nil
		}
		a := newApp(cfg, logger)
		defer a.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := a.cache.Flush(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePingCmd, cacheFlushCmd)
	rootCmd.AddCommand(cacheCmd)
}
