package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lead-console/internal/config"
	"lead-console/internal/logging"
)

var (
	cfgFile string
	appCfg  config.Config
	logger  zerolog.Logger
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "lead-console",
	Short:         "Lead automation console",
	Long:          "Manage synced ads, per-ad message templates and lead delivery from the terminal or the web dashboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "lead API base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides app.log_level)")
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("app.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("cache.backend", config.CacheMemory)
	v.SetDefault("cache.stale_time", "5m")
	v.SetDefault("cache.retry", 1)
	v.SetDefault("cache.retry_delay", "1s")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("sync.interval", "10m")
	v.SetDefault("dashboard.addr", ":8080")
	v.SetDefault("dashboard.leads_per_page", 20)
}

func initConfig() {
	v := viper.GetViper()
	setDefaults(v)

	v.SetEnvPrefix("LEADCONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lead-console")
		v.AddConfigPath("configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
	if err := appCfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger = logging.New(appCfg.App.LogLevel, appCfg.App.LogFormat)
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug().Str("file", used).Msg("using config file")
	}
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
