package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trafficpulse",
	Short: "A live traffic sensor snapshot service",
	Long: `TrafficPulse ingests 5-minute traffic sensor readings from the JARTIC
open-traffic feature service, normalizes them into ranked station
records, and serves the result as point-in-time snapshots.

It tolerates upstream publication lag by walking backward through
recent time buckets, and optionally upgrades the busiest stations'
place names through reverse geocoding.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("feed-url", "", "Upstream feature service base URL (default: public JARTIC endpoint)")
	rootCmd.PersistentFlags().String("bbox", "", "Coverage bounding box minLng,minLat,maxLng,maxLat (default: national coverage)")
	rootCmd.PersistentFlags().Bool("geocode", true, "Enrich the busiest stations via reverse geocoding")
	rootCmd.PersistentFlags().String("geocode-url", "", "Reverse geocoding base URL (default: public Nominatim endpoint)")
	rootCmd.PersistentFlags().Duration("geocode-delay", 0, "Pause between geocode lookups (default 100ms)")
	rootCmd.PersistentFlags().String("geocode-cache", "", "Optional sqlite file persisting resolved place names")
	rootCmd.PersistentFlags().Int("geocode-top", 20, "How many top stations to enrich")

	mustBind := func(key, name string) {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}
	mustBind("verbose", "verbose")
	mustBind("feed.url", "feed-url")
	mustBind("feed.bbox", "bbox")
	mustBind("geocode.enabled", "geocode")
	mustBind("geocode.url", "geocode-url")
	mustBind("geocode.delay", "geocode-delay")
	mustBind("geocode.cache", "geocode-cache")
	mustBind("geocode.top", "geocode-top")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TRAFFICPULSE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func initLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
