package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hnakamori/trafficpulse/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve traffic snapshots over a read-only REST API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().Duration("snapshot-ttl", 5*time.Minute, "How long a built snapshot is reused (0 recomputes every request)")
	serveCmd.Flags().Duration("build-timeout", 60*time.Second, "Timeout for one snapshot build")

	mustBind := func(key, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}
	mustBind("serve.addr", "addr")
	mustBind("serve.snapshot_ttl", "snapshot-ttl")
	mustBind("serve.build_timeout", "build-timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	builder, cleanup, err := newSnapshotBuilder()
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(server.Config{
		Addr:         viper.GetString("serve.addr"),
		SnapshotTTL:  viper.GetDuration("serve.snapshot_ttl"),
		BuildTimeout: viper.GetDuration("serve.build_timeout"),
	}, builder, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
