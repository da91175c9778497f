package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Build one snapshot and print it as JSON",
	Long: `Build a single traffic snapshot against the live feed and write it to
stdout. Exits non-zero when no candidate time bucket yields data; the
printed snapshot is still well-formed in that case, with success false.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().Bool("pretty", false, "Indent the JSON output")
	snapshotCmd.Flags().Duration("timeout", 60*time.Second, "Timeout for the build")

	mustBind := func(key, name string) {
		if err := viper.BindPFlag(key, snapshotCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}
	mustBind("snapshot.pretty", "pretty")
	mustBind("snapshot.timeout", "timeout")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	builder, cleanup, err := newSnapshotBuilder()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("snapshot.timeout"))
	defer cancel()

	snap, buildErr := builder.Build(ctx)

	enc := json.NewEncoder(os.Stdout)
	if viper.GetBool("snapshot.pretty") {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return buildErr
}
