package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frherrer/storysnap/internal/config"
	"github.com/frherrer/storysnap/internal/snapshot"
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Promote received snapshots to baselines",
	Long:  `Moves every image in the received directory over its baseline, accepting the last run's mismatches as the new references.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}

		store := snapshot.NewStore(cfg.Snapshots.BaselineDir, cfg.Snapshots.ReceivedDir)
		promoted, err := store.Approve()
		if err != nil {
			return err
		}

		if len(promoted) == 0 {
			log.Info("Nothing to approve")
			return nil
		}
		for _, id := range promoted {
			log.Infof("Approved: %s", id)
		}
		log.Infof("Promoted %d snapshot(s)", len(promoted))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)
}
