package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frherrer/storysnap/internal/browser"
	"github.com/frherrer/storysnap/internal/catalog"
	"github.com/frherrer/storysnap/internal/config"
	"github.com/frherrer/storysnap/internal/report"
	"github.com/frherrer/storysnap/internal/snapshot"
	"github.com/frherrer/storysnap/internal/verifier"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Verify every published story against its stored snapshots",
	Long:  `Discovers the stories of the configured catalog, captures each one per browser engine and theme, and compares the captures against the stored reference images.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}

		if update {
			cfg.Update = true
		}

		log.Info("Configuration loaded successfully")
		log.Infof("Catalog: %s", cfg.Catalog.URL)
		log.Infof("Baselines: %s", cfg.Snapshots.BaselineDir)

		return runVerification(cmd, cfg)
	},
}

func init() {
	runCmd.Flags().BoolVarP(&update, "update", "u", false, "treat mismatches as new baselines")
	rootCmd.AddCommand(runCmd)
}

// runVerification wires all components and runs the verifier.
func runVerification(cmd *cobra.Command, cfg *config.Config) error {
	settings := verifier.NewSettings(cfg)

	store := snapshot.NewStore(cfg.Snapshots.BaselineDir, cfg.Snapshots.ReceivedDir)
	comparator := snapshot.NewComparator(cfg.Snapshots.Threshold)
	source := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.IndexPath, cfg.Catalog.StoryPath, log)

	mgr := browser.NewManager(cfg.Browsers.Primary, cfg.Browsers.Remotes, log)
	defer mgr.Close()

	v := verifier.New(settings, store, comparator, log)
	runner := verifier.NewRunner(settings, v, source, mgr, log)

	summary, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	path, err := report.Write(cfg.Snapshots.BaselineDir, summary)
	if err != nil {
		return err
	}
	log.Infof("Report written: %s", path)

	log.Infof("Passed: %d, Failed: %d, Skipped: %d, New baselines: %d",
		summary.Passed, summary.Failed, summary.Skipped, summary.NewBaselines)

	if summary.Failed > 0 {
		return fmt.Errorf("%d verification task(s) failed", summary.Failed)
	}
	return nil
}
