package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frherrer/storysnap/internal/config"
	"github.com/frherrer/storysnap/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the last run's markdown report to HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		mdPath := filepath.Join(cfg.Snapshots.BaselineDir, report.FileName)
		markdown, err := os.ReadFile(mdPath)
		if err != nil {
			return fmt.Errorf("failed to read report (run `storysnap run` first): %w", err)
		}

		html, err := report.ToHTML(markdown)
		if err != nil {
			return err
		}

		htmlPath := strings.TrimSuffix(mdPath, ".md") + ".html"
		if err := os.WriteFile(htmlPath, html, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", htmlPath, err)
		}

		log.Infof("Report rendered: %s", htmlPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
