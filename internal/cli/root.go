package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	update  bool
	log     *logrus.Logger
)

// rootCmd is the base command for storysnap.
var rootCmd = &cobra.Command{
	Use:   "storysnap",
	Short: "Visual snapshot verification for a component story catalog",
	Long: `storysnap visits every published story in a running component catalog,
captures screenshots per (story, browser engine, theme) and compares them
against stored reference images using a structural-similarity metric.

Everything is driven by a YAML configuration file (storysnap.yaml).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "storysnap.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	log = logrus.New()
	log.SetLevel(logrus.InfoLevel)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
