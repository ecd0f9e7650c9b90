package cli

import (
	"github.com/spf13/cobra"

	"github.com/pocketlab/organic-scanner/internal/config"
	"github.com/pocketlab/organic-scanner/internal/logging"
	"github.com/pocketlab/organic-scanner/internal/training"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the fruit and organic classifiers from the dataset and persist the model artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		logger, err := logging.InitConsoleLogger(verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		return training.Run(cfg, logger)
	},
}
