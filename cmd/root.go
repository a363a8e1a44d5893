package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chnl2024cc/short5/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{}
	rootCmd.AddCommand(worker(config))
	rootCmd.AddCommand(retry(config))
	rootCmd.AddCommand(sweep(config))
	return rootCmd
}
