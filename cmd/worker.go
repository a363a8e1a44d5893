package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chnl2024cc/short5/config"
	server2 "github.com/chnl2024cc/short5/server"
)

func worker(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "start the video processing worker",
		Run: func(cmd *cobra.Command, args []string) {
			server2.RunWorker(config)
		},
	}
}
