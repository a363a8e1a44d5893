package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chnl2024cc/short5/config"
	"github.com/chnl2024cc/short5/dto"
	"github.com/chnl2024cc/short5/pkg/rabbitmq"
	"github.com/chnl2024cc/short5/repository"
)

// sweep finds videos stuck in processing past the TTL, which means a
// worker died mid-attempt, and re-enqueues them.
func sweep(cfg *config.Config) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "re-enqueue videos stuck in processing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext()

			repo := repository.NewRepo(cfg.DB)
			stuck, err := repo.FindStuck(ctx, olderThan)
			if err != nil {
				return fmt.Errorf("find stuck videos: %w", err)
			}

			if len(stuck) == 0 {
				zerolog.Ctx(ctx).Info().Msg("no stuck videos found")
				return nil
			}

			conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
			if err != nil {
				return err
			}
			defer conn.Close()

			pub, err := rabbitmq.NewPublisher(conn, cfg.Queue)
			if err != nil {
				return err
			}

			for _, video := range stuck {
				message := dto.JobMessage{
					JobId:      video.ID,
					SourcePath: video.SourceObjectPath(),
				}
				if err := pub.PublishJob(ctx, message); err != nil {
					return fmt.Errorf("publish job for %s: %w", video.ID, err)
				}

				zerolog.Ctx(ctx).Info().
					Str("video_id", video.ID.String()).
					Time("updated_at", video.UpdatedAt).
					Msg("re-enqueued stuck video")
			}

			zerolog.Ctx(ctx).Info().Int("count", len(stuck)).Msg("sweep complete")
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", cfg.Pipeline.StuckJobTTL, "re-enqueue videos stuck in processing longer than this")
	return cmd
}
