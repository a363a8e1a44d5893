package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chnl2024cc/short5/config"
	"github.com/chnl2024cc/short5/dto"
	"github.com/chnl2024cc/short5/pkg/rabbitmq"
	"github.com/chnl2024cc/short5/repository"
)

// retry re-enqueues processing for specific video ids. It publishes
// the same message the upload backend does; the worker's idempotent
// writes make the re-run safe.
func retry(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <video-id>...",
		Short: "re-enqueue processing for specific videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext()

			conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
			if err != nil {
				return err
			}
			defer conn.Close()

			pub, err := rabbitmq.NewPublisher(conn, cfg.Queue)
			if err != nil {
				return err
			}
			repo := repository.NewRepo(cfg.DB)

			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return fmt.Errorf("invalid video id %q: %w", arg, err)
				}

				video, err := repo.FindVideoById(ctx, id)
				if err != nil {
					return fmt.Errorf("load video %s: %w", id, err)
				}

				message := dto.JobMessage{
					JobId:      video.ID,
					SourcePath: video.SourceObjectPath(),
				}
				if err := pub.PublishJob(ctx, message); err != nil {
					return fmt.Errorf("publish job for %s: %w", id, err)
				}

				zerolog.Ctx(ctx).Info().
					Str("video_id", id.String()).
					Str("source", message.SourcePath).
					Msg("re-enqueued video")
			}
			return nil
		},
	}
}

func commandContext() context.Context {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}
