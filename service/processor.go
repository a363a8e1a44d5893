package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/chnl2024cc/short5/constant"
	"github.com/chnl2024cc/short5/dto"
	"github.com/chnl2024cc/short5/pkg/ffmpeg"
	"github.com/chnl2024cc/short5/repository"
	"github.com/chnl2024cc/short5/storage"
)

// Prober inspects a media file once for container, duration and
// faststart eligibility.
type Prober interface {
	Probe(ctx context.Context, path string) (*ffmpeg.ProbeResult, error)
}

// Encoder produces the standardized artifact and the thumbnail frame.
type Encoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
	ExtractFrame(ctx context.Context, inputPath, outputPath string, timestamp float64) error
}

// ArtifactStore moves files between the object store and the local
// workspace.
type ArtifactStore interface {
	FetchSource(ctx context.Context, objectPath, localPath string) error
	Put(ctx context.Context, videoID, localPath, logicalName string) (string, error)
	RemoveSource(ctx context.Context, objectPath string) error
	RemoveArtifacts(ctx context.Context, videoID string) error
}

type Processor interface {
	Process(ctx context.Context, message dto.JobMessage) error
}

type Options struct {
	TempDir            string
	ThumbnailTimestamp float64
}

type processor struct {
	repo    repository.VideoRepository
	store   ArtifactStore
	prober  Prober
	encoder Encoder
	opts    Options
}

func NewProcessor(repo repository.VideoRepository, store ArtifactStore, prober Prober, encoder Encoder, opts Options) Processor {
	if opts.TempDir == "" {
		opts.TempDir = "temp"
	}
	if opts.ThumbnailTimestamp <= 0 {
		opts.ThumbnailTimestamp = 3
	}
	return &processor{
		repo:    repo,
		store:   store,
		prober:  prober,
		encoder: encoder,
		opts:    opts,
	}
}

type pipelineResult struct {
	mp4Ref          string
	thumbnailRef    string
	durationSeconds int
	metadataJSON    string
}

// Process runs one complete, terminal attempt for a job. Every
// failure is classified, cleaned up after, and written as a single
// MarkFailed; success is a single MarkReady. The returned error is
// for logging only, the message is acked either way.
func (p *processor) Process(ctx context.Context, message dto.JobMessage) error {
	log := zerolog.Ctx(ctx).With().Str("video_id", message.JobId.String()).Logger()
	log.Info().Str("source", message.SourcePath).Msg("processing job")

	video, err := p.repo.FindVideoById(ctx, message.JobId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Msg("video record not found, dropping job")
			return nil
		}
		log.Error().Err(err).Msg("failed to load video record")
		return err
	}

	if video.Status == constant.VideoStatusRejected {
		log.Info().Msg("video was rejected by moderation, skipping")
		return nil
	}

	if err := p.repo.MarkProcessing(ctx, message.JobId); err != nil {
		log.Error().Err(err).Msg("failed to mark video processing")
		return err
	}

	workDir := filepath.Join(p.opts.TempDir, message.JobId.String())
	defer os.RemoveAll(workDir)

	result, err := p.run(ctx, &log, message, workDir)
	if err != nil {
		se := classify(err)
		log.Error().Err(err).Str("category", se.Category.String()).Msg("processing failed")
		p.cleanup(ctx, &log, message, workDir)
		if markErr := p.repo.MarkFailed(ctx, message.JobId, se.Reason); markErr != nil {
			log.Error().Err(markErr).Msg("failed to mark video failed")
		}
		return se
	}

	if err := p.repo.MarkReady(ctx, message.JobId, result.mp4Ref, result.thumbnailRef, result.durationSeconds, result.metadataJSON); err != nil {
		// The record stays in processing; the stuck-job sweep will
		// re-enqueue once the store is reachable again.
		log.Error().Err(err).Msg("failed to mark video ready")
		return err
	}

	log.Info().
		Str("mp4", result.mp4Ref).
		Str("thumbnail", result.thumbnailRef).
		Int("duration_seconds", result.durationSeconds).
		Msg("job completed")
	return nil
}

func (p *processor) run(ctx context.Context, log *zerolog.Logger, message dto.JobMessage, workDir string) (*pipelineResult, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	sourcePath := filepath.Join(workDir, "source"+strings.ToLower(filepath.Ext(message.SourcePath)))
	log.Info().Msg("downloading source file")
	if err := p.store.FetchSource(ctx, message.SourcePath, sourcePath); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, stageErr(constant.ErrorCategoryValidation, reasonNotFound, err)
		}
		return nil, stageErr(constant.ErrorCategoryStorage, reasonStorage, err)
	}

	log.Info().Msg("validating source file")
	probe, err := p.prober.Probe(ctx, sourcePath)
	if err != nil {
		return nil, probeErr(err)
	}

	outputPath := filepath.Join(workDir, "video.mp4")
	if probe.NeedsTranscode() {
		log.Info().
			Str("container", probe.FormatName).
			Bool("faststart", probe.HasFastStart).
			Msg("transcoding source")
		if err := p.encoder.Transcode(ctx, sourcePath, outputPath); err != nil {
			return nil, stageErr(constant.ErrorCategoryTranscoding, reasonTranscoding, err)
		}
	} else {
		log.Info().Msg("source is already web-playable, passing through")
		if err := copyFile(sourcePath, outputPath); err != nil {
			return nil, fmt.Errorf("pass-through copy: %w", err)
		}
	}

	log.Info().Msg("extracting thumbnail")
	thumbnailPath := filepath.Join(workDir, "thumbnail.jpg")
	timestamp := p.opts.ThumbnailTimestamp
	if timestamp >= probe.DurationSeconds {
		// Short clip, fall back to the first frame.
		timestamp = 0
	}
	if err := p.encoder.ExtractFrame(ctx, outputPath, thumbnailPath, timestamp); err != nil {
		return nil, stageErr(constant.ErrorCategoryTranscoding, reasonTranscoding, err)
	}

	metadataJSON := p.buildMetadata(ctx, log, outputPath)

	log.Info().Msg("storing artifacts")
	mp4Ref, err := p.store.Put(ctx, message.JobId.String(), outputPath, "video.mp4")
	if err != nil {
		return nil, stageErr(constant.ErrorCategoryStorage, reasonStorage, err)
	}
	thumbnailRef, err := p.store.Put(ctx, message.JobId.String(), thumbnailPath, "thumbnail.jpg")
	if err != nil {
		return nil, stageErr(constant.ErrorCategoryStorage, reasonStorage, err)
	}

	return &pipelineResult{
		mp4Ref:          mp4Ref,
		thumbnailRef:    thumbnailRef,
		durationSeconds: int(probe.DurationSeconds),
		metadataJSON:    metadataJSON,
	}, nil
}

// cleanup removes everything this attempt produced, plus the original
// source. Failures to delete are logged, not escalated.
func (p *processor) cleanup(ctx context.Context, log *zerolog.Logger, message dto.JobMessage, workDir string) {
	log.Info().Msg("cleaning up after failed attempt")

	if err := os.RemoveAll(workDir); err != nil {
		log.Warn().Err(err).Msg("failed to remove temp workspace")
	}
	if err := p.store.RemoveArtifacts(ctx, message.JobId.String()); err != nil {
		log.Warn().Err(err).Msg("failed to remove partial artifacts")
	}
	if err := p.store.RemoveSource(ctx, message.SourcePath); err != nil {
		log.Warn().Err(err).Msg("failed to remove source file")
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
