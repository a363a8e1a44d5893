package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// EncodeProfile is the immutable target for produced artifacts. It is
// fixed at construction; the worker never mutates it.
type EncodeProfile struct {
	VideoCodec   string
	AudioCodec   string
	Preset       string
	CRF          int
	AudioBitrate string
	PixelFormat  string
}

func DefaultEncodeProfile() EncodeProfile {
	return EncodeProfile{
		VideoCodec:   "libx264",
		AudioCodec:   "aac",
		Preset:       "medium",
		CRF:          23,
		AudioBitrate: "128k",
		PixelFormat:  "yuv420p",
	}
}

// Tool drives the external ffmpeg/ffprobe binaries.
type Tool struct {
	profile          EncodeProfile
	probeTimeout     time.Duration
	transcodeTimeout time.Duration
	frameTimeout     time.Duration
}

func NewTool(profile EncodeProfile, probeTimeout, transcodeTimeout, frameTimeout time.Duration) *Tool {
	if probeTimeout <= 0 {
		probeTimeout = 30 * time.Second
	}
	if transcodeTimeout <= 0 {
		transcodeTimeout = 25 * time.Minute
	}
	if frameTimeout <= 0 {
		frameTimeout = time.Minute
	}
	return &Tool{
		profile:          profile,
		probeTimeout:     probeTimeout,
		transcodeTimeout: transcodeTimeout,
		frameTimeout:     frameTimeout,
	}
}

// Transcode re-encodes the source into the profile's codecs with the
// moov atom moved to the front. The soft timeout is strictly below the
// worker's own deadline so cleanup can still run afterwards.
func (t *Tool) Transcode(ctx context.Context, inputPath, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, t.transcodeTimeout)
	defer cancel()

	args := []string{
		"-i", inputPath,
		"-c:v", t.profile.VideoCodec,
		"-preset", t.profile.Preset,
		"-crf", strconv.Itoa(t.profile.CRF),
		"-pix_fmt", t.profile.PixelFormat,
		"-c:a", t.profile.AudioCodec,
		"-b:a", t.profile.AudioBitrate,
		"-movflags", "+faststart",
		"-y", outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg timed out after %s: %w", t.transcodeTimeout, ctxErr)
		}
		return fmt.Errorf("ffmpeg execution failed: %w: %s", err, tail(output))
	}
	return nil
}

// ExtractFrame captures a single still frame at the given timestamp.
// The caller clamps the timestamp into the clip's duration.
func (t *Tool) ExtractFrame(ctx context.Context, inputPath, outputPath string, timestamp float64) error {
	ctx, cancel := context.WithTimeout(ctx, t.frameTimeout)
	defer cancel()

	args := []string{
		"-ss", strconv.FormatFloat(timestamp, 'f', 2, 64),
		"-i", inputPath,
		"-vframes", "1",
		"-q:v", "2",
		"-f", "image2",
		"-y", outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg timed out after %s: %w", t.frameTimeout, ctxErr)
		}
		return fmt.Errorf("ffmpeg frame extraction failed: %w: %s", err, tail(output))
	}
	return nil
}

// tail keeps error output short enough for log lines.
func tail(output []byte) string {
	const max = 512
	if len(output) > max {
		output = output[len(output)-max:]
	}
	return string(output)
}
