package service

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"github.com/chnl2024cc/short5/pkg/ffmpeg"
)

// VideoMetadata is the technical record persisted as
// video_metadata_json. It describes the final produced artifact, not
// the original upload.
type VideoMetadata struct {
	ContainerFormat string  `json:"container_format,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	SizeBytes       int64   `json:"size_bytes,omitempty"`
	BitRate         int64   `json:"bit_rate,omitempty"`

	VideoCodec   string  `json:"video_codec,omitempty"`
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	FrameRate    float64 `json:"frame_rate,omitempty"`
	PixelFormat  string  `json:"pixel_format,omitempty"`
	VideoBitRate int64   `json:"video_bit_rate,omitempty"`

	AudioCodec   string `json:"audio_codec,omitempty"`
	SampleRate   int    `json:"sample_rate,omitempty"`
	Channels     int    `json:"channels,omitempty"`
	AudioBitRate int64  `json:"audio_bit_rate,omitempty"`

	HasFastStart bool `json:"has_faststart"`
	WebOptimized bool `json:"web_optimized"`

	ExtractionError string `json:"extraction_error,omitempty"`
}

// buildMetadata inspects the final artifact and serializes whatever it
// obtained. Extraction is diagnostic: a partial result carries an
// explicit error marker and is still persisted, it never changes the
// terminal outcome.
func (p *processor) buildMetadata(ctx context.Context, log *zerolog.Logger, artifactPath string) string {
	meta := VideoMetadata{}
	if fi, err := os.Stat(artifactPath); err == nil {
		meta.SizeBytes = fi.Size()
	}

	probe, err := p.prober.Probe(ctx, artifactPath)
	if err != nil {
		log.Warn().Err(err).Msg("metadata extraction incomplete")
		meta.ExtractionError = "could not extract full technical metadata"
	} else {
		fillMetadata(&meta, probe)
	}

	b, err := json.Marshal(meta)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize metadata")
		return `{"extraction_error":"metadata serialization failed"}`
	}
	return string(b)
}

func fillMetadata(meta *VideoMetadata, probe *ffmpeg.ProbeResult) {
	meta.ContainerFormat = probe.FormatName
	meta.DurationSeconds = probe.DurationSeconds
	if probe.SizeBytes > 0 {
		meta.SizeBytes = probe.SizeBytes
	}
	meta.BitRate = probe.BitRate
	meta.HasFastStart = probe.HasFastStart

	if v := probe.Video; v != nil {
		meta.VideoCodec = v.Codec
		meta.Width = v.Width
		meta.Height = v.Height
		meta.FrameRate = v.FrameRate
		meta.PixelFormat = v.PixelFormat
		meta.VideoBitRate = v.BitRate
	}
	if a := probe.Audio; a != nil {
		meta.AudioCodec = a.Codec
		meta.SampleRate = a.SampleRate
		meta.Channels = a.Channels
		meta.AudioBitRate = a.BitRate
	}

	meta.WebOptimized = meta.VideoCodec == "h264" &&
		meta.AudioCodec == "aac" &&
		meta.HasFastStart &&
		probe.IsStandardContainer
}
