package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

var (
	ErrSourceMissing    = errors.New("source file not found")
	ErrSourceEmpty      = errors.New("source file is empty")
	ErrSourceUnreadable = errors.New("source file is not readable")
	ErrInvalidDuration  = errors.New("video duration is zero or negative")
)

// standardContainers is the MP4/MOV family ffprobe reports for the
// platform's canonical playback container.
var standardContainers = map[string]bool{
	"mp4": true,
	"mov": true,
	"m4a": true,
	"3gp": true,
	"3g2": true,
	"mj2": true,
}

type StreamInfo struct {
	Codec       string  `json:"codec"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	FrameRate   float64 `json:"frame_rate,omitempty"`
	PixelFormat string  `json:"pixel_format,omitempty"`
	BitRate     int64   `json:"bit_rate,omitempty"`
	SampleRate  int     `json:"sample_rate,omitempty"`
	Channels    int     `json:"channels,omitempty"`
}

type ProbeResult struct {
	FormatName          string
	DurationSeconds     float64
	SizeBytes           int64
	BitRate             int64
	Video               *StreamInfo
	Audio               *StreamInfo
	IsStandardContainer bool
	HasFastStart        bool
}

// NeedsTranscode is the worker's decision rule: only a standard
// container with faststart already set can be passed through.
func (r *ProbeResult) NeedsTranscode() bool {
	return !r.IsStandardContainer || !r.HasFastStart
}

// Probe validates the file and inspects it with ffprobe. File-level
// failures (missing, empty, unreadable, bad duration) return the
// sentinel errors above; ffprobe failures are returned wrapped.
func (t *Tool) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSourceEmpty, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	f.Close()

	ctx, cancel := context.WithTimeout(ctx, t.probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	result, err := parseProbeOutput(output)
	if err != nil {
		return nil, err
	}
	if result.DurationSeconds <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDuration, path)
	}

	result.IsStandardContainer = isStandardContainer(result.FormatName)
	if result.IsStandardContainer {
		result.HasFastStart, err = scanFastStart(path)
		if err != nil {
			return nil, fmt.Errorf("faststart scan: %w", err)
		}
	}
	return result, nil
}

func parseProbeOutput(output []byte) (*ProbeResult, error) {
	var probe struct {
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
			Size       string `json:"size"`
			BitRate    string `json:"bit_rate"`
		} `json:"format"`
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			Width      int    `json:"width"`
			Height     int    `json:"height"`
			PixFmt     string `json:"pix_fmt"`
			RFrameRate string `json:"r_frame_rate"`
			BitRate    string `json:"bit_rate"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	result := &ProbeResult{
		FormatName:      probe.Format.FormatName,
		DurationSeconds: parseFloat(probe.Format.Duration),
		SizeBytes:       parseInt64(probe.Format.Size),
		BitRate:         parseInt64(probe.Format.BitRate),
	}
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			if result.Video == nil {
				result.Video = &StreamInfo{
					Codec:       s.CodecName,
					Width:       s.Width,
					Height:      s.Height,
					FrameRate:   parseFrameRate(s.RFrameRate),
					PixelFormat: s.PixFmt,
					BitRate:     parseInt64(s.BitRate),
				}
			}
		case "audio":
			if result.Audio == nil {
				result.Audio = &StreamInfo{
					Codec:      s.CodecName,
					SampleRate: int(parseInt64(s.SampleRate)),
					Channels:   s.Channels,
					BitRate:    parseInt64(s.BitRate),
				}
			}
		}
	}
	return result, nil
}

// isStandardContainer checks ffprobe's comma-separated format name
// against the MP4/MOV family.
func isStandardContainer(formatName string) bool {
	for _, name := range strings.Split(formatName, ",") {
		if standardContainers[strings.TrimSpace(name)] {
			return true
		}
	}
	return false
}

func parseFloat(s string) float64 {
	if s == "" || s == "N/A" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt64(s string) int64 {
	if s == "" || s == "N/A" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFrameRate(fraction string) float64 {
	if fraction == "" || fraction == "0/0" {
		return 0
	}
	var num, den int
	if _, err := fmt.Sscanf(fraction, "%d/%d", &num, &den); err == nil && den > 0 {
		return float64(num) / float64(den)
	}
	return 0
}
