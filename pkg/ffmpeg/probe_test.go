package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeOutput = `{
	"streams": [
		{
			"codec_type": "video",
			"codec_name": "h264",
			"width": 1280,
			"height": 720,
			"pix_fmt": "yuv420p",
			"r_frame_rate": "30000/1001",
			"bit_rate": "2500000"
		},
		{
			"codec_type": "audio",
			"codec_name": "aac",
			"sample_rate": "44100",
			"channels": 2,
			"bit_rate": "128000"
		}
	],
	"format": {
		"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
		"duration": "12.512000",
		"size": "4186721",
		"bit_rate": "2676000"
	}
}`

func TestParseProbeOutput(t *testing.T) {
	result, err := parseProbeOutput([]byte(sampleProbeOutput))
	require.NoError(t, err)

	assert.Equal(t, "mov,mp4,m4a,3gp,3g2,mj2", result.FormatName)
	assert.InDelta(t, 12.512, result.DurationSeconds, 0.001)
	assert.Equal(t, int64(4186721), result.SizeBytes)
	assert.Equal(t, int64(2676000), result.BitRate)

	require.NotNil(t, result.Video)
	assert.Equal(t, "h264", result.Video.Codec)
	assert.Equal(t, 1280, result.Video.Width)
	assert.Equal(t, 720, result.Video.Height)
	assert.Equal(t, "yuv420p", result.Video.PixelFormat)
	assert.InDelta(t, 29.97, result.Video.FrameRate, 0.01)

	require.NotNil(t, result.Audio)
	assert.Equal(t, "aac", result.Audio.Codec)
	assert.Equal(t, 44100, result.Audio.SampleRate)
	assert.Equal(t, 2, result.Audio.Channels)
}

func TestParseProbeOutputNoStreams(t *testing.T) {
	result, err := parseProbeOutput([]byte(`{"format":{"format_name":"matroska,webm","duration":"45.0"}}`))
	require.NoError(t, err)
	assert.Nil(t, result.Video)
	assert.Nil(t, result.Audio)
	assert.InDelta(t, 45.0, result.DurationSeconds, 0.001)
}

func TestParseProbeOutputInvalidJSON(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	assert.Error(t, err)
}

func TestIsStandardContainer(t *testing.T) {
	tests := []struct {
		formatName string
		want       bool
	}{
		{"mov,mp4,m4a,3gp,3g2,mj2", true},
		{"mp4", true},
		{"matroska,webm", false},
		{"avi", false},
		{"mpegts", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.formatName, func(t *testing.T) {
			assert.Equal(t, tt.want, isStandardContainer(tt.formatName))
		})
	}
}

func TestNeedsTranscode(t *testing.T) {
	tests := []struct {
		name   string
		result ProbeResult
		want   bool
	}{
		{"standard with faststart", ProbeResult{IsStandardContainer: true, HasFastStart: true}, false},
		{"standard without faststart", ProbeResult{IsStandardContainer: true, HasFastStart: false}, true},
		{"non-standard container", ProbeResult{IsStandardContainer: false, HasFastStart: false}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.NeedsTranscode())
		})
	}
}

func TestParseFrameRate(t *testing.T) {
	assert.Equal(t, float64(30), parseFrameRate("30/1"))
	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.01)
	assert.Equal(t, float64(0), parseFrameRate("0/0"))
	assert.Equal(t, float64(0), parseFrameRate(""))
	assert.Equal(t, float64(0), parseFrameRate("garbage"))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, float64(0), parseFloat("N/A"))
	assert.Equal(t, float64(1.5), parseFloat("1.5"))
	assert.Equal(t, int64(0), parseInt64("N/A"))
	assert.Equal(t, int64(42), parseInt64("42"))
}
