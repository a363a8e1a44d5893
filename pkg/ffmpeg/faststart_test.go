package ffmpeg

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// box builds a minimal MP4 box: 4-byte big-endian size, 4-byte type,
// payload.
func box(boxType string, payload []byte) []byte {
	var buf bytes.Buffer
	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(8+len(payload)))
	buf.Write(size)
	buf.WriteString(boxType)
	buf.Write(payload)
	return buf.Bytes()
}

func writeFile(t *testing.T, parts ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	var buf bytes.Buffer
	for _, p := range parts {
		buf.Write(p)
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestScanFastStart(t *testing.T) {
	ftyp := box("ftyp", []byte("isomiso2avc1mp41"))

	tests := []struct {
		name  string
		parts [][]byte
		want  bool
	}{
		{
			name:  "moov before mdat",
			parts: [][]byte{ftyp, box("moov", make([]byte, 128)), box("mdat", make([]byte, 256))},
			want:  true,
		},
		{
			name:  "mdat before moov",
			parts: [][]byte{ftyp, box("mdat", make([]byte, 256)), box("moov", make([]byte, 128))},
			want:  false,
		},
		{
			name:  "no mdat in prefix implies metadata is front-loaded",
			parts: [][]byte{ftyp, box("moov", make([]byte, 128))},
			want:  true,
		},
		{
			name:  "mdat only",
			parts: [][]byte{ftyp, box("mdat", make([]byte, 256))},
			want:  false,
		},
		{
			name:  "moov pushed past the scan window",
			parts: [][]byte{ftyp, box("mdat", make([]byte, scanLimit)), box("moov", make([]byte, 128))},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.parts...)
			got, err := scanFastStart(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanFastStartShortFile(t *testing.T) {
	// Files smaller than the scan window must not error.
	path := writeFile(t, box("ftyp", nil), box("moov", []byte{1, 2, 3}))
	got, err := scanFastStart(path)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestScanFastStartMissingFile(t *testing.T) {
	_, err := scanFastStart(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
}
