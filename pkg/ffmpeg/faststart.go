package ffmpeg

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// scanLimit bounds how much of the file header is read when looking
// for the moov/mdat markers. A front-loaded moov shows up well within
// the first tens of kilobytes.
const scanLimit = 64 << 10

var (
	markerMoov = []byte("moov")
	markerMdat = []byte("mdat")
)

// scanFastStart reports whether the container's stream metadata (moov)
// precedes its media payload (mdat) by scanning a bounded prefix of
// the file. If no mdat marker appears in the prefix the metadata is
// already at the front and the file is considered faststart.
func scanFastStart(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, scanLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	buf = buf[:n]

	mdat := bytes.Index(buf, markerMdat)
	if mdat < 0 {
		return true, nil
	}
	moov := bytes.Index(buf, markerMoov)
	return moov >= 0 && moov < mdat, nil
}
