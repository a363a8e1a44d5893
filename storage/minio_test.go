package storage

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestArtifactKeys(t *testing.T) {
	assert.Equal(t, "videos/abc/video.mp4", artifactKey("abc", "video.mp4"))
	assert.Equal(t, "videos/abc/thumbnail.jpg", artifactKey("abc", "thumbnail.jpg"))
	assert.Equal(t, ".staging/abc/video.mp4", stagingKey("abc", "video.mp4"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "video/mp4", contentTypeFor("video.mp4"))
	assert.Equal(t, "image/jpeg", contentTypeFor("thumbnail.jpg"))
	assert.Equal(t, "image/jpeg", contentTypeFor("frame.jpeg"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("metadata.bin"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("connection refused")))
}
