package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  environment: develop
  host: localhost
  protocol: http

server:
  port: "8080"
  workers: 4

postgresql_host: "host=localhost port=5432 user=short5 dbname=short5 sslmode=disable"

rabbitmq_host: localhost
rabbitmq_port: 5672
rabbitmq_user: guest
rabbitmq_pass: guest

minio:
  url: localhost:9000
  access_id: minioadmin
  secret_access_key: minioadmin
  bucket: short5

pipeline:
  thumbnail_timestamp_seconds: 5.0
  transcode_timeout_minutes: 10
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sampleConfig), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "develop", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.HttpPort)
	assert.Equal(t, 4, cfg.Server.Workers)
	assert.Equal(t, "short5", cfg.MinIOBucket)
	require.NotNil(t, cfg.DB)
	require.NotNil(t, cfg.Storage)

	assert.Equal(t, "localhost", cfg.Queue.Host)
	assert.Equal(t, 5672, cfg.Queue.Port)

	// Queue topology defaults.
	assert.Equal(t, "topic", cfg.Queue.Kind)
	assert.Equal(t, "video_processing", cfg.Queue.ExchangeName)
	assert.Equal(t, "video_processing_queue", cfg.Queue.QueueName)
	assert.Equal(t, "video.process", cfg.Queue.RoutingKey)

	// Explicit values override pipeline defaults, the rest fall back.
	assert.Equal(t, 5.0, cfg.Pipeline.ThumbnailTimestamp)
	assert.Equal(t, 10*time.Minute, cfg.Pipeline.TranscodeTimeout)
	assert.Equal(t, "temp", cfg.Pipeline.TempDir)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.ProbeTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Pipeline.StuckJobTTL)
	assert.Equal(t, "libx264", cfg.Pipeline.Encode.VideoCodec)
	assert.Equal(t, 23, cfg.Pipeline.Encode.CRF)
}
