package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
)

// ErrNotFound wraps the object store's missing-key responses so
// callers can distinguish a missing source from an IO failure.
var ErrNotFound = errors.New("object not found")

// Store persists artifacts in a per-video namespace. Puts are staged
// under a hidden prefix and finalized with a server-side copy, so a
// concurrent reader never observes a half-written artifact.
type Store struct {
	client *minio.Client
	bucket string
}

func New(client *minio.Client, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
	}
}

func artifactKey(videoID, logicalName string) string {
	return path.Join("videos", videoID, logicalName)
}

func stagingKey(videoID, logicalName string) string {
	return path.Join(".staging", videoID, logicalName)
}

func contentTypeFor(logicalName string) string {
	switch {
	case strings.HasSuffix(logicalName, ".mp4"):
		return "video/mp4"
	case strings.HasSuffix(logicalName, ".jpg"), strings.HasSuffix(logicalName, ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// FetchSource downloads the original upload into the local workspace.
func (s *Store) FetchSource(ctx context.Context, objectPath, localPath string) error {
	err := s.client.FGetObject(ctx, s.bucket, objectPath, localPath, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, objectPath)
		}
		return fmt.Errorf("fetch source %s: %w", objectPath, err)
	}
	return nil
}

// Put uploads a produced file under the video's namespace and returns
// its stable reference. The upload lands on a staging key first and is
// promoted with an atomic server-side copy.
func (s *Store) Put(ctx context.Context, videoID, localPath, logicalName string) (string, error) {
	staging := stagingKey(videoID, logicalName)
	final := artifactKey(videoID, logicalName)

	_, err := s.client.FPutObject(ctx, s.bucket, staging, localPath, minio.PutObjectOptions{
		ContentType: contentTypeFor(logicalName),
	})
	if err != nil {
		return "", fmt.Errorf("stage artifact %s: %w", final, err)
	}

	_, err = s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: final},
		minio.CopySrcOptions{Bucket: s.bucket, Object: staging},
	)
	if err != nil {
		return "", fmt.Errorf("finalize artifact %s: %w", final, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, staging, minio.RemoveObjectOptions{}); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("object", staging).Msg("failed to remove staging object")
	}

	return final, nil
}

// RemoveSource deletes the original upload. A missing object is not an
// error.
func (s *Store) RemoveSource(ctx context.Context, objectPath string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("remove source %s: %w", objectPath, err)
	}
	return nil
}

// RemoveArtifacts deletes everything written for this video, staged or
// finalized.
func (s *Store) RemoveArtifacts(ctx context.Context, videoID string) error {
	var firstErr error
	for _, prefix := range []string{path.Join("videos", videoID) + "/", path.Join(".staging", videoID) + "/"} {
		for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
			if object.Err != nil {
				if firstErr == nil {
					firstErr = object.Err
				}
				continue
			}
			if err := s.client.RemoveObject(ctx, s.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
