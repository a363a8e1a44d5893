package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chnl2024cc/short5/constant"
	"github.com/chnl2024cc/short5/entities"
)

// VideoRepository is the single point that transitions a video's
// persisted state. MarkReady and MarkFailed are each one UPDATE
// statement, so the status and the artifact references change
// together and calling a terminal write twice converges to the same
// record.
type VideoRepository interface {
	FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkReady(ctx context.Context, id uuid.UUID, mp4Ref, thumbnailRef string, durationSeconds int, metadataJSON string) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorReason string) error
	FindStuck(ctx context.Context, olderThan time.Duration) ([]*entities.Video, error)
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) VideoRepository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	return &repo{
		db: gormDB,
	}
}

func (r *repo) FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	video := &entities.Video{}
	err := r.db.WithContext(ctx).First(video, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return video, nil
}

func (r *repo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entities.Video{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       constant.VideoStatusProcessing,
		"error_reason": nil,
		"updated_at":   time.Now().UTC(),
	}).Error
}

func (r *repo) MarkReady(ctx context.Context, id uuid.UUID, mp4Ref, thumbnailRef string, durationSeconds int, metadataJSON string) error {
	return r.db.WithContext(ctx).Model(&entities.Video{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":              constant.VideoStatusReady,
		"url_mp4":             mp4Ref,
		"thumbnail":           thumbnailRef,
		"duration_seconds":    durationSeconds,
		"video_metadata_json": metadataJSON,
		"error_reason":        nil,
		"updated_at":          time.Now().UTC(),
	}).Error
}

func (r *repo) MarkFailed(ctx context.Context, id uuid.UUID, errorReason string) error {
	return r.db.WithContext(ctx).Model(&entities.Video{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       constant.VideoStatusFailed,
		"url_mp4":      nil,
		"thumbnail":    nil,
		"error_reason": errorReason,
		"updated_at":   time.Now().UTC(),
	}).Error
}

func (r *repo) FindStuck(ctx context.Context, olderThan time.Duration) ([]*entities.Video, error) {
	var videos []*entities.Video
	cutoff := time.Now().UTC().Add(-olderThan)
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", constant.VideoStatusProcessing, cutoff).
		Order("updated_at ASC").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}
