package entities

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/chnl2024cc/short5/constant"
)

type Video struct {
	ID                uuid.UUID            `json:"id" gorm:"primaryKey"`
	UserID            uuid.UUID            `json:"user_id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Status            constant.VideoStatus `json:"status"`
	URLMp4            *string              `json:"url_mp4" gorm:"column:url_mp4"`
	Thumbnail         *string              `json:"thumbnail"`
	DurationSeconds   *int                 `json:"duration_seconds"`
	FileSizeBytes     *int64               `json:"file_size_bytes"`
	OriginalFilename  string               `json:"original_filename"`
	ErrorReason       *string              `json:"error_reason"`
	VideoMetadataJSON *string              `json:"video_metadata_json" gorm:"column:video_metadata_json"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

// SourceObjectPath is the object-store key of the originally uploaded
// file. Originals are stored under their video id with the uploaded
// extension preserved, defaulting to .mp4 when none was recorded.
func (v *Video) SourceObjectPath() string {
	ext := filepath.Ext(v.OriginalFilename)
	if ext == "" {
		ext = ".mp4"
	}
	return fmt.Sprintf("originals/%s%s", v.ID, ext)
}
