package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSourceObjectPath(t *testing.T) {
	id := uuid.MustParse("8d3a1c2e-4f5b-4a6c-9d7e-1f2a3b4c5d6e")

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"mov upload keeps extension", "holiday.mov", "originals/" + id.String() + ".mov"},
		{"mkv upload keeps extension", "raw.mkv", "originals/" + id.String() + ".mkv"},
		{"no extension defaults to mp4", "upload", "originals/" + id.String() + ".mp4"},
		{"empty filename defaults to mp4", "", "originals/" + id.String() + ".mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Video{ID: id, OriginalFilename: tt.filename}
			assert.Equal(t, tt.want, v.SourceObjectPath())
		})
	}
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "videos", Video{}.TableName())
}
