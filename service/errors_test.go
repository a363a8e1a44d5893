package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chnl2024cc/short5/constant"
	"github.com/chnl2024cc/short5/pkg/ffmpeg"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category constant.ErrorCategory
		reason   string
	}{
		{
			name:     "stage error passes through",
			err:      stageErr(constant.ErrorCategoryStorage, reasonStorage, errors.New("connection refused")),
			category: constant.ErrorCategoryStorage,
			reason:   reasonStorage,
		},
		{
			name:     "wrapped stage error passes through",
			err:      fmt.Errorf("attempt 2: %w", stageErr(constant.ErrorCategoryTranscoding, reasonTranscoding, errors.New("boom"))),
			category: constant.ErrorCategoryTranscoding,
			reason:   reasonTranscoding,
		},
		{
			name:     "empty source is a validation failure",
			err:      fmt.Errorf("probe: %w", ffmpeg.ErrSourceEmpty),
			category: constant.ErrorCategoryValidation,
			reason:   reasonValidation,
		},
		{
			name:     "invalid duration is a validation failure",
			err:      ffmpeg.ErrInvalidDuration,
			category: constant.ErrorCategoryValidation,
			reason:   reasonValidation,
		},
		{
			name:     "deadline exceeded is a transcoding failure",
			err:      fmt.Errorf("ffmpeg: %w", context.DeadlineExceeded),
			category: constant.ErrorCategoryTranscoding,
			reason:   reasonTranscoding,
		},
		{
			name:     "anything else is unknown",
			err:      errors.New("nil pointer dereference"),
			category: constant.ErrorCategoryUnknown,
			reason:   reasonUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := classify(tt.err)
			assert.Equal(t, tt.category, se.Category)
			assert.Equal(t, tt.reason, se.Reason)
		})
	}
}

func TestProbeErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category constant.ErrorCategory
		reason   string
	}{
		{
			name:     "missing source maps to not found",
			err:      fmt.Errorf("probe: %w", ffmpeg.ErrSourceMissing),
			category: constant.ErrorCategoryValidation,
			reason:   reasonNotFound,
		},
		{
			name:     "unreadable source is a validation failure",
			err:      ffmpeg.ErrSourceUnreadable,
			category: constant.ErrorCategoryValidation,
			reason:   reasonValidation,
		},
		{
			name:     "ffprobe failure is a metadata failure",
			err:      errors.New("ffprobe failed: exit status 1"),
			category: constant.ErrorCategoryMetadata,
			reason:   reasonMetadata,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := probeErr(tt.err)
			assert.Equal(t, tt.category, se.Category)
			assert.Equal(t, tt.reason, se.Reason)
		})
	}
}

func TestStageErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	se := stageErr(constant.ErrorCategoryStorage, reasonStorage, cause)
	assert.ErrorIs(t, se, cause)
	assert.Contains(t, se.Error(), "STORAGE_ERROR")
}
