package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chnl2024cc/short5/constant"
	"github.com/chnl2024cc/short5/pkg/ffmpeg"
)

// Short user-facing reasons stored on the record. Full diagnostic
// detail stays in logs only.
const (
	reasonValidation  = "Video file validation failed. The file may be missing, empty or corrupted."
	reasonTranscoding = "Video transcoding failed. The file may be corrupted or in an unsupported format."
	reasonMetadata    = "Could not determine video duration or format."
	reasonStorage     = "Failed to store processed video files."
	reasonUnknown     = "An unexpected error occurred during video processing. Please try uploading again."
	reasonNotFound    = "Video file was not found. Please try uploading again."
)

// StageError carries the failure category and the short reason
// persisted on the record, with the full cause retained for logging.
type StageError struct {
	Category constant.ErrorCategory
	Reason   string
	Err      error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Category, e.Err)
	}
	return string(e.Category)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(category constant.ErrorCategory, reason string, err error) *StageError {
	return &StageError{Category: category, Reason: reason, Err: err}
}

// classify maps any pipeline failure onto the error taxonomy, falling
// back to the unknown category for unrecognized errors.
func classify(err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}

	switch {
	case errors.Is(err, ffmpeg.ErrSourceMissing),
		errors.Is(err, ffmpeg.ErrSourceEmpty),
		errors.Is(err, ffmpeg.ErrSourceUnreadable),
		errors.Is(err, ffmpeg.ErrInvalidDuration):
		return stageErr(constant.ErrorCategoryValidation, reasonValidation, err)
	case errors.Is(err, context.DeadlineExceeded):
		return stageErr(constant.ErrorCategoryTranscoding, reasonTranscoding, err)
	default:
		return stageErr(constant.ErrorCategoryUnknown, reasonUnknown, err)
	}
}

// probeErr categorizes a probe failure: file-level problems are
// validation failures, anything else means the duration or container
// could not be determined.
func probeErr(err error) *StageError {
	switch {
	case errors.Is(err, ffmpeg.ErrSourceMissing):
		return stageErr(constant.ErrorCategoryValidation, reasonNotFound, err)
	case errors.Is(err, ffmpeg.ErrSourceEmpty),
		errors.Is(err, ffmpeg.ErrSourceUnreadable),
		errors.Is(err, ffmpeg.ErrInvalidDuration):
		return stageErr(constant.ErrorCategoryValidation, reasonValidation, err)
	default:
		return stageErr(constant.ErrorCategoryMetadata, reasonMetadata, err)
	}
}
