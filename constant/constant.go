package constant

type VideoStatus string

const (
	VideoStatusUploading  VideoStatus = "uploading"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusFailed     VideoStatus = "failed"
	VideoStatusRejected   VideoStatus = "rejected"
)

func (s VideoStatus) String() string {
	return string(s)
}

type ErrorCategory string

const (
	ErrorCategoryValidation  ErrorCategory = "VALIDATION_ERROR"
	ErrorCategoryTranscoding ErrorCategory = "TRANSCODING_ERROR"
	ErrorCategoryMetadata    ErrorCategory = "METADATA_ERROR"
	ErrorCategoryStorage     ErrorCategory = "STORAGE_ERROR"
	ErrorCategoryUnknown     ErrorCategory = "UNKNOWN_ERROR"
)

func (c ErrorCategory) String() string {
	return string(c)
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
