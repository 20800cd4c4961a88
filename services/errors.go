package services

import "errors"

// Общие ошибки сервисного слоя, маппятся на HTTP в handlers.
var (
	// Setup
	ErrTeamCountInvalid  = errors.New("team count must be at least 2")
	ErrSetupCommitFailed = errors.New("failed to commit auction setup")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid operator credentials")
	ErrAuthTokenIssueFailed   = errors.New("failed to issue operator token")

	// Media
	ErrUploaderNotConfigured = errors.New("media storage is not configured")
	ErrMediaFileRequired     = errors.New("at least one file is required")
	ErrMediaUploadFailed     = errors.New("failed to upload media file")
	ErrMediaKeyInvalid       = errors.New("media key must be under logos/ or players/")
	ErrMediaDeleteFailed     = errors.New("failed to delete media file")
)
