package constants

import "errors"

// Configuration errors.
var (
	ErrProfileNotFound     = errors.New("credentials profile not found")
	ErrNoCredentialsInFile = errors.New("credentials profile has no access key")
)

// Validation errors.
var (
	ErrAccountIDRequired        = errors.New("--account flag is required")
	ErrInvalidOutputFormat      = errors.New("invalid output format, expected table, json or yaml")
	ErrInvalidEncryptionSetting = errors.New("invalid value for --require-encryption")
)
