package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrInvalidBackend     = errors.New("invalid storage backend: must be sqlite or json")
	ErrInvalidTimeout     = errors.New("invalid timeout: must be positive")
	ErrInvalidQuality     = errors.New("invalid capture quality: must be between 1 and 100")
	ErrInvalidViewport    = errors.New("invalid viewport: width and height must be positive")
	ErrInvalidTitleMethod = errors.New("invalid title method: must be html, surface or none")
	ErrInvalidConcurrency = errors.New("invalid health concurrency: must be positive")
)
