package config

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModelName indicates an empty generation model name.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates an empty embedder model name.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidEmbedderDimension indicates a non-positive vector dimension.
	ErrInvalidEmbedderDimension = errors.New("invalid embedder dimension")

	// ErrInvalidSnapshotPath indicates an empty snapshot path.
	ErrInvalidSnapshotPath = errors.New("invalid snapshot path")

	// ErrInvalidWikiURL indicates a missing or unparsable wiki API URL.
	ErrInvalidWikiURL = errors.New("invalid wiki API URL")

	// ErrInvalidQuestionLen indicates a non-positive question length bound.
	ErrInvalidQuestionLen = errors.New("invalid max question length")
)

// Validate checks the structural configuration values.
// Returns sentinel errors checkable with errors.Is().
//
// Retrieval tuning is deliberately not validated here: loadRetrieval already
// degraded bad values to defaults, because a mistyped boost factor is not a
// reason to abort startup. Everything below is: a wrong dimension or model
// name means no query could ever succeed.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}
	if c.EmbedderDimension <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidEmbedderDimension, c.EmbedderDimension)
	}
	if c.SnapshotPath == "" {
		return fmt.Errorf("%w: snapshot_path cannot be empty", ErrInvalidSnapshotPath)
	}
	if c.MaxQuestionLen <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidQuestionLen, c.MaxQuestionLen)
	}

	u, err := url.Parse(c.Wiki.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidWikiURL, c.Wiki.APIURL)
	}

	return nil
}
