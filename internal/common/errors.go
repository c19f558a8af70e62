// Package common defines shared sentinel errors used across the store,
// remote client and sync layers of PromptKeeper. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Sync configuration errors (missing credential or database id;
	// no network call is attempted).
	ErrConfigIncomplete = errors.New("sync configuration incomplete")

	// Remote service errors. Both are fatal for the current run: the
	// orchestrator schedules no retry and leaves the watermark untouched.
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")

	// Run coordination errors.
	ErrSyncInProgress = errors.New("sync already in progress")

	// Credential protection errors.
	ErrBadPassphrase = errors.New("invalid passphrase")
)
