// Package common defines shared constants and sentinel errors used across
// the POS client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrStorageUnavailable means the local database could not be reached
	// (file locked, disk full, storage disabled). An operation failing with
	// this error has not persisted anything; the sale-finalization path must
	// surface it to the operator instead of reporting the sale as saved.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// ErrRejectedPayload means the server definitively refused the sale
	// payload (a non-transient 4xx). Records failing with this error are
	// flagged for manual review and excluded from further automatic retries.
	ErrRejectedPayload = errors.New("sale payload rejected by server")

	// ErrEmptySale is returned when a sale snapshot with no line items is
	// submitted for queueing.
	ErrEmptySale = errors.New("sale has no line items")
)
