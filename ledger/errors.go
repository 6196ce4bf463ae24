package ledger

import "errors"

var (
	// ErrCorruptedLedgerDb For some reason, db on disk representation have changed
	ErrCorruptedLedgerDb = errors.New("ledger db is corrupted")

	// ErrRequestNotFound The group request we try to load is not found in db
	ErrRequestNotFound = errors.New("group request not found")

	// ErrDuplicateRequest The group request we try to add already exists in db
	ErrDuplicateRequest = errors.New("group request already exists")
)
