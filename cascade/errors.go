package cascade

import "errors"

var (
	// ErrNotAuthenticated is returned for writes on a board loaded without a user.
	ErrNotAuthenticated = errors.New("log in required")
	// ErrStaleReference means the item id is not in the loaded catalog.
	ErrStaleReference = errors.New("item not found in catalog")
	// ErrPersistence wraps a rejected batch upsert; the optimistic state was rolled back.
	ErrPersistence   = errors.New("failed to save progress")
	ErrUnknownFamily = errors.New("unknown unlock family")
)
