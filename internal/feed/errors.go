package feed

import (
	"errors"
)

var (
	// ErrStoreUnavailable wraps read/write failures of the notification
	// store. Consumers keep their last-known-good snapshot when they see it.
	ErrStoreUnavailable = errors.New("notification store unavailable")

	// ErrMutationFailed wraps a rejected store write. No local state is
	// adjusted when it is returned.
	ErrMutationFailed = errors.New("notification mutation failed")

	// ErrDomainUnavailable wraps failures reading the domain records.
	ErrDomainUnavailable = errors.New("domain store unavailable")
)
