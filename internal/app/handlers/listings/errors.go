package listings

import "errors"

var (
	ErrRepositoryMissing = errors.New("listings: repository not configured")
	ErrUnknownFilterType = errors.New("listings: invalid filter type")
)
