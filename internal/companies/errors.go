package companies

import "jobboard-backend/internal/access"

var (
	ErrNotFound = access.ErrNotFound

	errDuplicateName = access.Invalid("company with this name already exists")
	errNotImage      = access.Invalid("logo must be an image")
)
