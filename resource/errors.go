package resource

import "errors"

// ErrOverLimit is returned when a single reservation exceeds the configured limit.
var ErrOverLimit = errors.New("resource: request exceeds limit")
