package compute

import "errors"

// ErrUnauthorized is wrapped by provider calls that were rejected because
// of the API key.
var ErrUnauthorized = errors.New("provider rejected the API key")
