package reference

import "errors"

// ErrMalformed marks a reference data set that cannot be parsed.
var ErrMalformed = errors.New("malformed reference data")
