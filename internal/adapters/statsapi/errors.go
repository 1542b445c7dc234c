package statsapi

import "errors"

// Sentinel kinds for stats API failures.
var (
	// ErrNoData means the upstream has no game log for the requested season.
	// It is a warning, not a failure.
	ErrNoData = errors.New("no game log data")

	// ErrUpstream wraps non-2xx responses.
	ErrUpstream = errors.New("stats api request failed")

	// ErrDecode wraps responses that are not the expected JSON.
	ErrDecode = errors.New("stats api response could not be decoded")
)
