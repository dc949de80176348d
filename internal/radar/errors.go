package radar

import "errors"

var (
	// ErrFeedUnavailable is returned when the snapshot feed cannot be fetched.
	ErrFeedUnavailable = errors.New("radar feed unavailable")

	// ErrFeedMalformed is returned when the feed body cannot be parsed or fails validation.
	ErrFeedMalformed = errors.New("radar feed malformed")

	// ErrNoEligibleSnapshot means the feed parsed fine but nothing falls inside the
	// eligibility window. Callers usually retry later.
	ErrNoEligibleSnapshot = errors.New("no eligible radar snapshot")

	// ErrLifecycleMisuse flags calls made against a control in the wrong lifecycle state.
	ErrLifecycleMisuse = errors.New("overlay control lifecycle misuse")

	// ErrDetached is returned by Overlay.Set when the overlay was detached before the feed arrived.
	ErrDetached = errors.New("overlay detached before feed arrived")
)

// IsFeedError reports whether err is one of the hard feed failures, as opposed
// to ErrNoEligibleSnapshot which is an expected outcome.
func IsFeedError(err error) bool {
	return errors.Is(err, ErrFeedUnavailable) || errors.Is(err, ErrFeedMalformed)
}
