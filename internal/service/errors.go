package service

import "errors"

var (
	ErrGigNotFound          = errors.New("gig not found")
	ErrBidNotFound          = errors.New("bid not found")
	ErrUserHasNoAccessToGig = errors.New("user doesn't have sufficient rights to access the gig")

	ErrGigNotAcceptingBids = errors.New("gig is not accepting bids")
	ErrCanNotBidOnOwnGig   = errors.New("attempt to bid on own gig")
	ErrBidAlreadySubmitted = errors.New("bid on this gig already submitted")

	ErrNotGigOwner         = errors.New("acting user is not the gig owner")
	ErrGigUnavailable      = errors.New("gig has already been assigned")
	ErrBidAlreadyProcessed = errors.New("bid has already been processed")
)

// ErrorKind classifies a service error for transports. Callers switch on the kind,
// never on the message.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalid
	KindNotFound
	KindForbidden
	KindConflict
	KindInfrastructure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "infrastructure"
	}
}

// KindOf reports the kind of err. Anything that is not a known business-rule
// failure is an infrastructure failure.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrGigNotFound), errors.Is(err, ErrBidNotFound):
		return KindNotFound
	case errors.Is(err, ErrCanNotBidOnOwnGig):
		return KindInvalid
	case errors.Is(err, ErrNotGigOwner), errors.Is(err, ErrUserHasNoAccessToGig):
		return KindForbidden
	case errors.Is(err, ErrGigUnavailable), errors.Is(err, ErrBidAlreadyProcessed),
		errors.Is(err, ErrGigNotAcceptingBids), errors.Is(err, ErrBidAlreadySubmitted):
		return KindConflict
	default:
		return KindInfrastructure
	}
}

// Retryable reports whether the same call may succeed if repeated later.
func Retryable(err error) bool {
	return KindOf(err) == KindInfrastructure
}
