package util

type Error struct {
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

var (
	ErrUnavailable         = &Error{Message: "this content is unavailable"}
	ErrTimeout             = &Error{Message: "timeout error when resolving. try again"}
	ErrRateLimited         = &Error{Message: "slow down! too many links, try again in a bit"}
	ErrExtractorDisabled   = &Error{Message: "this service is disabled on this instance"}
	ErrUpstreamUnavailable = &Error{Message: "the service is not responding right now, try again later"}
)
