package session

import (
	"net/http"
)

// Attempt tells a first try of a request apart from its single replay.
type Attempt int

const (
	AttemptFirst Attempt = iota
	AttemptRetried
)

func (a Attempt) String() string {
	switch a {
	case AttemptFirst:
		return "first"
	case AttemptRetried:
		return "retried"
	default:
		return "unknown"
	}
}

// Outbound is a request tagged with its attempt. Only a first attempt can
// produce a retried one, which bounds recovery to one replay per request.
type Outbound struct {
	Attempt Attempt
	Payload *http.Request
}

func NewOutbound(req *http.Request) Outbound {
	return Outbound{Attempt: AttemptFirst, Payload: req}
}

// Retry clones the payload into a retried attempt with a fresh body.
func (o Outbound) Retry() (Outbound, error) {
	if o.Attempt != AttemptFirst {
		return Outbound{}, ErrAlreadyRetried
	}

	req := o.Payload.Clone(o.Payload.Context())
	if o.Payload.Body != nil && o.Payload.Body != http.NoBody {
		if o.Payload.GetBody == nil {
			return Outbound{}, ErrBodyNotReplayable
		}
		body, err := o.Payload.GetBody()
		if err != nil {
			return Outbound{}, err
		}
		req.Body = body
	}

	return Outbound{Attempt: AttemptRetried, Payload: req}, nil
}
