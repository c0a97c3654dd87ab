package extraction

import (
	"errors"
	"fmt"
)

// Reason classifies why an extraction call failed.
type Reason string

const (
	// ReasonNetwork covers transport errors and non-2xx responses.
	ReasonNetwork Reason = "network"
	// ReasonNoData means the API answered with an empty body or no choices.
	ReasonNoData Reason = "no_data"
	// ReasonBadEnvelope means the outer chat-completion response did not decode.
	ReasonBadEnvelope Reason = "bad_envelope"
	// ReasonBadPayload means the model's content was not the expected JSON.
	ReasonBadPayload Reason = "bad_payload"
)

// ExtractionError is returned by the client for any failed extraction.
// The pipeline inspects it only to log; every reason triggers the same
// regex fallback.
type ExtractionError struct {
	Reason Reason
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extraction failed: %s", e.Reason)
	}
	return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// AsExtractionError unwraps err into an *ExtractionError if possible.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	ok := errors.As(err, &ee)
	return ee, ok
}
