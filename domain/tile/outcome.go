package tile

// OutcomeKind categorizes the result of one upstream fetch.
type OutcomeKind int

const (
	// OutcomeSuccess means the upstream replied with a 2xx status.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeHTTPError means the upstream replied with a non-2xx status.
	OutcomeHTTPError
	// OutcomeNetworkError covers connection refusals, DNS failures and
	// resets before a response arrived.
	OutcomeNetworkError
	// OutcomeTimeout means the profile-scoped deadline elapsed.
	OutcomeTimeout
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeNetworkError:
		return "network_error"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Outcome is the categorized result of fetching one tile. Exactly one
// of the payload fields is meaningful for each kind.
type Outcome struct {
	Kind        OutcomeKind
	StatusCode  int    // Success, HTTPError
	ContentType string // Success
	Body        []byte // Success
	Err         error  // NetworkError, Timeout
}
