package domain

import "fmt"

// HTTPStatusError is returned when an upstream answers with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "unexpected HTTP status"
	}
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}
