package scraper

import "fmt"

// TransientError is a failed request that may succeed when retried:
// a timeout, a connection failure or a non-2xx response.
type TransientError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ExtractionError reports markup that does not have the expected structure.
// It usually means the scraped site changed its layout.
type ExtractionError struct {
	Stage  string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %s", e.Stage, e.Reason)
}

func extractionErrorf(stage, format string, args ...any) error {
	return &ExtractionError{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}
