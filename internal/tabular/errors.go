package tabular

import "fmt"

// ParseError rejects an uploaded dataset before any row is classified.
type ParseError struct {
	Name   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot parse %q: %s", e.Name, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
