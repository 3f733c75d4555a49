package starling

import "fmt"

// FetchError is returned for transport failures and non-2xx responses
// from the Starling API. StatusCode is zero for transport-level failures.
type FetchError struct {
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("starling: GET %s returned status %d: %s", e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("starling: GET %s failed: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Unauthorized reports whether the upstream rejected the bearer token.
func (e *FetchError) Unauthorized() bool { return e.StatusCode == 401 }

// SchemaError is returned when a 2xx response body cannot be decoded
// into the expected record shape, or a required field is missing.
// Partial records are never produced.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("starling: GET %s returned unexpected payload: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
