package worldbank

import "fmt"

// RetrievalError reports that a named API resource could not be fetched.
// The pipeline aborts on it after printing its fixed diagnostic; nothing
// downstream ever sees a half-fetched table.
type RetrievalError struct {
	Resource string
	Err      error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s: %v", e.Resource, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
