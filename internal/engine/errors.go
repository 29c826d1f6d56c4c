package engine

import (
	"errors"
	"fmt"
)

// ErrNoCorpus is returned by query operations before any corpus has
// been loaded.
var ErrNoCorpus = errors.New("no corpus loaded")

// LoadError reports a failed load attempt. The previously active index,
// if any, remains in service.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load corpus: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
