package corpus

import (
	"errors"
	"fmt"
)

// NotFoundError reports a lookup for an id, category, or tag that the
// index does not contain.
type NotFoundError struct {
	Kind string // "question", "category", "tag"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
