package quiz

import "fmt"

// InvalidSessionStateError reports an operation attempted against a
// session in a state that does not allow it.
type InvalidSessionStateError struct {
	SessionID string
	State     State
	Op        string
}

func (e *InvalidSessionStateError) Error() string {
	return fmt.Sprintf("session %s: cannot %s in state %s", e.SessionID, e.Op, e.State)
}

// HeadMismatchError reports a submission for a question that is not at
// the head of the session queue.
type HeadMismatchError struct {
	SessionID string
	Submitted string
	Head      string
}

func (e *HeadMismatchError) Error() string {
	return fmt.Sprintf("session %s: submitted %s but current question is %s",
		e.SessionID, e.Submitted, e.Head)
}
