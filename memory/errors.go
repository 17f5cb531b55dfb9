package memory

import "fmt"

// PersistenceError reports a memory-store read or write failure. Reads
// fail closed: a caller must abort its run rather than treat a failed
// read as an empty memory, since that would defeat deduplication.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("memory store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
