package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPoolSize = errors.New("invalid pool size")
	ErrClassification  = errors.New("classification failure")
	ErrTally           = errors.New("tally failure")
)

// TaskError is the failure of one map or reduce task. Key is the record
// name for map tasks and the category for reduce tasks.
type TaskError struct {
	Stage string
	Key   string
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s task %q: %v", e.Stage, e.Key, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func checkPoolSize(name string, size int) error {
	if size < 1 {
		return fmt.Errorf("%w: %s pool size %d, must be at least 1", ErrInvalidPoolSize, name, size)
	}
	return nil
}

// runTask runs fn, reporting its error or panic as a TaskError for key.
func runTask(stage, key string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TaskError{Stage: stage, Key: key, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &TaskError{Stage: stage, Key: key, Err: err}
	}
	return nil
}
