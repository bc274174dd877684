package async

import "errors"

var (
	ErrTimeout  = errors.New("async.timeout")
	ErrPanicked = errors.New("async.task_panicked")
)
