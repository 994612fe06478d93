// Package view holds the view-state controllers behind each screen. Controllers
// never perform I/O themselves: they hand out requests, the caller runs them
// against a papers.Gateway, and the results are committed or discarded here.
package view

// Status is the lifecycle of one remote value.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Remote is a value fetched from the backend together with its fetch status.
// Message is the user-facing text for an Error status.
type Remote[T any] struct {
	Status  Status
	Data    T
	Err     error
	Message string
}

func (r *Remote[T]) start() {
	var zero T
	r.Status = Loading
	r.Data = zero
	r.Err = nil
	r.Message = ""
}

func (r *Remote[T]) succeed(data T) {
	r.Status = Success
	r.Data = data
	r.Err = nil
	r.Message = ""
}

func (r *Remote[T]) fail(err error, message string) {
	var zero T
	r.Status = Error
	r.Data = zero
	r.Err = err
	r.Message = message
}

func (r Remote[T]) IsLoading() bool { return r.Status == Loading }

func (r Remote[T]) Failed() bool { return r.Status == Error }

func (r Remote[T]) Loaded() bool { return r.Status == Success }
