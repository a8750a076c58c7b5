package deepgram

// Response carries either a result or an error, never both.
type Response[T any] struct {
	Result *T
	Error  *Error
}

func success[T any](result *T) Response[T] {
	return Response[T]{Result: result}
}

func failure[T any](err *Error) Response[T] {
	return Response[T]{Error: err}
}

// Unwrap converts the envelope into the usual (value, error) pair.
func (r Response[T]) Unwrap() (*T, error) {
	if r.Error != nil {
		return nil, r.Error
	}
	return r.Result, nil
}
