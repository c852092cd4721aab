package upstream

// Result is the outcome of a best-effort fetch. Items is never nil; a failed
// fetch yields an empty Items and the cause in Err. Callers can use Items
// directly and only look at Err for logging or metrics.
type Result[T any] struct {
	Items []T
	Err   error
}

// Ok wraps a successful fetch.
func Ok[T any](items []T) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items}
}

// Empty is the defined value of a failed fetch.
func Empty[T any](err error) Result[T] {
	return Result[T]{Items: []T{}, Err: err}
}

// Degraded reports whether the fetch failed and Items is the empty fallback.
func (r Result[T]) Degraded() bool {
	return r.Err != nil
}
