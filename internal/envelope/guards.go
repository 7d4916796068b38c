package envelope

// IsSuccess reports whether e is a successful envelope.
func IsSuccess[T any](e *Response[T]) bool {
	return e != nil && e.Success
}

// IsError reports whether e is a failed envelope. It is always !IsSuccess(e).
func IsError[T any](e *Response[T]) bool {
	return !IsSuccess(e)
}

// GetData returns the payload of a successful envelope. The boolean is false
// for failures and for successes that carried no data.
func GetData[T any](e *Response[T]) (T, bool) {
	var zero T
	if !IsSuccess(e) || e.Data == nil {
		return zero, false
	}
	return *e.Data, true
}

// GetError returns the error block of a failed envelope.
func GetError[T any](e *Response[T]) (*ErrorInfo, bool) {
	if !IsError(e) || e == nil || e.Error == nil {
		return nil, false
	}
	return e.Error, true
}
