package executor

// Value is a styled attribute together with where it was written.
type Value[T any] struct {
	Value T   `json:"value"`
	Line  int `json:"line,omitempty"`
	// Reference is the variable the value was read from, when it was passed
	// as a `$reference`.
	Reference string `json:"reference,omitempty"`
}

func newValue[T any](v T, arg argument) *Value[T] {
	return &Value[T]{Value: v, Line: arg.line, Reference: arg.reference}
}
