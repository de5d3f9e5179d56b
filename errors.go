package trajfilter

import "fmt"

// ErrInvalidConfig indicates a policy field outside its allowed range.
type ErrInvalidConfig struct {
	Field  string
	Value  any
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
