package ai

// Outcome classifies how a gateway call ended
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeEmpty            Outcome = "empty"
	OutcomePermissionDenied Outcome = "permission_denied"
	OutcomeConfiguration    Outcome = "configuration"
	OutcomeFailed           Outcome = "failed"
)

// Result carries the value of a gateway call, which is the degraded
// fallback whenever Outcome is not ok.
type Result[T any] struct {
	Value   T       `json:"value"`
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"`
}

// OK reports whether the call produced a real value
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeOK
}

func result[T any](value T, outcome Outcome, err error) Result[T] {
	return Result[T]{Value: value, Outcome: outcome, Err: err}
}
