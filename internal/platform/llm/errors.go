package llm

import (
	"fmt"

	"learnex_quiz/internal/common"
)

type Kind int

const (
	KindNotConfigured Kind = iota + 1
	KindNetwork
	KindRateLimited
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotConfigured:
		return "not configured"
	case KindNetwork:
		return "network failure"
	case KindRateLimited:
		return "rate limited"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is returned by every Generator. Callers branch on Kind or use errors.Is
// with the common sentinels.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("llm %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("llm %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindNotConfigured:
		return common.ErrServiceUnavailable
	case KindRateLimited:
		return common.ErrTooManyRequests
	default:
		return common.ErrUpstream
	}
}
