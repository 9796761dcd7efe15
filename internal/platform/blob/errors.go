package blob

import (
	"fmt"

	"learnex_quiz/internal/common"
)

type Kind int

const (
	KindNotConfigured Kind = iota + 1
	KindNetwork
	KindNotFound
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotConfigured:
		return "not configured"
	case KindNetwork:
		return "network failure"
	case KindNotFound:
		return "not found"
	case KindMalformed:
		return "malformed content"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Name string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("blob %s", e.Op)
	if e.Name != "" {
		msg += fmt.Sprintf(" '%s'", e.Name)
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
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
	case KindNotFound:
		return common.ErrNotFound
	default:
		return common.ErrUpstream
	}
}
