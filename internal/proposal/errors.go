// Package proposal holds the lifecycle rules for bracket and mediator
// proposals. Functions here are pure: they validate, transition and derive
// status on in-memory records and leave persistence to the caller.
package proposal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation targets a proposal that
	// is already in a terminal state.
	ErrInvalidState = errors.New("proposal: invalid state")

	// ErrDeadlinePassed is returned when responding to a mediator proposal
	// after its deadline.
	ErrDeadlinePassed = fmt.Errorf("%w: deadline has passed", ErrInvalidState)
)
