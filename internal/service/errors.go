package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/proposal"
	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

var (
	// ErrNotOwner is returned when the caller does not own the negotiation.
	ErrNotOwner = errors.New("negotiation belongs to another user")

	errNoUser = errors.New("no authenticated user")
)

// toConnectError maps domain errors onto Connect codes. Errors that are
// already *connect.Error pass through unchanged.
func toConnectError(err error) error {
	var (
		connectErr *connect.Error
		validation *models.ValidationError
	)
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.As(err, &validation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, proposal.ErrInvalidState):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, storage.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, errNoUser):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// prefixField qualifies the field of a ValidationError, e.g. "current.policy_limit".
func prefixField(err error, prefix string) error {
	var validation *models.ValidationError
	if errors.As(err, &validation) {
		return &models.ValidationError{Field: prefix + "." + validation.Field, Reason: validation.Reason}
	}
	return err
}
