// Package service implements the settlement Connect services on top of the
// calculator, proposal workflows and storage.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/ejfii/beginners-luck-sub000/internal/api"
	"github.com/ejfii/beginners-luck-sub000/internal/middleware"
	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

// base holds what every negotiation-scoped service needs.
type base struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

func newBase(store storage.Store, logger *slog.Logger) base {
	return base{store: store, logger: logger, now: time.Now}
}

// clock returns the current time in UTC, truncated to microseconds so it
// survives every storage backend unchanged.
func (b *base) clock() time.Time {
	return b.now().UTC().Truncate(time.Microsecond)
}

// authorize loads the negotiation and checks the caller owns it.
func (b *base) authorize(ctx context.Context, negotiationID string) (*models.Negotiation, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, errNoUser
	}
	if negotiationID == "" {
		return nil, &models.ValidationError{Field: "negotiation_id", Reason: "required"}
	}

	n, err := b.store.GetNegotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if n.OwnerID != userID {
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, negotiationID)
	}
	return n, nil
}

// fail logs err and converts it for the wire.
func (b *base) fail(msg string, err error, attrs ...any) error {
	cerr := toConnectError(err)
	attrs = append(attrs, "error", err)
	if connect.CodeOf(cerr) == connect.CodeInternal {
		b.logger.Error(msg, attrs...)
	} else {
		b.logger.Warn(msg, attrs...)
	}
	return cerr
}

func handle[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler[Req, Res](procedure, fn, opts...))
}

// handlerOptions puts the JSON codec ahead of caller options.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)
}
