package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/ejfii/beginners-luck-sub000/internal/api"
	"github.com/ejfii/beginners-luck-sub000/internal/calculator"
	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

// MoveService records demands and offers and reports negotiation analytics.
type MoveService struct {
	base
}

// NewMoveService creates a MoveService with the given storage backend.
func NewMoveService(store storage.Store, logger *slog.Logger) *MoveService {
	return &MoveService{base: newBase(store, logger)}
}

// WithClock replaces the time source. Used by tests.
func (s *MoveService) WithClock(now func() time.Time) *MoveService {
	s.now = now
	return s
}

// Mount registers the service's procedures on mux.
func (s *MoveService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	opts = handlerOptions(opts)
	handle(mux, api.AddMoveProcedure, s.AddMove, opts)
	handle(mux, api.ListMovesProcedure, s.ListMoves, opts)
	handle(mux, api.DeleteMoveProcedure, s.DeleteMove, opts)
	handle(mux, api.GetAnalyticsProcedure, s.GetAnalytics, opts)
}

// AddMove appends a demand or offer to the negotiation's history.
func (s *MoveService) AddMove(ctx context.Context, req *connect.Request[api.AddMoveRequest]) (*connect.Response[api.MoveResponse], error) {
	negotiationID := req.Msg.NegotiationID
	s.logger.Info("AddMove request received",
		"negotiation_id", negotiationID,
		"party", req.Msg.Party,
		"amount", req.Msg.Amount.String(),
	)

	n, err := s.authorize(ctx, negotiationID)
	if err != nil {
		return nil, s.fail("AddMove failed", err, "negotiation_id", negotiationID)
	}
	move, err := s.buildMove(req.Msg)
	if err != nil {
		return nil, s.fail("AddMove failed", err, "negotiation_id", negotiationID)
	}
	move.NegotiationID = n.ID

	move.Timestamp = s.clock()
	if err := s.store.CreateMove(ctx, move); err != nil {
		return nil, s.fail("AddMove failed", err, "negotiation_id", negotiationID)
	}

	s.logger.Info("Move added", "negotiation_id", n.ID, "move_id", move.ID, "type", move.Type)
	return connect.NewResponse(&api.MoveResponse{Move: api.NewMove(*move)}), nil
}

func (s *MoveService) buildMove(req *api.AddMoveRequest) (*models.Move, error) {
	if !req.Party.Valid() {
		return nil, &models.ValidationError{Field: "party", Reason: "must be plaintiff or defendant"}
	}
	moveType := models.MoveTypeFor(req.Party)
	if req.Type != "" && req.Type != moveType {
		return nil, &models.ValidationError{
			Field:  "type",
			Reason: "a " + string(req.Party) + " can only make a " + string(moveType),
		}
	}
	amount, err := req.Amount.Resolve("amount")
	if err != nil {
		return nil, err
	}
	if amount == nil {
		return nil, &models.ValidationError{Field: "amount", Reason: "required"}
	}
	if *amount <= 0 {
		return nil, &models.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	return &models.Move{
		Party:  req.Party,
		Type:   moveType,
		Amount: *amount,
		Notes:  strings.TrimSpace(req.Notes),
	}, nil
}

// ListMoves returns the negotiation's history in chronological order.
func (s *MoveService) ListMoves(ctx context.Context, req *connect.Request[api.ListMovesRequest]) (*connect.Response[api.ListMovesResponse], error) {
	n, err := s.authorize(ctx, req.Msg.NegotiationID)
	if err != nil {
		return nil, s.fail("ListMoves failed", err, "negotiation_id", req.Msg.NegotiationID)
	}

	moves, err := s.store.ListMoves(ctx, n.ID)
	if err != nil {
		return nil, s.fail("ListMoves failed", err, "negotiation_id", n.ID)
	}

	out := make([]api.Move, len(moves))
	for i, m := range moves {
		out[i] = api.NewMove(m)
	}
	return connect.NewResponse(&api.ListMovesResponse{Moves: out}), nil
}

// DeleteMove removes one move. The remaining moves keep their timestamps.
func (s *MoveService) DeleteMove(ctx context.Context, req *connect.Request[api.DeleteMoveRequest]) (*connect.Response[api.DeleteMoveResponse], error) {
	negotiationID := req.Msg.NegotiationID
	s.logger.Info("DeleteMove request received", "negotiation_id", negotiationID, "move_id", req.Msg.MoveID)

	n, err := s.authorize(ctx, negotiationID)
	if err != nil {
		return nil, s.fail("DeleteMove failed", err, "negotiation_id", negotiationID)
	}
	if req.Msg.MoveID == "" {
		return nil, s.fail("DeleteMove failed", &models.ValidationError{Field: "move_id", Reason: "required"})
	}
	if err := s.store.DeleteMove(ctx, n.ID, req.Msg.MoveID); err != nil {
		return nil, s.fail("DeleteMove failed", err, "negotiation_id", negotiationID, "move_id", req.Msg.MoveID)
	}
	return connect.NewResponse(&api.DeleteMoveResponse{}), nil
}

// GetAnalytics recomputes convergence analytics from the current history.
func (s *MoveService) GetAnalytics(ctx context.Context, req *connect.Request[api.GetAnalyticsRequest]) (*connect.Response[api.AnalyticsResponse], error) {
	n, err := s.authorize(ctx, req.Msg.NegotiationID)
	if err != nil {
		return nil, s.fail("GetAnalytics failed", err, "negotiation_id", req.Msg.NegotiationID)
	}

	moves, err := s.store.ListMoves(ctx, n.ID)
	if err != nil {
		return nil, s.fail("GetAnalytics failed", err, "negotiation_id", n.ID)
	}

	analytics := calculator.ComputeAnalytics(moves)
	if analytics == nil {
		s.logger.Debug("GetAnalytics: not enough moves", "negotiation_id", n.ID, "moves", len(moves))
	}
	return connect.NewResponse(&api.AnalyticsResponse{Analytics: api.NewAnalytics(analytics)}), nil
}
