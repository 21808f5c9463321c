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
	"github.com/ejfii/beginners-luck-sub000/internal/middleware"
	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

// NegotiationService manages case records and runs the valuation calculator.
type NegotiationService struct {
	base
}

// NewNegotiationService creates a NegotiationService with the given storage backend.
func NewNegotiationService(store storage.Store, logger *slog.Logger) *NegotiationService {
	return &NegotiationService{base: newBase(store, logger)}
}

// WithClock replaces the time source. Used by tests.
func (s *NegotiationService) WithClock(now func() time.Time) *NegotiationService {
	s.now = now
	return s
}

// Mount registers the service's procedures on mux.
func (s *NegotiationService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	opts = handlerOptions(opts)
	handle(mux, api.CreateNegotiationProcedure, s.CreateNegotiation, opts)
	handle(mux, api.GetNegotiationProcedure, s.GetNegotiation, opts)
	handle(mux, api.ListNegotiationsProcedure, s.ListNegotiations, opts)
	handle(mux, api.UpdateEvaluationProcedure, s.UpdateEvaluation, opts)
	handle(mux, api.EvaluateNegotiationProcedure, s.EvaluateNegotiation, opts)
	handle(mux, api.EvaluateCaseProcedure, s.EvaluateCase, opts)
	handle(mux, api.CompareScenariosProcedure, s.CompareScenarios, opts)
}

// CreateNegotiation opens a new case owned by the caller.
func (s *NegotiationService) CreateNegotiation(ctx context.Context, req *connect.Request[api.CreateNegotiationRequest]) (*connect.Response[api.NegotiationResponse], error) {
	userID := middleware.GetUserID(ctx)
	s.logger.Info("CreateNegotiation request received", "user_id", userID, "title", req.Msg.Title)

	if userID == "" {
		return nil, toConnectError(errNoUser)
	}
	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, s.fail("CreateNegotiation failed", &models.ValidationError{Field: "title", Reason: "required"})
	}
	eval, err := req.Msg.Evaluation.ToModel()
	if err != nil {
		return nil, s.fail("CreateNegotiation failed", err)
	}

	now := s.clock()
	n := &models.Negotiation{
		OwnerID:    userID,
		Title:      title,
		Plaintiff:  strings.TrimSpace(req.Msg.Plaintiff),
		Defendant:  strings.TrimSpace(req.Msg.Defendant),
		Evaluation: eval,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateNegotiation(ctx, n); err != nil {
		return nil, s.fail("CreateNegotiation failed", err)
	}

	s.logger.Info("Negotiation created", "negotiation_id", n.ID)
	return connect.NewResponse(&api.NegotiationResponse{Negotiation: api.NewNegotiation(n)}), nil
}

// GetNegotiation retrieves one of the caller's negotiations.
func (s *NegotiationService) GetNegotiation(ctx context.Context, req *connect.Request[api.GetNegotiationRequest]) (*connect.Response[api.NegotiationResponse], error) {
	n, err := s.authorize(ctx, req.Msg.NegotiationID)
	if err != nil {
		return nil, s.fail("GetNegotiation failed", err, "negotiation_id", req.Msg.NegotiationID)
	}
	return connect.NewResponse(&api.NegotiationResponse{Negotiation: api.NewNegotiation(n)}), nil
}

// ListNegotiations returns the caller's negotiations, most recent first.
func (s *NegotiationService) ListNegotiations(ctx context.Context, req *connect.Request[api.ListNegotiationsRequest]) (*connect.Response[api.ListNegotiationsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, toConnectError(errNoUser)
	}

	negotiations, err := s.store.ListNegotiations(ctx, userID)
	if err != nil {
		return nil, s.fail("ListNegotiations failed", err, "user_id", userID)
	}

	out := make([]api.Negotiation, len(negotiations))
	for i, n := range negotiations {
		out[i] = api.NewNegotiation(n)
	}

	s.logger.Debug("ListNegotiations successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListNegotiationsResponse{Negotiations: out}), nil
}

// UpdateEvaluation replaces the stored damages, liability and risk inputs.
func (s *NegotiationService) UpdateEvaluation(ctx context.Context, req *connect.Request[api.UpdateEvaluationRequest]) (*connect.Response[api.NegotiationResponse], error) {
	negotiationID := req.Msg.NegotiationID
	s.logger.Info("UpdateEvaluation request received", "negotiation_id", negotiationID)

	n, err := s.authorize(ctx, negotiationID)
	if err != nil {
		return nil, s.fail("UpdateEvaluation failed", err, "negotiation_id", negotiationID)
	}
	eval, err := req.Msg.Evaluation.ToModel()
	if err != nil {
		return nil, s.fail("UpdateEvaluation failed", err, "negotiation_id", negotiationID)
	}

	now := s.clock()
	if err := s.store.UpdateEvaluation(ctx, n.ID, eval, now); err != nil {
		return nil, s.fail("UpdateEvaluation failed", err, "negotiation_id", negotiationID)
	}
	n.Evaluation = eval
	n.UpdatedAt = now

	return connect.NewResponse(&api.NegotiationResponse{Negotiation: api.NewNegotiation(n)}), nil
}

// EvaluateNegotiation values the stored case evaluation.
func (s *NegotiationService) EvaluateNegotiation(ctx context.Context, req *connect.Request[api.EvaluateNegotiationRequest]) (*connect.Response[api.ValuationResponse], error) {
	n, err := s.authorize(ctx, req.Msg.NegotiationID)
	if err != nil {
		return nil, s.fail("EvaluateNegotiation failed", err, "negotiation_id", req.Msg.NegotiationID)
	}

	v := calculator.EvaluateCase(n.Evaluation)
	s.logger.Debug("EvaluateNegotiation successful",
		"negotiation_id", n.ID,
		"adjusted_value", v.AdjustedValue,
		"warnings", len(v.Warnings),
	)
	return connect.NewResponse(&api.ValuationResponse{Valuation: api.NewValuation(v)}), nil
}

// EvaluateCase values an ad-hoc evaluation without touching stored state.
func (s *NegotiationService) EvaluateCase(ctx context.Context, req *connect.Request[api.EvaluateCaseRequest]) (*connect.Response[api.ValuationResponse], error) {
	eval, err := req.Msg.Evaluation.ToModel()
	if err != nil {
		return nil, s.fail("EvaluateCase failed", err)
	}
	v := calculator.EvaluateCase(eval)
	return connect.NewResponse(&api.ValuationResponse{Valuation: api.NewValuation(v)}), nil
}

// CompareScenarios values a current and a hypothetical evaluation side by side.
func (s *NegotiationService) CompareScenarios(ctx context.Context, req *connect.Request[api.CompareScenariosRequest]) (*connect.Response[api.CompareScenariosResponse], error) {
	current, err := req.Msg.Current.ToModel()
	if err != nil {
		return nil, s.fail("CompareScenarios failed", prefixField(err, "current"))
	}
	hypothetical, err := req.Msg.Hypothetical.ToModel()
	if err != nil {
		return nil, s.fail("CompareScenarios failed", prefixField(err, "hypothetical"))
	}

	resp := api.NewComparison(calculator.CompareScenarios(current, hypothetical))
	return connect.NewResponse(&resp), nil
}
