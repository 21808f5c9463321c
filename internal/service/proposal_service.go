package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/ejfii/beginners-luck-sub000/internal/api"
	"github.com/ejfii/beginners-luck-sub000/internal/models"
	"github.com/ejfii/beginners-luck-sub000/internal/proposal"
	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

// ProposalService runs the bracket and mediator proposal workflows.
type ProposalService struct {
	base
}

// NewProposalService creates a ProposalService with the given storage backend.
func NewProposalService(store storage.Store, logger *slog.Logger) *ProposalService {
	return &ProposalService{base: newBase(store, logger)}
}

// WithClock replaces the time source. Used by tests.
func (s *ProposalService) WithClock(now func() time.Time) *ProposalService {
	s.now = now
	return s
}

// Mount registers the service's procedures on mux.
func (s *ProposalService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	opts = handlerOptions(opts)
	handle(mux, api.CreateBracketProcedure, s.CreateBracket, opts)
	handle(mux, api.RespondBracketProcedure, s.RespondBracket, opts)
	handle(mux, api.ListBracketsProcedure, s.ListBrackets, opts)
	handle(mux, api.SuggestNextProposerProcedure, s.SuggestNextProposer, opts)
	handle(mux, api.CreateMediatorProposalProcedure, s.CreateMediatorProposal, opts)
	handle(mux, api.RespondMediatorProposalProcedure, s.RespondMediatorProposal, opts)
	handle(mux, api.GetMediatorProposalProcedure, s.GetMediatorProposal, opts)
}

// CreateBracket records a new active bracket on the negotiation.
func (s *ProposalService) CreateBracket(ctx context.Context, req *connect.Request[api.CreateBracketRequest]) (*connect.Response[api.BracketResponse], error) {
	negotiationID := req.Msg.NegotiationID
	s.logger.Info("CreateBracket request received",
		"negotiation_id", negotiationID,
		"proposed_by", req.Msg.ProposedBy,
		"plaintiff_amount", req.Msg.PlaintiffAmount.String(),
		"defendant_amount", req.Msg.DefendantAmount.String(),
	)

	n, err := s.authorize(ctx, negotiationID)
	if err != nil {
		return nil, s.fail("CreateBracket failed", err, "negotiation_id", negotiationID)
	}
	plaintiffAmount, err := req.Msg.PlaintiffAmount.Resolve("plaintiff_amount")
	if err != nil {
		return nil, s.fail("CreateBracket failed", err, "negotiation_id", negotiationID)
	}
	defendantAmount, err := req.Msg.DefendantAmount.Resolve("defendant_amount")
	if err != nil {
		return nil, s.fail("CreateBracket failed", err, "negotiation_id", negotiationID)
	}

	b, err := proposal.NewBracket(proposal.BracketParams{
		NegotiationID:   n.ID,
		PlaintiffAmount: plaintiffAmount,
		DefendantAmount: defendantAmount,
		ProposedBy:      req.Msg.ProposedBy,
		Notes:           strings.TrimSpace(req.Msg.Notes),
	}, s.clock())
	if err != nil {
		return nil, s.fail("CreateBracket failed", err, "negotiation_id", negotiationID)
	}
	if err := s.store.CreateBracket(ctx, b); err != nil {
		return nil, s.fail("CreateBracket failed", err, "negotiation_id", negotiationID)
	}

	s.logger.Info("Bracket created", "negotiation_id", n.ID, "bracket_id", b.ID)
	return connect.NewResponse(&api.BracketResponse{Bracket: api.NewBracket(b)}), nil
}

// RespondBracket accepts or rejects an active bracket.
func (s *ProposalService) RespondBracket(ctx context.Context, req *connect.Request[api.RespondBracketRequest]) (*connect.Response[api.BracketResponse], error) {
	bracketID := req.Msg.BracketID
	s.logger.Info("RespondBracket request received", "bracket_id", bracketID, "decision", req.Msg.Decision)

	if bracketID == "" {
		return nil, s.fail("RespondBracket failed", &models.ValidationError{Field: "bracket_id", Reason: "required"})
	}
	existing, err := s.store.GetBracket(ctx, bracketID)
	if err != nil {
		return nil, s.fail("RespondBracket failed", err, "bracket_id", bracketID)
	}
	if _, err := s.authorize(ctx, existing.NegotiationID); err != nil {
		return nil, s.fail("RespondBracket failed", err, "bracket_id", bracketID)
	}

	b, err := s.store.UpdateBracket(ctx, bracketID, func(b *models.BracketProposal) error {
		return proposal.RespondBracket(b, req.Msg.Decision)
	})
	if err != nil {
		return nil, s.fail("RespondBracket failed", err, "bracket_id", bracketID)
	}

	s.logger.Info("Bracket answered", "bracket_id", b.ID, "status", b.Status)
	return connect.NewResponse(&api.BracketResponse{Bracket: api.NewBracket(b)}), nil
}

// ListBrackets returns every bracket on the negotiation, newest first, with
// the party expected to propose next.
func (s *ProposalService) ListBrackets(ctx context.Context, req *connect.Request[api.ListBracketsRequest]) (*connect.Response[api.ListBracketsResponse], error) {
	brackets, err := s.brackets(ctx, req.Msg.NegotiationID)
	if err != nil {
		return nil, s.fail("ListBrackets failed", err, "negotiation_id", req.Msg.NegotiationID)
	}

	out := make([]api.Bracket, len(brackets))
	for i, b := range brackets {
		out[i] = api.NewBracket(b)
	}
	return connect.NewResponse(&api.ListBracketsResponse{
		Brackets:          out,
		SuggestedProposer: proposal.SuggestNextProposer(brackets),
	}), nil
}

// SuggestNextProposer returns the party whose turn it is to propose a bracket.
func (s *ProposalService) SuggestNextProposer(ctx context.Context, req *connect.Request[api.SuggestNextProposerRequest]) (*connect.Response[api.SuggestNextProposerResponse], error) {
	brackets, err := s.brackets(ctx, req.Msg.NegotiationID)
	if err != nil {
		return nil, s.fail("SuggestNextProposer failed", err, "negotiation_id", req.Msg.NegotiationID)
	}
	return connect.NewResponse(&api.SuggestNextProposerResponse{Party: proposal.SuggestNextProposer(brackets)}), nil
}

func (s *ProposalService) brackets(ctx context.Context, negotiationID string) ([]*models.BracketProposal, error) {
	n, err := s.authorize(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	brackets, err := s.store.ListBrackets(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	proposal.SortBrackets(brackets)
	return brackets, nil
}

// CreateMediatorProposal puts a mediator's number on the table, replacing
// any earlier proposal together with its responses.
func (s *ProposalService) CreateMediatorProposal(ctx context.Context, req *connect.Request[api.CreateMediatorProposalRequest]) (*connect.Response[api.MediatorProposalResponse], error) {
	negotiationID := req.Msg.NegotiationID
	s.logger.Info("CreateMediatorProposal request received",
		"negotiation_id", negotiationID,
		"amount", req.Msg.Amount.String(),
		"deadline", req.Msg.Deadline,
	)

	n, err := s.authorize(ctx, negotiationID)
	if err != nil {
		return nil, s.fail("CreateMediatorProposal failed", err, "negotiation_id", negotiationID)
	}
	amount, err := req.Msg.Amount.Resolve("amount")
	if err != nil {
		return nil, s.fail("CreateMediatorProposal failed", err, "negotiation_id", negotiationID)
	}

	p, err := proposal.NewMediatorProposal(proposal.MediatorParams{
		NegotiationID: n.ID,
		Amount:        amount,
		Deadline:      req.Msg.Deadline.UTC().Truncate(time.Microsecond),
		Notes:         strings.TrimSpace(req.Msg.Notes),
	}, s.clock())
	if err != nil {
		return nil, s.fail("CreateMediatorProposal failed", err, "negotiation_id", negotiationID)
	}
	if err := s.store.ReplaceMediatorProposal(ctx, p); err != nil {
		return nil, s.fail("CreateMediatorProposal failed", err, "negotiation_id", negotiationID)
	}

	s.logger.Info("Mediator proposal created", "negotiation_id", n.ID, "proposal_id", p.ID)
	return connect.NewResponse(&api.MediatorProposalResponse{Proposal: api.NewMediatorProposal(p)}), nil
}

// RespondMediatorProposal records one party's answer to the mediator's number.
func (s *ProposalService) RespondMediatorProposal(ctx context.Context, req *connect.Request[api.RespondMediatorProposalRequest]) (*connect.Response[api.MediatorProposalResponse], error) {
	negotiationID := req.Msg.NegotiationID
	s.logger.Info("RespondMediatorProposal request received",
		"negotiation_id", negotiationID,
		"party", req.Msg.Party,
		"decision", req.Msg.Decision,
	)

	n, err := s.authorize(ctx, negotiationID)
	if err != nil {
		return nil, s.fail("RespondMediatorProposal failed", err, "negotiation_id", negotiationID)
	}

	now := s.clock()
	p, err := s.store.UpdateMediatorProposal(ctx, n.ID, func(p *models.MediatorProposal) error {
		return proposal.RespondMediator(p, req.Msg.Party, req.Msg.Decision, now)
	})
	if err != nil {
		return nil, s.fail("RespondMediatorProposal failed", err, "negotiation_id", negotiationID)
	}

	s.logger.Info("Mediator proposal answered", "negotiation_id", n.ID, "status", p.Status)
	return connect.NewResponse(&api.MediatorProposalResponse{Proposal: api.NewMediatorProposal(p)}), nil
}

// GetMediatorProposal returns the current proposal with its status derived
// as of now, or a nil proposal when there is none.
func (s *ProposalService) GetMediatorProposal(ctx context.Context, req *connect.Request[api.GetMediatorProposalRequest]) (*connect.Response[api.MediatorProposalResponse], error) {
	n, err := s.authorize(ctx, req.Msg.NegotiationID)
	if err != nil {
		return nil, s.fail("GetMediatorProposal failed", err, "negotiation_id", req.Msg.NegotiationID)
	}

	p, err := s.store.GetMediatorProposal(ctx, n.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewResponse(&api.MediatorProposalResponse{}), nil
	}
	if err != nil {
		return nil, s.fail("GetMediatorProposal failed", err, "negotiation_id", n.ID)
	}

	proposal.Refresh(p, s.clock())
	return connect.NewResponse(&api.MediatorProposalResponse{Proposal: api.NewMediatorProposal(p)}), nil
}
