package api

import (
	"time"

	"github.com/ejfii/beginners-luck-sub000/internal/calculator"
	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

// Auth

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// Negotiations

// CaseEvaluationInput is the writable form of a case evaluation. Money
// fields accept numbers or shorthand strings.
type CaseEvaluationInput struct {
	MedicalSpecials       Amount   `json:"medical_specials"`
	EconomicDamages       Amount   `json:"economic_damages"`
	NonEconomicDamages    Amount   `json:"non_economic_damages"`
	PolicyLimit           Amount   `json:"policy_limit"`
	LiabilityPercentage   *float64 `json:"liability_percentage,omitempty"`
	JuryDamagesLikelihood *float64 `json:"jury_damages_likelihood,omitempty"`
}

type CaseEvaluation struct {
	MedicalSpecials       *float64 `json:"medical_specials"`
	EconomicDamages       *float64 `json:"economic_damages"`
	NonEconomicDamages    *float64 `json:"non_economic_damages"`
	PolicyLimit           *float64 `json:"policy_limit"`
	LiabilityPercentage   *float64 `json:"liability_percentage"`
	JuryDamagesLikelihood *float64 `json:"jury_damages_likelihood"`
}

type Negotiation struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Plaintiff  string         `json:"plaintiff"`
	Defendant  string         `json:"defendant"`
	Evaluation CaseEvaluation `json:"evaluation"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type CreateNegotiationRequest struct {
	Title      string              `json:"title"`
	Plaintiff  string              `json:"plaintiff"`
	Defendant  string              `json:"defendant"`
	Evaluation CaseEvaluationInput `json:"evaluation"`
}

type GetNegotiationRequest struct {
	NegotiationID string `json:"negotiation_id"`
}

type ListNegotiationsRequest struct{}

type ListNegotiationsResponse struct {
	Negotiations []Negotiation `json:"negotiations"`
}

type UpdateEvaluationRequest struct {
	NegotiationID string              `json:"negotiation_id"`
	Evaluation    CaseEvaluationInput `json:"evaluation"`
}

type NegotiationResponse struct {
	Negotiation Negotiation `json:"negotiation"`
}

// Valuation

type Range struct {
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
	Display string  `json:"display"`
}

type Warning struct {
	Code    calculator.WarningCode `json:"code"`
	Message string                 `json:"message"`
}

type Valuation struct {
	TotalDamages                 float64   `json:"total_damages"`
	AdjustedValue                float64   `json:"adjusted_value"`
	SettlementRange              Range     `json:"settlement_range"`
	JuryAdjustedRange            *Range    `json:"jury_adjusted_range,omitempty"`
	RecommendedSettlement        *float64  `json:"recommended_settlement,omitempty"`
	RecommendedSettlementDisplay string    `json:"recommended_settlement_display,omitempty"`
	Warnings                     []Warning `json:"warnings"`
}

type EvaluateNegotiationRequest struct {
	NegotiationID string `json:"negotiation_id"`
}

type EvaluateCaseRequest struct {
	Evaluation CaseEvaluationInput `json:"evaluation"`
}

type ValuationResponse struct {
	Valuation Valuation `json:"valuation"`
}

type CompareScenariosRequest struct {
	Current      CaseEvaluationInput `json:"current"`
	Hypothetical CaseEvaluationInput `json:"hypothetical"`
}

type Delta struct {
	Absolute float64 `json:"absolute"`
	// Percentage is omitted when the current high end is zero.
	Percentage *float64 `json:"percentage,omitempty"`
	Display    string   `json:"display"`
}

type CompareScenariosResponse struct {
	Current      Valuation `json:"current"`
	Hypothetical Valuation `json:"hypothetical"`
	Delta        Delta     `json:"delta"`
}

// Moves

type Move struct {
	ID            string          `json:"id"`
	Party         models.Party    `json:"party"`
	Type          models.MoveType `json:"type"`
	Amount        float64         `json:"amount"`
	AmountDisplay string          `json:"amount_display"`
	Timestamp     time.Time       `json:"timestamp"`
	Notes         string          `json:"notes,omitempty"`
}

type AddMoveRequest struct {
	NegotiationID string       `json:"negotiation_id"`
	Party         models.Party `json:"party"`
	// Type is optional; when set it must match the party.
	Type   models.MoveType `json:"type,omitempty"`
	Amount Amount          `json:"amount"`
	Notes  string          `json:"notes,omitempty"`
}

type MoveResponse struct {
	Move Move `json:"move"`
}

type ListMovesRequest struct {
	NegotiationID string `json:"negotiation_id"`
}

type ListMovesResponse struct {
	Moves []Move `json:"moves"`
}

type DeleteMoveRequest struct {
	NegotiationID string `json:"negotiation_id"`
	MoveID        string `json:"move_id"`
}

type DeleteMoveResponse struct{}

type GetAnalyticsRequest struct {
	NegotiationID string `json:"negotiation_id"`
}

type Analytics struct {
	Midpoint                   float64 `json:"midpoint"`
	MidpointDisplay            string  `json:"midpoint_display"`
	MidpointOfMidpoints        float64 `json:"midpoint_of_midpoints"`
	Momentum                   float64 `json:"momentum"`
	ConvergenceRate            float64 `json:"convergence_rate"`
	PredictedSettlement        float64 `json:"predicted_settlement"`
	PredictedSettlementDisplay string  `json:"predicted_settlement_display"`
	Confidence                 int     `json:"confidence"`
	LatestDemand               float64 `json:"latest_demand"`
	LatestOffer                float64 `json:"latest_offer"`
	Gap                        float64 `json:"gap"`
	MoveCount                  int     `json:"move_count"`
}

// AnalyticsResponse carries a nil Analytics until the history holds both a
// demand and an offer.
type AnalyticsResponse struct {
	Analytics *Analytics `json:"analytics"`
}

// Proposals

type Bracket struct {
	ID                     string               `json:"id"`
	NegotiationID          string               `json:"negotiation_id"`
	PlaintiffAmount        float64              `json:"plaintiff_amount"`
	PlaintiffAmountDisplay string               `json:"plaintiff_amount_display"`
	DefendantAmount        float64              `json:"defendant_amount"`
	DefendantAmountDisplay string               `json:"defendant_amount_display"`
	ProposedBy             models.Party         `json:"proposed_by"`
	Status                 models.BracketStatus `json:"status"`
	Notes                  string               `json:"notes,omitempty"`
	CreatedAt              time.Time            `json:"created_at"`
}

type CreateBracketRequest struct {
	NegotiationID   string       `json:"negotiation_id"`
	PlaintiffAmount Amount       `json:"plaintiff_amount"`
	DefendantAmount Amount       `json:"defendant_amount"`
	ProposedBy      models.Party `json:"proposed_by"`
	Notes           string       `json:"notes,omitempty"`
}

type RespondBracketRequest struct {
	BracketID string          `json:"bracket_id"`
	Decision  models.Response `json:"decision"`
}

type BracketResponse struct {
	Bracket Bracket `json:"bracket"`
}

type ListBracketsRequest struct {
	NegotiationID string `json:"negotiation_id"`
}

type ListBracketsResponse struct {
	Brackets          []Bracket    `json:"brackets"`
	SuggestedProposer models.Party `json:"suggested_proposer"`
}

type SuggestNextProposerRequest struct {
	NegotiationID string `json:"negotiation_id"`
}

type SuggestNextProposerResponse struct {
	Party models.Party `json:"party"`
}

type MediatorProposal struct {
	ID                string                `json:"id"`
	NegotiationID     string                `json:"negotiation_id"`
	Amount            float64               `json:"amount"`
	AmountDisplay     string                `json:"amount_display"`
	Deadline          time.Time             `json:"deadline"`
	PlaintiffResponse *models.Response      `json:"plaintiff_response"`
	DefendantResponse *models.Response      `json:"defendant_response"`
	Status            models.MediatorStatus `json:"status"`
	Notes             string                `json:"notes,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

type CreateMediatorProposalRequest struct {
	NegotiationID string    `json:"negotiation_id"`
	Amount        Amount    `json:"amount"`
	Deadline      time.Time `json:"deadline"`
	Notes         string    `json:"notes,omitempty"`
}

type RespondMediatorProposalRequest struct {
	NegotiationID string          `json:"negotiation_id"`
	Party         models.Party    `json:"party"`
	Decision      models.Response `json:"decision"`
}

type GetMediatorProposalRequest struct {
	NegotiationID string `json:"negotiation_id"`
}

// MediatorProposalResponse carries a nil Proposal when the negotiation has
// none.
type MediatorProposalResponse struct {
	Proposal *MediatorProposal `json:"proposal"`
}
