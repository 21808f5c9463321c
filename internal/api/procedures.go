package api

const (
	AuthServiceName        = "settlement.v1.AuthService"
	NegotiationServiceName = "settlement.v1.NegotiationService"
	MoveServiceName        = "settlement.v1.MoveService"
	ProposalServiceName    = "settlement.v1.ProposalService"
)

// Procedure paths, one per RPC.
const (
	RegisterProcedure       = "/" + AuthServiceName + "/Register"
	LoginProcedure          = "/" + AuthServiceName + "/Login"
	GetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	CreateNegotiationProcedure   = "/" + NegotiationServiceName + "/CreateNegotiation"
	GetNegotiationProcedure      = "/" + NegotiationServiceName + "/GetNegotiation"
	ListNegotiationsProcedure    = "/" + NegotiationServiceName + "/ListNegotiations"
	UpdateEvaluationProcedure    = "/" + NegotiationServiceName + "/UpdateEvaluation"
	EvaluateNegotiationProcedure = "/" + NegotiationServiceName + "/EvaluateNegotiation"
	EvaluateCaseProcedure        = "/" + NegotiationServiceName + "/EvaluateCase"
	CompareScenariosProcedure    = "/" + NegotiationServiceName + "/CompareScenarios"

	AddMoveProcedure      = "/" + MoveServiceName + "/AddMove"
	ListMovesProcedure    = "/" + MoveServiceName + "/ListMoves"
	DeleteMoveProcedure   = "/" + MoveServiceName + "/DeleteMove"
	GetAnalyticsProcedure = "/" + MoveServiceName + "/GetAnalytics"

	CreateBracketProcedure           = "/" + ProposalServiceName + "/CreateBracket"
	RespondBracketProcedure          = "/" + ProposalServiceName + "/RespondBracket"
	ListBracketsProcedure            = "/" + ProposalServiceName + "/ListBrackets"
	SuggestNextProposerProcedure     = "/" + ProposalServiceName + "/SuggestNextProposer"
	CreateMediatorProposalProcedure  = "/" + ProposalServiceName + "/CreateMediatorProposal"
	RespondMediatorProposalProcedure = "/" + ProposalServiceName + "/RespondMediatorProposal"
	GetMediatorProposalProcedure     = "/" + ProposalServiceName + "/GetMediatorProposal"
)

// PublicProcedures can be called without a bearer token.
var PublicProcedures = []string{
	RegisterProcedure,
	LoginProcedure,
}
