package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client is a typed caller for every settlement procedure. It is used by
// tests and by Go consumers of the API.
type Client struct {
	Register       *connect.Client[RegisterRequest, AuthResponse]
	Login          *connect.Client[LoginRequest, AuthResponse]
	GetCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]

	CreateNegotiation   *connect.Client[CreateNegotiationRequest, NegotiationResponse]
	GetNegotiation      *connect.Client[GetNegotiationRequest, NegotiationResponse]
	ListNegotiations    *connect.Client[ListNegotiationsRequest, ListNegotiationsResponse]
	UpdateEvaluation    *connect.Client[UpdateEvaluationRequest, NegotiationResponse]
	EvaluateNegotiation *connect.Client[EvaluateNegotiationRequest, ValuationResponse]
	EvaluateCase        *connect.Client[EvaluateCaseRequest, ValuationResponse]
	CompareScenarios    *connect.Client[CompareScenariosRequest, CompareScenariosResponse]

	AddMove      *connect.Client[AddMoveRequest, MoveResponse]
	ListMoves    *connect.Client[ListMovesRequest, ListMovesResponse]
	DeleteMove   *connect.Client[DeleteMoveRequest, DeleteMoveResponse]
	GetAnalytics *connect.Client[GetAnalyticsRequest, AnalyticsResponse]

	CreateBracket           *connect.Client[CreateBracketRequest, BracketResponse]
	RespondBracket          *connect.Client[RespondBracketRequest, BracketResponse]
	ListBrackets            *connect.Client[ListBracketsRequest, ListBracketsResponse]
	SuggestNextProposer     *connect.Client[SuggestNextProposerRequest, SuggestNextProposerResponse]
	CreateMediatorProposal  *connect.Client[CreateMediatorProposalRequest, MediatorProposalResponse]
	RespondMediatorProposal *connect.Client[RespondMediatorProposalRequest, MediatorProposalResponse]
	GetMediatorProposal     *connect.Client[GetMediatorProposalRequest, MediatorProposalResponse]
}

// NewClient builds a Client against baseURL. The JSON codec is always
// applied; opts are appended after it.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)

	return &Client{
		Register:       connect.NewClient[RegisterRequest, AuthResponse](httpClient, baseURL+RegisterProcedure, opts...),
		Login:          connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+LoginProcedure, opts...),
		GetCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+GetCurrentUserProcedure, opts...),

		CreateNegotiation:   connect.NewClient[CreateNegotiationRequest, NegotiationResponse](httpClient, baseURL+CreateNegotiationProcedure, opts...),
		GetNegotiation:      connect.NewClient[GetNegotiationRequest, NegotiationResponse](httpClient, baseURL+GetNegotiationProcedure, opts...),
		ListNegotiations:    connect.NewClient[ListNegotiationsRequest, ListNegotiationsResponse](httpClient, baseURL+ListNegotiationsProcedure, opts...),
		UpdateEvaluation:    connect.NewClient[UpdateEvaluationRequest, NegotiationResponse](httpClient, baseURL+UpdateEvaluationProcedure, opts...),
		EvaluateNegotiation: connect.NewClient[EvaluateNegotiationRequest, ValuationResponse](httpClient, baseURL+EvaluateNegotiationProcedure, opts...),
		EvaluateCase:        connect.NewClient[EvaluateCaseRequest, ValuationResponse](httpClient, baseURL+EvaluateCaseProcedure, opts...),
		CompareScenarios:    connect.NewClient[CompareScenariosRequest, CompareScenariosResponse](httpClient, baseURL+CompareScenariosProcedure, opts...),

		AddMove:      connect.NewClient[AddMoveRequest, MoveResponse](httpClient, baseURL+AddMoveProcedure, opts...),
		ListMoves:    connect.NewClient[ListMovesRequest, ListMovesResponse](httpClient, baseURL+ListMovesProcedure, opts...),
		DeleteMove:   connect.NewClient[DeleteMoveRequest, DeleteMoveResponse](httpClient, baseURL+DeleteMoveProcedure, opts...),
		GetAnalytics: connect.NewClient[GetAnalyticsRequest, AnalyticsResponse](httpClient, baseURL+GetAnalyticsProcedure, opts...),

		CreateBracket:           connect.NewClient[CreateBracketRequest, BracketResponse](httpClient, baseURL+CreateBracketProcedure, opts...),
		RespondBracket:          connect.NewClient[RespondBracketRequest, BracketResponse](httpClient, baseURL+RespondBracketProcedure, opts...),
		ListBrackets:            connect.NewClient[ListBracketsRequest, ListBracketsResponse](httpClient, baseURL+ListBracketsProcedure, opts...),
		SuggestNextProposer:     connect.NewClient[SuggestNextProposerRequest, SuggestNextProposerResponse](httpClient, baseURL+SuggestNextProposerProcedure, opts...),
		CreateMediatorProposal:  connect.NewClient[CreateMediatorProposalRequest, MediatorProposalResponse](httpClient, baseURL+CreateMediatorProposalProcedure, opts...),
		RespondMediatorProposal: connect.NewClient[RespondMediatorProposalRequest, MediatorProposalResponse](httpClient, baseURL+RespondMediatorProposalProcedure, opts...),
		GetMediatorProposal:     connect.NewClient[GetMediatorProposalRequest, MediatorProposalResponse](httpClient, baseURL+GetMediatorProposalProcedure, opts...),
	}
}

// BearerToken returns a client interceptor that attaches token to every call.
func BearerToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}
