package models

import "time"

// BracketStatus is the lifecycle state of a bracket proposal.
type BracketStatus string

const (
	BracketActive   BracketStatus = "active"
	BracketAccepted BracketStatus = "accepted"
	BracketRejected BracketStatus = "rejected"
)

// Terminal reports whether no further transitions are possible.
func (s BracketStatus) Terminal() bool {
	return s == BracketAccepted || s == BracketRejected
}

// BracketProposal is a paired conditional proposal: the plaintiff would
// come down to PlaintiffAmount if the defendant comes up to DefendantAmount.
type BracketProposal struct {
	ID              string
	NegotiationID   string
	PlaintiffAmount float64
	DefendantAmount float64
	ProposedBy      Party
	Status          BracketStatus
	Notes           string
	CreatedAt       time.Time

	// Version increments on every write. Used for optimistic checks.
	Version int64
}

// Response is a party's answer to a proposal.
type Response string

const (
	ResponseAccepted Response = "accepted"
	ResponseRejected Response = "rejected"
)

// Valid reports whether r is accepted or rejected.
func (r Response) Valid() bool {
	return r == ResponseAccepted || r == ResponseRejected
}

// MediatorStatus is derived from the pair of party responses and the deadline.
type MediatorStatus string

const (
	MediatorPending           MediatorStatus = "pending"
	MediatorAcceptedPlaintiff MediatorStatus = "accepted_plaintiff"
	MediatorAcceptedDefendant MediatorStatus = "accepted_defendant"
	MediatorAcceptedBoth      MediatorStatus = "accepted_both"
	MediatorRejected          MediatorStatus = "rejected"
	MediatorExpired           MediatorStatus = "expired"
)

// Terminal reports whether the proposal can no longer take responses.
func (s MediatorStatus) Terminal() bool {
	return s == MediatorAcceptedBoth || s == MediatorRejected || s == MediatorExpired
}

// MediatorProposal is a single settlement figure put forward by a neutral.
// There is at most one per negotiation; a new one replaces the old.
type MediatorProposal struct {
	ID            string
	NegotiationID string
	Amount        float64
	Deadline      time.Time

	// PlaintiffResponse and DefendantResponse are nil until the party answers.
	PlaintiffResponse *Response
	DefendantResponse *Response

	Status    MediatorStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Version int64
}

// ResponseOf returns the recorded response for party, or nil.
func (p *MediatorProposal) ResponseOf(party Party) *Response {
	if party == PartyDefendant {
		return p.DefendantResponse
	}
	return p.PlaintiffResponse
}
