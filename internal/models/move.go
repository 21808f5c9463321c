package models

import "time"

// Party identifies a side of the dispute.
type Party string

const (
	PartyPlaintiff Party = "plaintiff"
	PartyDefendant Party = "defendant"
)

// Valid reports whether p is one of the two known parties.
func (p Party) Valid() bool {
	return p == PartyPlaintiff || p == PartyDefendant
}

// Opposite returns the other party.
func (p Party) Opposite() Party {
	if p == PartyPlaintiff {
		return PartyDefendant
	}
	return PartyPlaintiff
}

// MoveType is the kind of monetary position a party put forward.
type MoveType string

const (
	// MoveDemand is an ask made by the plaintiff.
	MoveDemand MoveType = "demand"
	// MoveOffer is a counter made by the defendant.
	MoveOffer MoveType = "offer"
)

// MoveTypeFor returns the only move type the given party can make.
func MoveTypeFor(p Party) MoveType {
	if p == PartyDefendant {
		return MoveOffer
	}
	return MoveDemand
}

// Move is one demand or offer in a negotiation's history.
// Moves are immutable once created; deleting one does not renumber others.
type Move struct {
	ID            string
	NegotiationID string
	Party         Party
	Type          MoveType
	// Amount is always > 0.
	Amount float64
	// Timestamp increases strictly within a negotiation.
	Timestamp time.Time
	Notes     string
}
