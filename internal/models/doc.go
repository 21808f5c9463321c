// Package models defines the core domain models for settlement negotiations.
//
// # Aggregate
//
// A Negotiation is the aggregate root. Every other record (moves, bracket
// proposals, the mediator proposal) belongs to exactly one negotiation and
// references it by ID. Ownership of a negotiation is the only access rule;
// it is enforced by the service layer, not here.
//
// # Money
//
// Monetary values are plain float64 dollars. A nil *float64 means "not
// entered" and is distinct from zero. Parsing and display live in the
// money package.
//
// # Time
//
// All timestamps are time.Time in UTC. Storage backends keep nanosecond
// precision so creation order is stable for "most recent first" listings.
package models
