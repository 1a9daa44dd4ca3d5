// Package models defines the core domain models for Settlr.
//
// # Models
//
//   - Event: a bounded shared-expense context (trip, dinner, household period)
//   - Participant: a person taking part in an event
//   - Expense: something one participant paid for
//   - Split: the portion of one expense attributed to one participant
//   - Settlement: a proposed-or-completed transfer between two participants
//   - ConsolidatedSettlement: a merged settlement view after payer reassignment
//
// Balances are always derived from expenses and splits; they are never stored.
//
// # Money
//
// All amounts are int64 minor units (cents). Decimal values exist only at the
// JSON boundary; Cents and Amount convert between the two. Keeping the ledger
// in integer cents makes conservation checks exact instead of
// epsilon-tolerant.
//
// # Design Principles
//
//  1. Use ID strings instead of pointers for relationships (no circular refs)
//  2. Derived data (balances, consolidated views) never round-trips to storage
//  3. A paid settlement is the payment record itself and is immutable to
//     recalculation
package models
