package calculator

import "roomledger/internal/models"

// Relation labels a viewer's relationship to a single expense.
type Relation string

const (
	RelationOwedToYou     Relation = "owed to you"
	RelationYouOwe        Relation = "you owe"
	RelationPaidForOthers Relation = "paid for others"
	RelationPaidForYou    Relation = "paid for you"
	RelationPersonal      Relation = "personal expense"
	RelationNotInvolved   Relation = "not involved"
)

// Share describes one expense from a single viewer's perspective: a signed
// amount and a category label. Presentation only; the balance engine's
// aggregate is the authoritative figure. The per-expense arithmetic here must
// stay in lockstep with PairwiseBalances.
type Share struct {
	Amount   float64  `json:"amount"`
	Relation Relation `json:"relation"`
}

// ViewerShare computes the viewer's share of a single expense.
func ViewerShare(e *models.Expense, viewerID string) Share {
	switch e.Type {
	case models.ExpenseSplit:
		n := len(e.SplitWith)
		if n == 0 {
			return Share{Relation: RelationNotInvolved}
		}
		if e.PaidBy == viewerID {
			// Bill-generated splits may not include the payer in SplitWith;
			// then every member owes a share, not n-1 of them.
			owedBy := n
			if contains(e.SplitWith, viewerID) {
				owedBy = n - 1
			}
			if owedBy == 0 {
				return Share{Relation: RelationPersonal}
			}
			share := e.Amount / float64(n)
			return Share{Amount: share * float64(owedBy), Relation: RelationOwedToYou}
		}
		if contains(e.SplitWith, viewerID) {
			return Share{Amount: e.Amount / float64(n), Relation: RelationYouOwe}
		}
		return Share{Relation: RelationNotInvolved}

	case models.ExpensePaidFor:
		n := len(e.PaidFor)
		if n == 0 {
			return Share{Relation: RelationNotInvolved}
		}
		share := e.Amount / float64(n)
		if e.PaidBy == viewerID {
			owedBy := n
			if contains(e.PaidFor, viewerID) {
				owedBy = n - 1
			}
			return Share{Amount: share * float64(owedBy), Relation: RelationPaidForOthers}
		}
		if contains(e.PaidFor, viewerID) {
			return Share{Amount: share, Relation: RelationPaidForYou}
		}
		return Share{Relation: RelationNotInvolved}

	case models.ExpensePersonal:
		if e.PaidBy == viewerID {
			return Share{Relation: RelationPersonal}
		}
		return Share{Relation: RelationNotInvolved}
	}

	return Share{Relation: RelationNotInvolved}
}
