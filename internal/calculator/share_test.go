package calculator

import (
	"math"
	"testing"

	"roomledger/internal/models"
)

func TestViewerShare(t *testing.T) {
	split := &models.Expense{
		ID: "e1", Amount: 300, PaidBy: "x",
		SplitWith: []string{"x", "y", "z"}, Type: models.ExpenseSplit,
	}
	selfOnly := &models.Expense{
		ID: "e2", Amount: 40, PaidBy: "x",
		SplitWith: []string{"x"}, Type: models.ExpenseSplit,
	}
	paidFor := &models.Expense{
		ID: "e3", Amount: 90, PaidBy: "a",
		PaidFor: []string{"b", "c"}, Type: models.ExpensePaidFor,
	}
	personal := &models.Expense{
		ID: "e4", Amount: 1000, PaidBy: "x",
		PaidFor: []string{"x"}, Type: models.ExpensePersonal,
	}

	tests := []struct {
		name       string
		expense    *models.Expense
		viewer     string
		wantAmount float64
		wantRel    Relation
	}{
		{"split payer is owed total minus own share", split, "x", 200, RelationOwedToYou},
		{"split member owes one share", split, "y", 100, RelationYouOwe},
		{"split outsider not involved", split, "w", 0, RelationNotInvolved},
		{"self-only split is personal", selfOnly, "x", 0, RelationPersonal},
		{"paidFor payer fronted all shares", paidFor, "a", 90, RelationPaidForOthers},
		{"paidFor member was paid for", paidFor, "b", 45, RelationPaidForYou},
		{"paidFor outsider not involved", paidFor, "d", 0, RelationNotInvolved},
		{"personal for payer", personal, "x", 0, RelationPersonal},
		{"personal for anyone else", personal, "y", 0, RelationNotInvolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ViewerShare(tt.expense, tt.viewer)
			if math.Abs(got.Amount-tt.wantAmount) > 0.01 {
				t.Errorf("amount = %v, want %v", got.Amount, tt.wantAmount)
			}
			if got.Relation != tt.wantRel {
				t.Errorf("relation = %q, want %q", got.Relation, tt.wantRel)
			}
		})
	}
}

// The share calculator mirrors the balance engine per expense; a payer's
// "owed to you" amount must equal the sum of the engine's credits, and a
// member's "you owe" must equal the engine's single debit.
func TestViewerShareReconcilesWithBalances(t *testing.T) {
	users := testUsers()
	expenses := []*models.Expense{
		{
			ID: "e1", Amount: 250, Description: "Internet", PaidBy: "x",
			SplitWith: []string{"x", "y", "z"}, Type: models.ExpenseSplit,
		},
	}

	payerShare := ViewerShare(expenses[0], "x")
	credited := 0.0
	for _, b := range PairwiseBalances("x", users, expenses, nil) {
		credited += b.Amount
	}
	if math.Abs(payerShare.Amount-credited) > 0.01 {
		t.Errorf("payer share %v does not reconcile with engine credit %v", payerShare.Amount, credited)
	}

	memberShare := ViewerShare(expenses[0], "y")
	debit := balanceFor(t, PairwiseBalances("y", users, expenses, nil), "x").Amount
	if math.Abs(memberShare.Amount+debit) > 0.01 {
		t.Errorf("member share %v does not reconcile with engine debit %v", memberShare.Amount, debit)
	}
}
