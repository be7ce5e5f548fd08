// Package calculator holds the settlement math: expense classification,
// pairwise balance aggregation, per-expense viewer shares, and electricity
// bill amounts. Everything here is pure; storage and transport live elsewhere.
package calculator

import (
	"errors"

	"roomledger/internal/models"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrEmptyDescription  = errors.New("description is required")
	ErrMissingPayer      = errors.New("paidBy is required")
	ErrNoParticipants    = errors.New("at least one participant must be selected")
)

// DeclaredType is the intent a user declares when adding an expense.
// The classifier decides the final models.ExpenseType from it.
type DeclaredType string

const (
	DeclaredSplit    DeclaredType = "split"
	DeclaredPersonal DeclaredType = "personal"
)

// Classification is the classifier's output: the final expense variant with
// SplitWith/PaidFor populated consistently.
type Classification struct {
	Type      models.ExpenseType
	SplitWith []string
	PaidFor   []string
}

// Classify decides the final expense variant from the payer, the selected
// participant set, and the declared intent.
//
// Rules:
//   - declared personal: PaidFor = [payer], type personal
//   - declared split, payer in selection: type split, unless the selection is
//     exactly {payer}, which degrades to personal (a self-only split is not a
//     self-loan of the full amount)
//   - declared split, payer not in selection: type paidFor (payer fronted the
//     cost purely for others)
func Classify(amount float64, description, payer string, declared DeclaredType, selected []string) (Classification, error) {
	if amount <= 0 {
		return Classification{}, ErrNonPositiveAmount
	}
	if description == "" {
		return Classification{}, ErrEmptyDescription
	}
	if payer == "" {
		return Classification{}, ErrMissingPayer
	}

	if declared == DeclaredPersonal {
		return Classification{Type: models.ExpensePersonal, PaidFor: []string{payer}}, nil
	}

	if len(selected) == 0 {
		return Classification{}, ErrNoParticipants
	}

	payerSelected := false
	for _, id := range selected {
		if id == payer {
			payerSelected = true
			break
		}
	}

	if !payerSelected {
		return Classification{Type: models.ExpensePaidFor, PaidFor: selected}, nil
	}
	if len(selected) == 1 {
		// Only the payer selected.
		return Classification{Type: models.ExpensePersonal, PaidFor: []string{payer}}, nil
	}
	return Classification{Type: models.ExpenseSplit, SplitWith: selected}, nil
}
