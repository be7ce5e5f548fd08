package models

// ExpenseType discriminates the three mutually exclusive expense variants.
type ExpenseType string

const (
	// ExpenseSplit is a shared cost divided equally across SplitWith,
	// a participant set that includes the payer.
	ExpenseSplit ExpenseType = "split"

	// ExpensePaidFor is a cost the payer fronted purely for others;
	// the payer is never a member of PaidFor.
	ExpensePaidFor ExpenseType = "paidFor"

	// ExpensePersonal is a cost recorded for the payer's own tracking.
	// It never affects another user's balance.
	ExpensePersonal ExpenseType = "personal"
)

// Expense represents a single recorded expense. Exactly one of SplitWith and
// PaidFor is populated, governed by Type. Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Amount is the full expense amount. Always positive.
	Amount float64 `json:"amount"`

	// Description is the human-readable purpose of the expense.
	Description string `json:"description"`

	// PaidBy is the UserID of the member who paid.
	PaidBy string `json:"paidBy"`

	// SplitWith lists the UserIDs sharing a split expense, payer included.
	SplitWith []string `json:"splitWith"`

	// PaidFor lists the UserIDs a paidFor expense was fronted for. For a
	// personal expense it holds only the payer.
	PaidFor []string `json:"paidFor"`

	// Type is the expense variant.
	Type ExpenseType `json:"expenseType"`

	// UserNames maps every involved UserID to the display name it had when
	// the expense was created.
	UserNames map[string]string `json:"userNames"`

	// ReceiptURL is the serving path of an uploaded receipt image, if any.
	ReceiptURL string `json:"receiptUrl,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// Involves reports whether userID paid for, shared, or benefited from e.
func (e *Expense) Involves(userID string) bool {
	if e.PaidBy == userID {
		return true
	}
	for _, id := range e.SplitWith {
		if id == userID {
			return true
		}
	}
	for _, id := range e.PaidFor {
		if id == userID {
			return true
		}
	}
	return false
}
