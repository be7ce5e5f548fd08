package models

// Payment represents a direct settlement payment between two members.
// It reduces (not zeroes) the pairwise balance and is immutable once created.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// PaidBy is the UserID of the member who handed over money.
	PaidBy string `json:"paidBy"`

	// PaidByName is the payer's display name at recording time.
	PaidByName string `json:"paidByName"`

	// PaidTo is the UserID of the member who received the money.
	PaidTo string `json:"paidTo"`

	// PaidToName is the receiver's display name at recording time.
	PaidToName string `json:"paidToName"`

	// Amount is the payment amount. Always positive.
	Amount float64 `json:"amount"`

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64 `json:"createdAt"`
}
