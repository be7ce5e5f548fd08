package models

// MeterReading is a point-in-time electricity meter reading recorded by an
// admin. Readings are monotonic: a new reading may not carry an earlier date
// or a lower value than the latest recorded one.
type MeterReading struct {
	// ID is the unique identifier for the reading (UUID format).
	ID string `json:"id"`

	// Reading is the meter value in units (kWh).
	Reading float64 `json:"reading"`

	// ReadingDate is the Unix timestamp of the day the meter was read.
	ReadingDate int64 `json:"readingDate"`

	// RecordedBy is the UserID of the admin who recorded the reading.
	RecordedBy string `json:"recordedBy"`

	// RecordedAt is the Unix timestamp when the record was created.
	RecordedAt int64 `json:"recordedAt"`
}

// ElectricityBill is derived from two meter readings and split across a
// selected set of members. Creating a bill also creates exactly one mirrored
// split Expense (SplitWith = UserIDs, PaidBy = the generating admin); both
// records are written in a single transaction.
type ElectricityBill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// FromDate and ToDate bound the billing period (Unix timestamps).
	FromDate int64 `json:"fromDate"`
	ToDate   int64 `json:"toDate"`

	// StartReading and EndReading are the meter values at the period bounds.
	StartReading float64 `json:"startReading"`
	EndReading   float64 `json:"endReading"`

	// UnitsConsumed is EndReading - StartReading. Never negative.
	UnitsConsumed float64 `json:"unitsConsumed"`

	// RatePerUnit is the fixed tariff applied to the bill.
	RatePerUnit float64 `json:"ratePerUnit"`

	// TotalAmount is UnitsConsumed * RatePerUnit.
	TotalAmount float64 `json:"totalAmount"`

	// UserIDs lists the members the bill is split across.
	UserIDs []string `json:"userIds"`

	// AmountPerUser is TotalAmount / len(UserIDs).
	AmountPerUser float64 `json:"amountPerUser"`

	// ExpenseID references the mirrored split Expense.
	ExpenseID string `json:"expenseId"`

	// GeneratedBy is the UserID of the admin who generated the bill.
	GeneratedBy string `json:"generatedBy"`

	// CreatedAt is the Unix timestamp when the bill was generated.
	CreatedAt int64 `json:"createdAt"`
}
