// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"roomledger/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for Roomledger's storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Fails if the UserID or email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by UserID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers retrieves all users, active and deactivated.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateUser replaces a user's mutable fields. UserID never changes.
	UpdateUser(ctx context.Context, user *models.User) error

	// CountUsers returns the total number of user records.
	CountUsers(ctx context.Context) (int, error)

	// CreateExpense persists a new expense with its participant sets and
	// name snapshot. The ID and CreatedAt fields are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID. Returns ErrNotFound if absent.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListExpenses retrieves every expense, oldest first.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// CreatePayment persists a new settlement payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments retrieves every payment, oldest first.
	ListPayments(ctx context.Context) ([]*models.Payment, error)

	// CreateMeterReading persists a new meter reading.
	CreateMeterReading(ctx context.Context, reading *models.MeterReading) error

	// LatestMeterReading returns the most recent reading by date, or
	// ErrNotFound when none exist.
	LatestMeterReading(ctx context.Context) (*models.MeterReading, error)

	// ListMeterReadings retrieves all readings ordered by date.
	ListMeterReadings(ctx context.Context) ([]*models.MeterReading, error)

	// CreateBillWithExpense persists an electricity bill and its mirrored
	// split expense atomically: either both records exist or neither does.
	CreateBillWithExpense(ctx context.Context, bill *models.ElectricityBill, expense *models.Expense) error

	// ListElectricityBills retrieves all bills, newest first.
	ListElectricityBills(ctx context.Context) ([]*models.ElectricityBill, error)

	// Close releases any resources held by the store.
	Close() error
}
