package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"roomledger/internal/models"
	"roomledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "roomledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.User{
		UserID:       "alice",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$fakehash",
		IsActive:     true,
		CreatedBy:    "admin",
	}

	t.Run("CreateUser sets CreatedAt", func(t *testing.T) {
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("CreateUser rejects duplicate userId", func(t *testing.T) {
		dup := &models.User{UserID: "alice", Name: "Other", Email: "other@example.com", PasswordHash: "x", CreatedBy: "admin"}
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected duplicate userId to fail")
		}
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		dup := &models.User{UserID: "alice2", Name: "Other", Email: "alice@example.com", PasswordHash: "x", CreatedBy: "admin"}
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected duplicate email to fail")
		}
	})

	t.Run("GetUser round-trips", func(t *testing.T) {
		got, err := store.GetUser(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Alice" || got.Email != "alice@example.com" || !got.IsActive {
			t.Errorf("GetUser returned %+v", got)
		}
	})

	t.Run("GetUser unknown returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateUser soft-deactivates", func(t *testing.T) {
		user.IsActive = false
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		got, err := store.GetUser(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.IsActive {
			t.Error("Expected user to be deactivated")
		}
	})

	t.Run("UpdateUser unknown returns ErrNotFound", func(t *testing.T) {
		err := store.UpdateUser(ctx, &models.User{UserID: "nobody"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CountUsers", func(t *testing.T) {
		count, err := store.CountUsers(ctx)
		if err != nil {
			t.Fatalf("CountUsers failed: %v", err)
		}
		if count != 1 {
			t.Errorf("CountUsers = %d, want 1", count)
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	expense := &models.Expense{
		Amount:      300,
		Description: "Groceries",
		PaidBy:      "x",
		SplitWith:   []string{"x", "y", "z"},
		Type:        models.ExpenseSplit,
		UserNames:   map[string]string{"x": "Xavier", "y": "Yara", "z": "Zoe"},
		ReceiptURL:  "/uploads/abc.jpg",
	}

	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if expense.ID == "" {
		t.Error("Expected expense ID to be generated")
	}

	got, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if got.Amount != 300 || got.Type != models.ExpenseSplit || got.ReceiptURL != "/uploads/abc.jpg" {
		t.Errorf("GetExpense returned %+v", got)
	}
	if len(got.SplitWith) != 3 || len(got.PaidFor) != 0 {
		t.Errorf("Participant sets wrong: splitWith=%v paidFor=%v", got.SplitWith, got.PaidFor)
	}
	if got.UserNames["y"] != "Yara" {
		t.Errorf("Name snapshot lost: %v", got.UserNames)
	}

	paidFor := &models.Expense{
		Amount:      90,
		Description: "Takeout",
		PaidBy:      "a",
		PaidFor:     []string{"b", "c"},
		Type:        models.ExpensePaidFor,
		UserNames:   map[string]string{"a": "Ann", "b": "Ben", "c": "Cam"},
	}
	if err := store.CreateExpense(ctx, paidFor); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	gotPaidFor, err := store.GetExpense(ctx, paidFor.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if len(gotPaidFor.PaidFor) != 2 || len(gotPaidFor.SplitWith) != 0 {
		t.Errorf("Participant sets wrong: %+v", gotPaidFor)
	}
	// Payer name survives even though the payer is in neither set.
	if gotPaidFor.UserNames["a"] != "Ann" {
		t.Errorf("Payer name snapshot lost: %v", gotPaidFor.UserNames)
	}

	all, err := store.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListExpenses returned %d expenses, want 2", len(all))
	}

	if _, err := store.GetExpense(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Payments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payment := &models.Payment{
		PaidBy: "x", PaidByName: "Xavier",
		PaidTo: "y", PaidToName: "Yara",
		Amount: 50,
	}
	if err := store.CreatePayment(ctx, payment); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if payment.ID == "" || payment.CreatedAt == 0 {
		t.Error("Expected ID and CreatedAt to be set")
	}

	payments, err := store.ListPayments(ctx)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 || payments[0].Amount != 50 {
		t.Errorf("ListPayments returned %+v", payments)
	}
}

func TestSQLiteStore_Electricity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("LatestMeterReading empty returns ErrNotFound", func(t *testing.T) {
		_, err := store.LatestMeterReading(ctx)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Latest reading follows reading date", func(t *testing.T) {
		first := &models.MeterReading{Reading: 100, ReadingDate: 1000, RecordedBy: "admin"}
		second := &models.MeterReading{Reading: 150, ReadingDate: 5000, RecordedBy: "admin"}
		if err := store.CreateMeterReading(ctx, first); err != nil {
			t.Fatalf("CreateMeterReading failed: %v", err)
		}
		if err := store.CreateMeterReading(ctx, second); err != nil {
			t.Fatalf("CreateMeterReading failed: %v", err)
		}

		latest, err := store.LatestMeterReading(ctx)
		if err != nil {
			t.Fatalf("LatestMeterReading failed: %v", err)
		}
		if latest.Reading != 150 {
			t.Errorf("Latest reading = %v, want 150", latest.Reading)
		}

		readings, err := store.ListMeterReadings(ctx)
		if err != nil {
			t.Fatalf("ListMeterReadings failed: %v", err)
		}
		if len(readings) != 2 || readings[0].Reading != 100 {
			t.Errorf("ListMeterReadings returned %+v", readings)
		}
	})

	t.Run("CreateBillWithExpense writes both atomically", func(t *testing.T) {
		bill := &models.ElectricityBill{
			FromDate: 1000, ToDate: 5000,
			StartReading: 100, EndReading: 150,
			UnitsConsumed: 50, RatePerUnit: 9, TotalAmount: 450,
			UserIDs: []string{"a", "b", "c"}, AmountPerUser: 150,
			GeneratedBy: "admin",
		}
		expense := &models.Expense{
			Amount:      450,
			Description: "Electricity bill",
			PaidBy:      "admin",
			SplitWith:   []string{"a", "b", "c"},
			Type:        models.ExpenseSplit,
			UserNames:   map[string]string{"a": "Ann", "b": "Ben", "c": "Cam", "admin": "Administrator"},
		}

		if err := store.CreateBillWithExpense(ctx, bill, expense); err != nil {
			t.Fatalf("CreateBillWithExpense failed: %v", err)
		}
		if bill.ExpenseID != expense.ID || bill.ExpenseID == "" {
			t.Errorf("Bill not linked to expense: %q vs %q", bill.ExpenseID, expense.ID)
		}

		bills, err := store.ListElectricityBills(ctx)
		if err != nil {
			t.Fatalf("ListElectricityBills failed: %v", err)
		}
		if len(bills) != 1 {
			t.Fatalf("ListElectricityBills returned %d bills, want 1", len(bills))
		}
		if len(bills[0].UserIDs) != 3 {
			t.Errorf("Bill users = %v, want 3 entries", bills[0].UserIDs)
		}

		mirrored, err := store.GetExpense(ctx, bill.ExpenseID)
		if err != nil {
			t.Fatalf("Mirrored expense missing: %v", err)
		}
		if mirrored.Amount != 450 || mirrored.Type != models.ExpenseSplit {
			t.Errorf("Mirrored expense wrong: %+v", mirrored)
		}
	})
}
