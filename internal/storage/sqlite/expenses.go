package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomledger/internal/models"
	"roomledger/internal/storage"
)

// Participant roles in the expense_participants table. The payer always gets
// a row so their name snapshot survives even when they are not a member of
// either participant set.
const (
	roleSplit   = "split"
	rolePaidFor = "paidFor"
	rolePayer   = "payer"
)

// CreateExpense persists a new expense with its participant sets and name
// snapshot in a single transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := createExpenseTx(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// createExpenseTx inserts an expense inside an existing transaction so the
// electricity bill generator can pair it with a bill write.
func createExpenseTx(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	var receiptURL any
	if expense.ReceiptURL != "" {
		receiptURL = expense.ReceiptURL
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (id, amount, description, paid_by, expense_type, receipt_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Amount, expense.Description, expense.PaidBy,
		string(expense.Type), receiptURL, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	insertParticipant := func(userID, role string) error {
		name := expense.UserNames[userID]
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO expense_participants (expense_id, user_id, role, name_snapshot)
			 VALUES (?, ?, ?, ?)`,
			expense.ID, userID, role, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
		return nil
	}

	for _, id := range expense.SplitWith {
		if err := insertParticipant(id, roleSplit); err != nil {
			return err
		}
	}
	for _, id := range expense.PaidFor {
		if err := insertParticipant(id, rolePaidFor); err != nil {
			return err
		}
	}
	return insertParticipant(expense.PaidBy, rolePayer)
}

// GetExpense retrieves an expense by ID, including participant sets and the
// name snapshot.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	var receiptURL sql.NullString
	var expenseType string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, amount, description, paid_by, expense_type, receipt_url, created_at
		 FROM expenses WHERE id = ?`, id,
	).Scan(&expense.ID, &expense.Amount, &expense.Description, &expense.PaidBy,
		&expenseType, &receiptURL, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	expense.Type = models.ExpenseType(expenseType)
	if receiptURL.Valid {
		expense.ReceiptURL = receiptURL.String
	}

	if err := s.loadParticipants(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses retrieves every expense, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, description, paid_by, expense_type, receipt_url, created_at
		 FROM expenses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var receiptURL sql.NullString
		var expenseType string
		if err := rows.Scan(&expense.ID, &expense.Amount, &expense.Description,
			&expense.PaidBy, &expenseType, &receiptURL, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Type = models.ExpenseType(expenseType)
		if receiptURL.Valid {
			expense.ReceiptURL = receiptURL.String
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadParticipants(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// loadParticipants fills SplitWith, PaidFor, and UserNames from the
// expense_participants rows.
func (s *SQLiteStore) loadParticipants(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, role, name_snapshot FROM expense_participants
		 WHERE expense_id = ? ORDER BY user_id`, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	expense.UserNames = make(map[string]string)
	for rows.Next() {
		var userID, role, name string
		if err := rows.Scan(&userID, &role, &name); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		expense.UserNames[userID] = name
		switch role {
		case roleSplit:
			expense.SplitWith = append(expense.SplitWith, userID)
		case rolePaidFor:
			expense.PaidFor = append(expense.PaidFor, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}
