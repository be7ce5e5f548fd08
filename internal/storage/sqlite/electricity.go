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

// CreateMeterReading persists a new meter reading.
// Monotonicity against the latest reading is the service layer's concern.
func (s *SQLiteStore) CreateMeterReading(ctx context.Context, reading *models.MeterReading) error {
	if reading.ID == "" {
		reading.ID = uuid.New().String()
	}
	if reading.RecordedAt == 0 {
		reading.RecordedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meter_readings (id, reading, reading_date, recorded_by, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		reading.ID, reading.Reading, reading.ReadingDate, reading.RecordedBy, reading.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meter reading: %w", err)
	}

	return nil
}

// LatestMeterReading returns the most recent reading by date.
func (s *SQLiteStore) LatestMeterReading(ctx context.Context) (*models.MeterReading, error) {
	reading := &models.MeterReading{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, reading, reading_date, recorded_by, recorded_at
		 FROM meter_readings ORDER BY reading_date DESC, recorded_at DESC LIMIT 1`,
	).Scan(&reading.ID, &reading.Reading, &reading.ReadingDate, &reading.RecordedBy, &reading.RecordedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest meter reading: %w", err)
	}
	return reading, nil
}

// ListMeterReadings retrieves all readings ordered by date.
func (s *SQLiteStore) ListMeterReadings(ctx context.Context) ([]*models.MeterReading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reading, reading_date, recorded_by, recorded_at
		 FROM meter_readings ORDER BY reading_date, recorded_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list meter readings: %w", err)
	}
	defer rows.Close()

	var readings []*models.MeterReading
	for rows.Next() {
		reading := &models.MeterReading{}
		if err := rows.Scan(&reading.ID, &reading.Reading, &reading.ReadingDate,
			&reading.RecordedBy, &reading.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meter reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meter readings: %w", err)
	}

	return readings, nil
}

// CreateBillWithExpense persists an electricity bill and its mirrored split
// expense in one transaction, so the bill can never exist without the expense.
func (s *SQLiteStore) CreateBillWithExpense(ctx context.Context, bill *models.ElectricityBill, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := createExpenseTx(ctx, tx, expense); err != nil {
		return err
	}

	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	bill.ExpenseID = expense.ID

	_, err = tx.ExecContext(ctx,
		`INSERT INTO electricity_bills
		 (id, from_date, to_date, start_reading, end_reading, units_consumed,
		  rate_per_unit, total_amount, amount_per_user, expense_id, generated_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.FromDate, bill.ToDate, bill.StartReading, bill.EndReading,
		bill.UnitsConsumed, bill.RatePerUnit, bill.TotalAmount, bill.AmountPerUser,
		bill.ExpenseID, bill.GeneratedBy, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert electricity bill: %w", err)
	}

	for _, userID := range bill.UserIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO bill_users (bill_id, user_id) VALUES (?, ?)`,
			bill.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill user: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListElectricityBills retrieves all bills, newest first.
func (s *SQLiteStore) ListElectricityBills(ctx context.Context) ([]*models.ElectricityBill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_date, to_date, start_reading, end_reading, units_consumed,
		        rate_per_unit, total_amount, amount_per_user, expense_id, generated_by, created_at
		 FROM electricity_bills ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list electricity bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.ElectricityBill
	for rows.Next() {
		bill := &models.ElectricityBill{}
		if err := rows.Scan(&bill.ID, &bill.FromDate, &bill.ToDate, &bill.StartReading,
			&bill.EndReading, &bill.UnitsConsumed, &bill.RatePerUnit, &bill.TotalAmount,
			&bill.AmountPerUser, &bill.ExpenseID, &bill.GeneratedBy, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan electricity bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate electricity bills: %w", err)
	}

	for _, bill := range bills {
		userRows, err := s.db.QueryContext(ctx,
			`SELECT user_id FROM bill_users WHERE bill_id = ? ORDER BY user_id`, bill.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get bill users: %w", err)
		}
		for userRows.Next() {
			var userID string
			if err := userRows.Scan(&userID); err != nil {
				userRows.Close()
				return nil, fmt.Errorf("failed to scan bill user: %w", err)
			}
			bill.UserIDs = append(bill.UserIDs, userID)
		}
		if err := userRows.Err(); err != nil {
			userRows.Close()
			return nil, fmt.Errorf("failed to iterate bill users: %w", err)
		}
		userRows.Close()
	}

	return bills, nil
}
