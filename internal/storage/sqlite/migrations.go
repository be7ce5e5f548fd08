package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin INTEGER NOT NULL DEFAULT 0,
    is_temp_password INTEGER NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    paid_by TEXT NOT NULL,
    expense_type TEXT NOT NULL DEFAULT 'split',
    receipt_url TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS expense_participants (
    expense_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL,
    name_snapshot TEXT NOT NULL,
    PRIMARY KEY (expense_id, user_id, role),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    paid_by TEXT NOT NULL,
    paid_by_name TEXT NOT NULL,
    paid_to TEXT NOT NULL,
    paid_to_name TEXT NOT NULL,
    amount REAL NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meter_readings (
    id TEXT PRIMARY KEY,
    reading REAL NOT NULL,
    reading_date INTEGER NOT NULL,
    recorded_by TEXT NOT NULL,
    recorded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS electricity_bills (
    id TEXT PRIMARY KEY,
    from_date INTEGER NOT NULL,
    to_date INTEGER NOT NULL,
    start_reading REAL NOT NULL,
    end_reading REAL NOT NULL,
    units_consumed REAL NOT NULL,
    rate_per_unit REAL NOT NULL,
    total_amount REAL NOT NULL,
    amount_per_user REAL NOT NULL,
    expense_id TEXT NOT NULL,
    generated_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (expense_id) REFERENCES expenses(id)
);

CREATE TABLE IF NOT EXISTS bill_users (
    bill_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    PRIMARY KEY (bill_id, user_id),
    FOREIGN KEY (bill_id) REFERENCES electricity_bills(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_expenses_paid_by ON expenses(paid_by);
CREATE INDEX IF NOT EXISTS idx_expense_participants_expense_id ON expense_participants(expense_id);
CREATE INDEX IF NOT EXISTS idx_expense_participants_user_id ON expense_participants(user_id);
CREATE INDEX IF NOT EXISTS idx_payments_paid_by ON payments(paid_by);
CREATE INDEX IF NOT EXISTS idx_payments_paid_to ON payments(paid_to);
CREATE INDEX IF NOT EXISTS idx_meter_readings_date ON meter_readings(reading_date);
CREATE INDEX IF NOT EXISTS idx_bill_users_bill_id ON bill_users(bill_id);
`

// backfillExpenseTypes backfills the discriminant on rows imported from the
// legacy flat-file data set, where a missing expenseType implied a split.
// Runs once at startup instead of checking for absence on every read.
const backfillExpenseTypes = `
UPDATE expenses SET expense_type = 'split' WHERE expense_type IS NULL OR expense_type = '';
`

// runMigrations executes the schema setup and legacy backfills.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(backfillExpenseTypes)
	return err
}
