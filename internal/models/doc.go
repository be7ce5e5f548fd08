// Package models defines the core domain records for Roomledger.
//
// # Records
//
//   - User: a household member account, created by an admin
//   - Expense: a shared, paid-for-others, or personal expense
//   - Payment: a direct settlement payment between two members
//   - MeterReading: a point-in-time electricity meter reading
//   - ElectricityBill: a bill derived from two readings, mirrored as an Expense
//
// # Design Principles
//
// 1. **Weak references**: records reference each other by ID string only,
// resolved at read time. No pointers between records.
// 2. **Immutability**: expenses and payments are never edited or deleted once
// created; corrections happen through new records.
// 3. **Name snapshots**: an expense carries a userID-to-name map taken at
// creation time so later renames do not rewrite history.
package models
